// Package crypto exposes the signing identity primitives used by sigil.
//
// Contents
//
//   - secp256k1 key generation and import with scalar validation
//     (GenerateKeypair, KeypairFromSecretHex, KeypairFromNsec)
//   - x-only public key encodings: lowercase hex and bech32 "npub"
//     (PublicKeyHex, PublicKeyNpub, DecodeNpub)
//   - BIP-340 Schnorr signing over 32-byte digests and verification
//     (Keypair.Sign, Verify)
//
// # Notes
//
// Verify never reports a forged or mismatched signature as an error; only
// inputs of the wrong byte length are errors. Callers should Wipe keypairs
// they no longer need.
package crypto
