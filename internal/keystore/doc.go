// Package keystore seals a map of account secret keys under one password.
//
// # Format
//
// A single argon2id evaluation over (password, salt) yields 32 bytes that
// serve two purposes:
//
//   - the PHC-style verifier "$argon2id$v=19$m=..,t=..,p=..$salt$hash",
//     checked in constant time before any decryption is attempted;
//   - input keying material for HKDF-SHA256, whose output under a fixed
//     label is the ChaCha20-Poly1305 key. The raw hash is never used as a
//     cipher key directly.
//
// The plaintext is the JSON object {"<account id>": "<64 hex chars>"}.
//
// # Updates
//
// AddKey and RemoveKey open the whole envelope, change the map and seal it
// again with a fresh salt and nonce. Cost grows with the number of accounts,
// which is fine for a personal keystore.
package keystore
