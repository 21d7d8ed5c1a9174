// Package account manages signing identities behind a single password.
//
// A Service owns the account metadata file and the encrypted keystore. It is
// Locked until a password opens the keystore, after which the decrypted keys
// stay in memory until Lock, an idle auto-lock, or process exit. Metadata
// (List, SetActive) is available in either state; anything that needs a
// secret key requires Unlocked, and mutations take the password so they can
// re-seal the keystore.
//
// The keystore is always written before the metadata file. A failure between
// the two leaves a key without a record, which is harmless; the reverse
// ordering could leave a record without a key.
package account
