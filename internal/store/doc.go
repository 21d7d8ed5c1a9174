// Package store provides file-based persistence for Sigil's account data.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON under the configured home directory. Every write
// goes to a temporary file that is renamed over the target, so a reader
// never observes a half-written file. Methods are safe for concurrent use
// within one process; nothing coordinates separate processes.
//
// The package includes stores for:
//   - Account metadata and security settings (AccountsFileStore, accounts.json)
//   - The encrypted keystore envelope (KeystoreFileStore, keystore.json)
package store
