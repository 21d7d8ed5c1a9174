// Package event computes content-addressed ids for events and signs and
// verifies them.
//
// The id is the SHA-256 of the positional tuple
//
//	[0,"<pubkey hex>",<created_at>,<kind>,<tags>,"<content>"]
//
// rendered without whitespace. The tuple is written by a dedicated encoder
// rather than encoding/json, which would escape <, > and & and would render
// nil tags as null; either would change the digest.
package event
