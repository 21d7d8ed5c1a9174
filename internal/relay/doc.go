// Package relay publishes signed events to a relay over a websocket.
//
// It implements domain.RelayClient. Frames are JSON arrays: the client sends
// ["EVENT", <event>] and waits for ["OK", <id>, <accepted>, <message>].
// NOTICE frames received meanwhile are logged and skipped. An OK that names
// a different event id is reported as ErrIDMismatch rather than treated as
// an acknowledgement.
//
// Subscriptions, reconnects and retries are out of scope; each Publish opens
// its own connection and closes it before returning.
package relay
