// Package app wires application dependencies for the CLI.
//
// It resolves Config from defaults, an optional config.yaml in the home
// directory and SIGIL_* environment variables, then builds the concrete
// stores, the account service and the relay client, exposing them via the
// Wire struct for commands to use.
package app
