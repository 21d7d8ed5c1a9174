// Package commands defines the sigil CLI and wires dependencies for subcommands.
//
// Commands
//
//   - account create  Generate a new signing identity
//   - account import  Import an existing secret key (hex or nsec)
//   - account list    List accounts, marking the active one
//   - account use     Select the active account
//   - account delete  Remove an account and its secret key
//   - keygen          Print a fresh keypair without storing it
//   - sign            Sign a note with the active account and print the event
//   - post            Sign a note and publish it to the relay
//   - verify          Check the id and signature of an event
//
// # Implementation
//
// The root command resolves configuration (flags, SIGIL_* environment,
// config.yaml, defaults) and builds the dependency graph before any
// subcommand runs. The password comes from -p/--password or SIGIL_PASSWORD
// and is moved into a locked memguard buffer as soon as it is read.
package commands
