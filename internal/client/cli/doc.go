// Package cli provides the interactive backup command-line client.
//
// It wires configuration, the HTTP backup client, local storage and the save
// history around a session.Controller, and exposes the session through a
// line-oriented REPL:
//
//   - key <path>    load a service-account key and discover collections
//   - list, toggle, all, none   inspect and edit the selection
//   - backup        generate a backup of the selected collections and save it
//   - status, wait, history
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// When stdin is not a terminal the prompt is suppressed and every remote
// operation is awaited before the next line is read, so scripted sessions
// are deterministic.
package cli
