// Package cli provides the interactive AdminDash command-line client.
//
// It shares the local session database with the dashboard host, so a login
// made here is picked up by the host on its next start and vice versa.
//
// Commands:
//   - login / logout
//   - whoami, status
//   - reset (password change on the authentication service)
//
// The REPL is started via App.Run(ctx), which restores the stored session
// and blocks until the user exits.
package cli
