// Package cli provides the interactive TaskKeeper command-line client.
//
// App wires configuration, the HTTP API client, the local task store and a
// REPL. Passwords are read from the terminal without echo.
//
// Commands:
//   - register, login, logout
//   - list, add, status <id> <status>, edit <id>, delete <id>
//   - help, exit | quit
//
// Task commands require a logged-in session. The REPL is started with
// App.Run and blocks until the user exits or input ends.
package cli
