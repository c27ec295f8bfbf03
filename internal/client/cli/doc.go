// Package cli is the interactive school-records client.
//
// It wires configuration, local storage, the API client, the session and
// the resource stores, then runs a REPL over them. The REPL is the view
// layer: it renders listings and turns failures propagated by the stores
// into messages.
//
// Commands:
//   - register / login / logout / whoami
//   - users, edituser, deluser
//   - students, search, addstudent, editstudent, delstudent
//   - files, upload, editfile, download, delfile
//   - refresh (reloads the three listings in parallel)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
