package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	EditUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error

	Students(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	AddStudent(ctx context.Context, args []string) error
	EditStudent(ctx context.Context, args []string) error
	DeleteStudent(ctx context.Context, args []string) error

	Files(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	EditFile(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	DeleteFile(ctx context.Context, args []string) error

	Refresh(ctx context.Context, args []string) error
}

type command struct {
	run       func(execIface, context.Context, []string) error
	needsAuth bool
}

var commands = map[string]command{
	"register": {run: execIface.Register},
	"login":    {run: execIface.Login},
	"logout":   {run: execIface.Logout},
	"whoami":   {run: execIface.WhoAmI},

	"users":    {run: execIface.Users, needsAuth: true},
	"edituser": {run: execIface.EditUser, needsAuth: true},
	"deluser":  {run: execIface.DeleteUser, needsAuth: true},

	"students":    {run: execIface.Students, needsAuth: true},
	"search":      {run: execIface.Search, needsAuth: true},
	"addstudent":  {run: execIface.AddStudent, needsAuth: true},
	"editstudent": {run: execIface.EditStudent, needsAuth: true},
	"delstudent":  {run: execIface.DeleteStudent, needsAuth: true},

	"files":    {run: execIface.Files, needsAuth: true},
	"upload":   {run: execIface.Upload, needsAuth: true},
	"editfile": {run: execIface.EditFile, needsAuth: true},
	"download": {run: execIface.Download, needsAuth: true},
	"delfile":  {run: execIface.DeleteFile, needsAuth: true},

	"refresh": {run: execIface.Refresh, needsAuth: true},
}

const (
	helpAnonymous = "Available commands: register, login, whoami, exit"
	helpSignedIn  = "Available commands: users [page] [size], edituser <id>, deluser <id>, " +
		"students [page] [size], search <name> [page] [size], addstudent, editstudent <id>, delstudent <id>, " +
		"files [page] [size] [sortBy] [asc|desc], upload <path>, editfile <id>, download <id> [name], delfile <id>, " +
		"refresh, whoami, logout, exit"
)

// runREPL starts a read–eval–print loop for the school-records CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as arguments, and dispatches to a. Commands that reach the
// resource stores require a session. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are rendered with describeError and
// the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("records (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if cmd.needsAuth && !a.isLoggedIn() {
			printlnFn("Please login first.")
			continue
		}

		if err := cmd.run(a, ctx, args); err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

// describeError turns a propagated failure into a message for the user.
func describeError(err error) string {
	var se *api.StatusError

	switch {
	case api.IsUnavailable(err):
		return "server unavailable, try again later"
	case errors.Is(err, session.ErrEmptyCredentials):
		return err.Error()
	case errors.Is(err, api.ErrUnauthorized) && errors.As(err, &se):
		return fmt.Sprintf("not authorized (%s); try 'login'", se.Message)
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, api.ErrMalformedResponse):
		return "unexpected response from server"
	default:
		return err.Error()
	}
}
