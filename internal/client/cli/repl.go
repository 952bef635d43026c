package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
)

var errEmptyID = errors.New("task id is required")

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Status(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until "exit", "quit" or EOF. Command
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "tk%s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, add, status <id> <status>, edit <id>, delete <id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		case "logout", "l", "list", "add", "status", "edit", "delete":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			switch cmd {
			case "logout":
				cmdErr = a.Logout(ctx)
			case "l", "list":
				cmdErr = a.List(ctx)
			case "add":
				cmdErr = a.Add(ctx)
			case "status":
				cmdErr = a.Status(ctx, args)
			case "edit":
				cmdErr = a.Edit(ctx, args)
			case "delete":
				cmdErr = a.Delete(ctx, args)
			}

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", errorText(cmdErr))
		}
	}
}

// errorText turns API failures into the server's own message.
func errorText(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	default:
		return err.Error()
	}
}
