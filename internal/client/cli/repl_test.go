package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) List(context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Add(context.Context) error  { f.calls = append(f.calls, "add"); return nil }
func (f *fakeExec) Status(_ context.Context, args []string) error {
	f.calls = append(f.calls, "status "+strings.Join(args, " "))
	return nil
}
func (f *fakeExec) Edit(_ context.Context, args []string) error {
	f.calls = append(f.calls, "edit "+strings.Join(args, " "))
	return nil
}
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	f.calls = append(f.calls, "delete "+strings.Join(args, " "))
	return f.failWith
}

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"list",
		"login",
		"help",
		"",
		"l",
		"add",
		"status 42 completed",
		"edit 42",
		"delete 42",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "(alice)" }, rdr(input), &out)

	assert.Equal(t, []string{"login", "list", "add", "status 42 completed", "edit 42", "delete 42", "logout"}, exec.calls)

	s := out.String()
	assert.Contains(t, s, "tk(alice)> ")
	assert.Contains(t, s, "Available commands: register, login, exit")
	assert.Contains(t, s, "Available commands: (l)ist, add")
	assert.Contains(t, s, "Please login first")
	assert.Contains(t, s, "Unknown command: foobar")
	assert.True(t, strings.HasSuffix(s, "Bye!\n"))
}

func TestRunREPL_PrintsErrorsAndStopsOnEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true, failWith: &client.APIError{Status: 404, Message: "Task not found"}}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr("delete x\n"), &out)

	assert.Contains(t, out.String(), "Error: Task not found")
	assert.NotContains(t, out.String(), "Bye!")
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Invalid credentials", errorText(&client.APIError{Status: 401, Message: "Invalid credentials"}))
	assert.Equal(t, "server unavailable", errorText(fmt.Errorf("%w: dial tcp", client.ErrUnavailable)))
	assert.Equal(t, "boom", errorText(errors.New("boom")))
}
