package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Prompt helpers behind variables so tests can swap them.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for username, email and password and creates an account.
// A successful registration also logs the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := a.prompt("Enter username")
	if err != nil {
		return err
	}
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", u.Username)
	return nil
}

// Login prompts for email and password and loads the user's tasks.
func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Username)

	if _, err := a.tasks.Refresh(ctx); err != nil {
		return err
	}
	a.printCounts()
	return nil
}

// Logout drops the token, the saved session and the local task list.
func (a *App) Logout(ctx context.Context) error {
	a.tasks.Clear()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
