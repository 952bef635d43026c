package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/store"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	auth   *services.AuthService
	tasks  *services.TaskService
	pinger pinger
	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the client. With a non-empty c.SessionFile the login is
// saved to that SQLite file and restored by Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	a := &App{
		config: c,
		tasks:  services.NewTaskService(api, store.New()),
		pinger: api,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	var session services.SessionStore
	if c.SessionFile != "" {
		db, err := client.InitDatabase(ctx, c.SessionFile)
		if err != nil {
			return nil, fmt.Errorf("session database: %w", err)
		}
		a.db = db
		session = services.NewSQLiteSession(db)
	}
	a.auth = services.NewAuthService(api, session)
	return a, nil
}

// Close releases the session database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

func (a *App) getStatus() string {
	if u := a.auth.CurrentUser(); u != nil {
		return "(" + u.Username + ")"
	}
	return ""
}

// Run checks the server, resumes a saved session and then serves the REPL
// until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to TaskKeeper CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.pinger.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable\n", a.config.ServerURL)
	}
	cancel()

	u, err := a.auth.Restore(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error: saved session:", err)
	}
	if u != nil {
		fmt.Fprintf(a.out, "Resumed session for %s\n", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.reader, text, a.out)
}

// idArg returns args[0] or prompts for a task id.
func (a *App) idArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := a.prompt("Enter task id")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", errEmptyID
	}
	return id, nil
}
