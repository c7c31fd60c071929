// Package cli implements the interactive command line client for the
// task server. It keeps the login state in a session store and talks to
// the server through the typed API client.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
)

// taskAPI is the server surface the CLI needs. *api.Client satisfies it;
// tests can provide a stub.
type taskAPI interface {
	Register(ctx context.Context, name, email, password string) (*session.User, error)
	Login(ctx context.Context, email, password string) (*session.User, error)
	Logout()
	ListTasks(ctx context.Context, opts api.ListOptions) ([]api.Task, *api.Pagination, error)
	CreateTask(ctx context.Context, title, description, status string) (*api.Task, error)
	UpdateTask(ctx context.Context, id int64, upd api.TaskUpdate) (*api.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type App struct {
	config  *config.Config
	client  taskAPI
	session *session.Store
	reader  *bufio.Reader

	// login shown in the prompt, kept current through a session subscription
	login string
}

func NewApp(c *config.Config) *App {
	store := session.NewStore()

	app := &App{
		config:  c,
		client:  api.NewClient(c, store),
		session: store,
		reader:  bufio.NewReader(os.Stdin),
	}

	store.Subscribe(func(snap session.Snapshot) {
		if snap.User != nil {
			app.login = snap.User.Email
		} else {
			app.login = ""
		}
	})

	return app
}

func (a *App) Run(ctx context.Context) {
	a.Main(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Get().LoggedIn()
}

func (a *App) showLogin() string {
	if a.login == "" {
		return "(anonymous)"
	}
	return a.login
}
