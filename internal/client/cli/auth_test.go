package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
)

func stubInputs(t *testing.T, lines []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(lines) {
			return "", io.EOF
		}
		line := lines[i]
		i++
		return line, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) {
		return append([]byte(nil), password...), nil
	}

	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type fakeAPI struct {
	store *session.Store

	regName, regEmail, regPassword string
	regErr                         error

	loginEmail, loginPassword string
	loginErr                  error

	tasks      []api.Task
	pagination *api.Pagination
	listOpts   api.ListOptions
	listErr    error

	created   *api.Task
	createErr error

	updatedID  int64
	updatedUpd api.TaskUpdate
	updateErr  error

	deletedID int64
	deleteErr error
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (*session.User, error) {
	f.regName, f.regEmail, f.regPassword = name, email, password
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &session.User{ID: 1, Name: name, Email: email}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*session.User, error) {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	user := &session.User{ID: 1, Email: email}
	f.store.Set("tok", user)
	return user, nil
}

func (f *fakeAPI) Logout() { f.store.Clear() }

func (f *fakeAPI) ListTasks(_ context.Context, opts api.ListOptions) ([]api.Task, *api.Pagination, error) {
	f.listOpts = opts
	return f.tasks, f.pagination, f.listErr
}

func (f *fakeAPI) CreateTask(_ context.Context, title, description, status string) (*api.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &api.Task{ID: 10, Title: title, Status: "pending"}
	if description != "" {
		f.created.Description = &description
	}
	return f.created, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, upd api.TaskUpdate) (*api.Task, error) {
	f.updatedID, f.updatedUpd = id, upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	task := &api.Task{ID: id, Title: "T", Status: "pending"}
	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	return task, nil
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	f.deletedID = id
	return f.deleteErr
}

func newTestApp() (*App, *fakeAPI) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := NewApp(cfg)
	fake := &fakeAPI{store: app.session}
	app.client = fake
	return app, fake
}

func TestRegister_PassesInputs(t *testing.T) {
	restore := stubInputs(t, []string{"Alice", "a@x.com"}, []byte("12345678"))
	defer restore()

	app, fake := newTestApp()

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, "Alice", fake.regName)
	assert.Equal(t, "a@x.com", fake.regEmail)
	assert.Equal(t, "12345678", fake.regPassword)
}

func TestRegister_PropagatesError(t *testing.T) {
	restore := stubInputs(t, []string{"Alice", "a@x.com"}, []byte("12345678"))
	defer restore()

	app, fake := newTestApp()
	fake.regErr = errors.New("email already in use")

	err := app.Register(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already in use")
}

func TestLogin_UpdatesPrompt(t *testing.T) {
	restore := stubInputs(t, []string{"a@x.com"}, []byte("12345678"))
	defer restore()

	app, _ := newTestApp()

	assert.Equal(t, "(anonymous)", app.showLogin())

	require.NoError(t, app.Login(context.Background()))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "a@x.com", app.showLogin())

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "(anonymous)", app.showLogin())
}

func TestUpdate_BuildsPartialUpdate(t *testing.T) {
	// keep the title and description, change the status
	restore := stubInputs(t, []string{"", "", "completed"}, nil)
	defer restore()

	app, fake := newTestApp()

	require.NoError(t, app.Update(context.Background(), []string{"5"}))
	assert.Equal(t, int64(5), fake.updatedID)
	assert.Nil(t, fake.updatedUpd.Title)
	assert.Nil(t, fake.updatedUpd.Description)
	require.NotNil(t, fake.updatedUpd.Status)
	assert.Equal(t, "completed", *fake.updatedUpd.Status)
}

func TestUpdate_SetsDescription(t *testing.T) {
	restore := stubInputs(t, []string{"", "new details", ""}, nil)
	defer restore()

	app, fake := newTestApp()

	require.NoError(t, app.Update(context.Background(), []string{"5"}))
	assert.Nil(t, fake.updatedUpd.Title)
	assert.Nil(t, fake.updatedUpd.Status)
	require.NotNil(t, fake.updatedUpd.Description)
	assert.Equal(t, "new details", *fake.updatedUpd.Description)
}

func TestUpdate_RequiresID(t *testing.T) {
	app, _ := newTestApp()

	err := app.Update(context.Background(), nil)
	require.Error(t, err)

	err = app.Update(context.Background(), []string{"abc"})
	require.Error(t, err)
}

func TestList_ParsesArgs(t *testing.T) {
	app, fake := newTestApp()
	fake.pagination = &api.Pagination{Page: 2, TotalPages: 3, Total: 25}

	require.NoError(t, app.List(context.Background(), []string{"2", "completed"}))
	assert.Equal(t, 2, fake.listOpts.Page)
	assert.Equal(t, "completed", fake.listOpts.Status)

	err := app.List(context.Background(), []string{"abc"})
	require.Error(t, err)
}

func TestDelete_PassesID(t *testing.T) {
	app, fake := newTestApp()

	require.NoError(t, app.Delete(context.Background(), []string{"7"}))
	assert.Equal(t, int64(7), fake.deletedID)
}
