// Package api provides a typed HTTP client for the task server.
// Successful logins are written to the session store so the rest of
// the client picks up the bearer token automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Task mirrors the server's task representation.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskUpdate carries the fields of a partial update. Nil fields are omitted
// from the request and keep their server-side values.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Pagination mirrors the server's list metadata.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ListOptions narrows and pages a task listing. Zero values mean
// server-side defaults.
type ListOptions struct {
	Page   int
	Limit  int
	Status string
}

// Client calls the server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

// NewClient builds a Client over the given session store.
func NewClient(cfg *config.Config, store *session.Store) *Client {
	return &Client{
		baseURL: cfg.ServerEndpointAddr,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		session: store,
	}
}

// Register creates a new account on the server.
func (c *Client) Register(ctx context.Context, name, email, password string) (*session.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var out struct {
		User *session.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and stores the issued token in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	body := map[string]string{"email": email, "password": password}

	var out struct {
		Token string        `json:"token"`
		User  *session.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}

	c.session.Set(out.Token, out.User)
	return out.User, nil
}

// Logout discards the local session. The server keeps no session state,
// so no request is made.
func (c *Client) Logout() {
	c.session.Clear()
}

// ListTasks returns one page of the caller's tasks.
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) ([]Task, *Pagination, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}

	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Tasks      []Task      `json:"tasks"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Tasks, out.Pagination, nil
}

// CreateTask creates a task owned by the signed-in user.
func (c *Client) CreateTask(ctx context.Context, title, description, status string) (*Task, error) {
	body := map[string]any{"title": title}
	if description != "" {
		body["description"] = description
	}
	if status != "" {
		body["status"] = status
	}

	var out struct {
		Task *Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", body, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

// UpdateTask applies a partial update to one task.
func (c *Client) UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (*Task, error) {
	var out struct {
		Task *Task `json:"task"`
	}
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.do(ctx, http.MethodPut, path, upd, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

// DeleteTask removes one task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/tasks/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do performs one JSON round trip. The bearer token from the session store,
// if any, is attached to the request. Non-2xx responses are mapped onto the
// shared error sentinels with the server's message attached.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if snap := c.session.Get(); snap.LoggedIn() {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+snap.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrorForbidden
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorAlreadyExists
	default:
		sentinel = common.ErrorInternal
	}

	return fmt.Errorf("%w: %s", sentinel, msg)
}
