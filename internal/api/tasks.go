package api

import (
	"context"
	"net/http"
	"net/url"

	"taskdeck/internal/model"
)

// TasksPath is the collection endpoint.
const TasksPath = "/api/tasks"

// Client calls the task endpoints through the authenticated gateway.
type Client struct {
	gw *Gateway
}

// NewClient wraps gw with the task endpoints.
func NewClient(gw *Gateway) *Client {
	return &Client{gw: gw}
}

type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// List returns every task in server order. A missing or empty body reads as
// an empty collection.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.gw.DoJSON(ctx, http.MethodGet, TasksPath, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create adds a task and returns the server's copy of it.
func (c *Client) Create(ctx context.Context, title, description string, completed bool) (model.Task, error) {
	var task model.Task
	err := c.gw.DoJSON(ctx, http.MethodPost, TasksPath, taskPayload{
		Title:       title,
		Description: description,
		Completed:   completed,
	}, &task)
	return task, err
}

// Update replaces a task's mutable fields.
func (c *Client) Update(ctx context.Context, id model.ID, title, description string, completed bool) (model.Task, error) {
	var task model.Task
	err := c.gw.DoJSON(ctx, http.MethodPut, taskPath(id), taskPayload{
		Title:       title,
		Description: description,
		Completed:   completed,
	}, &task)
	return task, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	_, err := c.gw.Do(ctx, http.MethodDelete, taskPath(id), nil)
	return err
}

func taskPath(id model.ID) string {
	return TasksPath + "/" + url.PathEscape(string(id))
}
