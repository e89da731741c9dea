// Package tasks owns the client's copy of the task collection and the rules
// for changing it: every mutation is a full request, reconcile, rerender
// cycle against the server, one operation at a time.
package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"taskdeck/internal/api"
	"taskdeck/internal/logging"
	"taskdeck/internal/model"
)

// API is the slice of the task service the manager needs.
type API interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, title, description string, completed bool) (model.Task, error)
	Update(ctx context.Context, id model.ID, title, description string, completed bool) (model.Task, error)
	Delete(ctx context.Context, id model.ID) error
}

// Manager holds the local task collection. After every successful mutation
// it reloads the whole collection from the server instead of patching the
// local copy, so the client can never drift from server state. One busy flag
// covers all operations; a second operation started while one is in flight
// fails with ErrBusy.
type Manager struct {
	api API
	log *logrus.Entry

	mu      sync.Mutex
	busy    bool
	tasks   []model.Task
	message string
}

// NewManager creates a Manager over the given task API.
func NewManager(a API) *Manager {
	return &Manager{api: a, log: logging.WithComponent("tasks")}
}

// Load fetches the collection from the server and replaces the local copy.
// An empty response body is an empty collection, not an error.
func (m *Manager) Load(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish()
	return m.reload(ctx)
}

// Create validates the title locally, posts the new task, and reconciles.
// An empty or blank title never reaches the network.
func (m *Manager) Create(ctx context.Context, title, description string, completed bool) error {
	if err := validateTitle(title); err != nil {
		m.fail(err)
		return err
	}
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish()

	if _, err := m.api.Create(ctx, title, description, completed); err != nil {
		m.fail(err)
		return err
	}
	m.log.Debugf("created task %q", title)
	return m.reload(ctx)
}

// update replaces a task's fields on the server and reconciles. It is
// unexported: the only way to submit an update is through an Editor save,
// which guarantees an edit session was open for exactly this task.
func (m *Manager) update(ctx context.Context, id model.ID, title, description string, completed bool) error {
	if err := validateTitle(title); err != nil {
		m.fail(err)
		return err
	}
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish()

	if _, err := m.api.Update(ctx, id, title, description, completed); err != nil {
		m.fail(err)
		return err
	}
	m.log.Debugf("updated task %s", id)
	return m.reload(ctx)
}

// Delete removes a task on the server and reconciles. Confirmation is the
// caller's job; the manager deletes unconditionally.
func (m *Manager) Delete(ctx context.Context, id model.ID) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish()

	if err := m.api.Delete(ctx, id); err != nil {
		m.fail(err)
		return err
	}
	m.log.Debugf("deleted task %s", id)
	return m.reload(ctx)
}

// reload replaces the local collection with the server's. Callers hold the
// busy flag; a reload is always part of an operation, never one of its own.
func (m *Manager) reload(ctx context.Context) error {
	tasks, err := m.api.List(ctx)
	if err != nil {
		m.fail(err)
		return err
	}
	m.mu.Lock()
	m.tasks = tasks
	m.message = ""
	m.mu.Unlock()
	return nil
}

func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	m.busy = true
	return nil
}

func (m *Manager) finish() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

// fail records a user-visible message for the error. Auth failures carry no
// message; the session transition reports them.
func (m *Manager) fail(err error) {
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNoCredential) {
		return
	}
	m.mu.Lock()
	m.message = userMessage(err)
	m.mu.Unlock()
}

func userMessage(err error) string {
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Msg
	}
	var server *api.ServerError
	if errors.As(err, &server) {
		return server.Message
	}
	var transport *api.TransportError
	if errors.As(err, &transport) {
		return "cannot reach the server, check your connection"
	}
	return err.Error()
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Msg: "title must not be empty"}
	}
	return nil
}

// Tasks returns a copy of the local collection in server order.
func (m *Manager) Tasks() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Task(nil), m.tasks...)
}

// Get returns the task with the given id from the local collection.
func (m *Manager) Get(id model.ID) (model.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// ByNumber returns the task at the 1-based display position.
func (m *Manager) ByNumber(num int) (model.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if num < 1 || num > len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[num-1], true
}

// Counts reports how many tasks are pending and completed.
func (m *Manager) Counts() (pending, completed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

// Busy reports whether an operation is in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Message returns the current user-visible message, or "" after a success.
func (m *Manager) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}
