package tasks

import (
	"context"
	"sync"

	"taskdeck/internal/model"
)

// Draft holds the editable fields of the task being edited.
type Draft struct {
	Title       string
	Description string
	Completed   bool
}

// Editor is the single-slot edit session. At most one task is being edited
// at a time; starting a new edit silently discards the previous draft. The
// manager's update is unexported, so every update the server ever sees went
// through a Save here.
type Editor struct {
	mgr *Manager

	mu    sync.Mutex
	open  bool
	id    model.ID
	draft Draft
}

// NewEditor creates an Editor over mgr.
func NewEditor(mgr *Manager) *Editor {
	return &Editor{mgr: mgr}
}

// Start opens an edit session for the task with id, seeding the draft from
// the local collection.
func (e *Editor) Start(id model.ID) error {
	task, ok := e.mgr.Get(id)
	if !ok {
		return &ValidationError{Msg: "task not found: " + string(id)}
	}
	e.mu.Lock()
	e.open = true
	e.id = task.ID
	e.draft = Draft{
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	}
	e.mu.Unlock()
	return nil
}

// Editing returns the task and draft under edit, if any.
func (e *Editor) Editing() (model.ID, Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id, e.draft, e.open
}

// SetDraft replaces the draft while an edit session is open.
func (e *Editor) SetDraft(d Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open {
		e.draft = d
	}
}

// Cancel discards the draft without touching the server.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
	e.id = ""
	e.draft = Draft{}
}

// Save submits the draft through the manager and, on success, closes the
// session. Saving with no open session fails with ErrNoEdit.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNoEdit
	}
	id, draft := e.id, e.draft
	e.mu.Unlock()

	if err := e.mgr.update(ctx, id, draft.Title, draft.Description, draft.Completed); err != nil {
		return err
	}

	e.mu.Lock()
	// close only if the session still belongs to the task that was saved
	if e.open && e.id == id {
		e.open = false
		e.id = ""
		e.draft = Draft{}
	}
	e.mu.Unlock()
	return nil
}
