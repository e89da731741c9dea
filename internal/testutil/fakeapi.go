// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskdeck/internal/model"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("not found")

// FakeAPI is an in-memory stand-in for the task service. Error injection
// fields make any operation fail with the given error; call counters record
// what actually reached the "server".
type FakeAPI struct {
	mu     sync.RWMutex
	nextID int
	tasks  []model.Task

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewFakeAPI creates an empty FakeAPI.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{nextID: 1}
}

// AddTask seeds a task without counting as API traffic and returns its id.
func (f *FakeAPI) AddTask(title, description string, completed bool) model.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := model.ID(fmt.Sprintf("t%d", f.nextID))
	f.nextID++
	f.tasks = append(f.tasks, model.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
	})
	return id
}

// TaskCount reports how many tasks the fake currently stores.
func (f *FakeAPI) TaskCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// List implements the task API.
func (f *FakeAPI) List(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]model.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// Create implements the task API.
func (f *FakeAPI) Create(ctx context.Context, title, description string, completed bool) (model.Task, error) {
	f.mu.Lock()
	f.CreateCalls++
	f.mu.Unlock()
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	id := f.AddTask(title, description, completed)
	task, _ := f.get(id)
	return task, nil
}

// Update implements the task API.
func (f *FakeAPI) Update(ctx context.Context, id model.ID, title, description string, completed bool) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return model.Task{}, f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Title = title
			f.tasks[i].Description = description
			f.tasks[i].Completed = completed
			return f.tasks[i], nil
		}
	}
	return model.Task{}, ErrNotFound
}

// Delete implements the task API.
func (f *FakeAPI) Delete(ctx context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *FakeAPI) get(id model.ID) (model.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
