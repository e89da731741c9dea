// Package model defines the task data shared by every component of the client.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the displayed state of a task. It is derived from the Completed
// flag and never stored on its own, so the two cannot disagree.
type Status string

const (
	// StatusPending marks a task that still needs doing.
	StatusPending Status = "pending"

	// StatusCompleted marks a task that is done.
	StatusCompleted Status = "completed"
)

// ID is a server-assigned task identifier. The server emits ids as JSON
// strings or numbers depending on its storage; both decode to the string form.
type ID string

// UnmarshalJSON accepts both "42" and 42.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Task represents a single task as the server reports it.
type Task struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
}

// Status derives the displayed state from the completed flag.
func (t Task) Status() Status {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// ParseStatus maps a user-supplied status name onto the completed flag.
func ParseStatus(s string) (bool, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return false, nil
	case StatusCompleted:
		return true, nil
	}
	return false, fmt.Errorf("invalid status %q (valid: pending, completed)", s)
}
