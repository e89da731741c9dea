package tasks

import "errors"

// ErrBusy reports that an operation was rejected because another one is
// still in flight. Rejected operations are not queued.
var ErrBusy = errors.New("another operation is in progress")

// ErrNoEdit reports a save with no open edit session.
var ErrNoEdit = errors.New("no edit in progress")

// ValidationError reports input rejected before any request was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
