package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/model"
)

// resolveTask loads the collection and resolves a 1-based task number in the
// printed list order. On failure the error has already been written to errOut
// and the returned exit code is final.
func resolveTask(ctx context.Context, rt *Runtime, args []string, errOut io.Writer) (model.Task, int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return model.Task{}, exitcode.UserError, false
	}

	num, err := strconv.Atoi(args[0])
	if err != nil || num <= 0 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return model.Task{}, exitcode.UserError, false
	}

	if err := rt.Manager.Load(ctx); err != nil {
		return model.Task{}, fail(errOut, err), false
	}

	task, ok := rt.Manager.ByNumber(num)
	if !ok {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return model.Task{}, exitcode.UserError, false
	}

	return task, exitcode.Success, true
}
