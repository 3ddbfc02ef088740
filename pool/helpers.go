package pool

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	ErrAlreadyInitialized = errors.New("pool already initialized")
	ErrNotInitialized     = errors.New("pool not initialized")
	ErrTerminated         = errors.New("pool terminated")
	ErrBatchInProgress    = errors.New("batch in progress")
	ErrNoBatch            = errors.New("no batch open: call BeginTasks first")
	ErrNilTask            = errors.New("nil task")
	ErrTaskPanicked       = errors.New("task panicked")
	ErrHookPanicked       = errors.New("task hook panicked")
)

// runWithRecovery runs a task and converts a panic into an error carrying
// the task's batch index and a stack trace.
func runWithRecovery(t Task, index int) error {
	return callWithRecovery(ErrTaskPanicked, index, t.Run)
}

// runHook calls a user hook for the task at index. A panicking hook is
// reported as ErrHookPanicked instead of unwinding the worker.
func runHook(index int, fn func()) error {
	return callWithRecovery(ErrHookPanicked, index, fn)
}

func callWithRecovery(kind error, index int, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: task %d: %v\nstack trace:\n%s", kind, index, r, buf[:n])
		}
	}()

	fn()
	return nil
}

// checkUsable reports why a pool in state s cannot accept new work.
func checkUsable(s State) error {
	switch s {
	case StateUninitialized:
		return ErrNotInitialized
	case StateTerminated:
		return ErrTerminated
	}
	return nil
}
