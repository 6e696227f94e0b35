package dispatch

import (
	"log/slog"
)

// AsyncRunner decouples dispatch side effects from the transitions that
// cause them. Submit must return immediately and a panicking task must never
// reach the submitter.
type AsyncRunner interface {
	Submit(task func())
}

// GoRunner runs each task on its own goroutine with panic containment.
type GoRunner struct {
	logger *slog.Logger
}

// NewGoRunner creates a goroutine-per-task runner.
func NewGoRunner(logger *slog.Logger) GoRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return GoRunner{logger: logger}
}

// Submit runs the task asynchronously. Panics are logged and swallowed.
func (r GoRunner) Submit(task func()) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("async dispatch task panicked", "panic", rec)
			}
		}()
		task()
	}()
}

// SyncRunner runs tasks inline, still containing panics. Used in tests and
// anywhere deterministic ordering matters more than latency.
type SyncRunner struct {
	logger *slog.Logger
}

// NewSyncRunner creates an inline runner.
func NewSyncRunner(logger *slog.Logger) SyncRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return SyncRunner{logger: logger}
}

// Submit runs the task on the calling goroutine. Panics are logged and swallowed.
func (r SyncRunner) Submit(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("dispatch task panicked", "panic", rec)
		}
	}()
	task()
}
