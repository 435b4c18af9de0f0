package backup

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/logging"
)

// ErrBusy is returned when a backup or restore is already running.
var ErrBusy = errors.New("another backup task is already running")

// Runner serializes backup and restore work: at most one task runs at a
// time, and a task submitted while another is in flight is rejected with
// ErrBusy rather than queued. There is no cancellation of a started task;
// callers that lose interest discard the result.
type Runner struct {
	log  logging.Logger
	slot chan struct{}
}

func NewRunner(log logging.Logger) *Runner {
	return &Runner{
		log:  log.With("component", "backup_runner"),
		slot: make(chan struct{}, 1),
	}
}

// Do runs fn synchronously if the runner is free.
func (r *Runner) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	select {
	case r.slot <- struct{}{}:
	default:
		r.log.Warn(ctx, "task rejected", "task", name)
		return ErrBusy
	}
	defer func() { <-r.slot }()

	r.log.Info(ctx, "task started", "task", name)
	err := fn(ctx)
	if err != nil {
		r.log.Error(ctx, "task failed", "task", name, "error", err)
		return err
	}
	r.log.Info(ctx, "task finished", "task", name)
	return nil
}
