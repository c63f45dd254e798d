package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashcoder237/oapet-schedule-api/pkg/jobs"
)

// ConflictCallback receives the full conflict id set after a change.
type ConflictCallback func(ids []string)

// NotifierConfig tunes deferred dispatch.
type NotifierConfig struct {
	Workers    int
	BufferSize int
}

// ConflictNotifier informs the host exactly once per actual change of
// the conflict set. Two halves carry the invariant:
//
//  1. Compare: the previous result is kept as a sorted comma-joined
//     serialization, and a recompute that yields the same string is
//     dropped without notifying.
//  2. Defer: the callback is dispatched through a worker queue, never
//     in the frame that recomputed the set, so a callback that feeds
//     state back into the editor cannot re-enter the same update.
//
// Omit either half and you get infinite notify loops or duplicate
// notifications back.
type ConflictNotifier struct {
	mu       sync.Mutex
	last     string
	callback ConflictCallback
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewConflictNotifier wires the notifier around a host callback.
func NewConflictNotifier(callback ConflictCallback, logger *zap.Logger, cfg NotifierConfig) *ConflictNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &ConflictNotifier{callback: callback, logger: logger}
	n.queue = jobs.NewQueue("conflict-notify", n.dispatch, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return n
}

// Start begins deferred dispatch.
func (n *ConflictNotifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the dispatcher.
func (n *ConflictNotifier) Stop() {
	n.queue.Stop()
}

// Publish hands the notifier a freshly recomputed conflict set. The
// ids must already be sorted (see ConflictIDs). Returns true when the
// set actually changed and a notification was scheduled.
func (n *ConflictNotifier) Publish(ids []string) bool {
	serialized := strings.Join(ids, ",")

	n.mu.Lock()
	if serialized == n.last {
		n.mu.Unlock()
		return false
	}
	n.last = serialized
	n.mu.Unlock()

	if n.callback == nil {
		return true
	}
	err := n.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "conflicts_changed",
		Payload: append([]string(nil), ids...),
	})
	if err != nil {
		n.logger.Sugar().Warnw("conflict notification dropped", "error", err)
	}
	return true
}

// LastSerialized exposes the last notified serialization for
// diagnostics.
func (n *ConflictNotifier) LastSerialized() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *ConflictNotifier) dispatch(_ context.Context, job jobs.Job) error {
	ids, ok := job.Payload.([]string)
	if !ok {
		return nil
	}
	n.callback(ids)
	return nil
}
