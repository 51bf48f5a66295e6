package journal

import (
	"sync"
	"time"

	"github.com/confideai/confide-agent/internal/domain"
)

type taskState int

const (
	taskScheduled taskState = iota
	taskFired
	taskCancelled
)

// deferredTask is a cancellable one-shot timer with explicit state, so the
// undo/fire race is well defined: exactly one of fn or Cancel wins, and both
// cancelling twice and firing after cancel are no-ops.
type deferredTask struct {
	mu    sync.Mutex
	state taskState
	timer *time.Timer
}

func scheduleTask(d time.Duration, fn func()) *deferredTask {
	t := &deferredTask{}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.state != taskScheduled {
			t.mu.Unlock()
			return
		}
		t.state = taskFired
		t.mu.Unlock()
		fn()
	})
	return t
}

// Cancel stops the task. It reports true only the first time it wins the race
// against the timer; later calls, or a cancel that lost to the fire, return
// false.
func (t *deferredTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != taskScheduled {
		return false
	}
	t.state = taskCancelled
	t.timer.Stop()
	return true
}

// pendingDeletion is the single-slot holding area for the most recently
// soft-deleted entry. The entry has already been removed from the store; it
// survives here until the task fires or an undo restores it.
type pendingDeletion struct {
	entry *domain.JournalEntry
	task  *deferredTask
}
