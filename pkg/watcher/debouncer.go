package watcher

import (
	"context"
	"time"

	"github.com/ritzau/dijkstra-trace/pkg/logging"
)

// Debouncer merges bursts of change events so a file that is saved several
// times in quick succession triggers a single reload.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer that emits once input has been quiet for
// quietPeriod, and at least every maxWait while events keep arriving.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 4),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events in the background.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending      ChangeEvent
		count        int
		quietTimer   *time.Timer
		maxWaitTimer *time.Timer
		quietC       <-chan time.Time
		maxWaitC     <-chan time.Time
	)

	stopTimers := func() {
		if quietTimer != nil {
			quietTimer.Stop()
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
		}
		quietTimer, maxWaitTimer = nil, nil
		quietC, maxWaitC = nil, nil
	}

	flush := func() bool {
		stopTimers()
		if count == 0 {
			return true
		}
		logging.Debug("Flushing accumulated changes", "count", count, "type", pending.Type.String())
		select {
		case d.output <- pending:
		case <-ctx.Done():
			return false
		}
		pending, count = ChangeEvent{}, 0
		return true
	}

	for {
		select {
		case <-ctx.Done():
			stopTimers()
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			pending.merge(event)
			count++

			if quietTimer != nil {
				quietTimer.Stop()
			}
			quietTimer = time.NewTimer(d.quietPeriod)
			quietC = quietTimer.C

			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
				maxWaitC = maxWaitTimer.C
			}

		case <-quietC:
			if !flush() {
				return
			}

		case <-maxWaitC:
			if !flush() {
				return
			}
		}
	}
}

// Output returns the channel of debounced events. It is closed when the
// input closes or the context is done.
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
