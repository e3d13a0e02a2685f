// Package pausetest provides a pause.Waiter that records waits without blocking.
package pausetest

import (
	"context"
	"sync"
	"time"
)

// Wait is one recorded suspension.
type Wait struct {
	Duration  time.Duration
	Label     string
	Countdown bool
}

// Recorder implements pause.Waiter and returns immediately.
type Recorder struct {
	mu    sync.Mutex
	waits []Wait

	// OnWait, when set, is invoked for every recorded wait.
	OnWait func(Wait)
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.record(Wait{Duration: d})
	return ctx.Err()
}

func (r *Recorder) Countdown(ctx context.Context, d time.Duration, label string) error {
	r.record(Wait{Duration: d, Label: label, Countdown: true})
	return ctx.Err()
}

// Waits returns a copy of every recorded wait in order.
func (r *Recorder) Waits() []Wait {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Wait(nil), r.waits...)
}

// Durations returns the recorded durations in order.
func (r *Recorder) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.waits))
	for i, w := range r.waits {
		out[i] = w.Duration
	}
	return out
}

// Total is the sum of all recorded durations.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Durations() {
		total += d
	}
	return total
}

func (r *Recorder) record(w Wait) {
	r.mu.Lock()
	r.waits = append(r.waits, w)
	hook := r.OnWait
	r.mu.Unlock()
	if hook != nil {
		hook(w)
	}
}
