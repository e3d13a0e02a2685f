// Package pause provides the suspension points used between quest attempts,
// tasks, accounts and campaign passes.
package pause

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Waiter suspends the calling flow. Countdown has the same semantics as Sleep
// but renders the remaining time while waiting.
type Waiter interface {
	Sleep(ctx context.Context, d time.Duration) error
	Countdown(ctx context.Context, d time.Duration, label string) error
}

// Clock is the wall-clock Waiter.
type Clock struct {
	out  io.Writer
	tick time.Duration
}

// NewClock creates a Clock that renders countdowns to out. A nil writer
// makes countdowns silent.
func NewClock(out io.Writer) *Clock {
	return &Clock{
		out:  out,
		tick: time.Second,
	}
}

// Sleep blocks for d or until ctx is done.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Countdown blocks for d, rewriting a single progress line every tick.
func (c *Clock) Countdown(ctx context.Context, d time.Duration, label string) error {
	if d <= 0 {
		return nil
	}
	if c.out == nil {
		return c.Sleep(ctx, d)
	}

	deadline := time.Now().Add(d)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	labelColor := color.New(color.FgYellow)
	render := func(remaining time.Duration) {
		fmt.Fprintf(c.out, "\r%s %s ", labelColor.Sprintf("%s:", label), FormatClock(remaining))
	}
	clear := func() {
		fmt.Fprint(c.out, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	render(d)
	for {
		select {
		case <-ctx.Done():
			clear()
			return ctx.Err()
		case <-ticker.C:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				clear()
				return nil
			}
			render(remaining)
		}
	}
}

// FormatClock renders d as HH:MM:SS, rounding up to the next whole second.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
