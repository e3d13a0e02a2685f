package agent

import (
	"fmt"
	"time"
)

const (
	// DefaultInterTaskDelay separates two tasks of the same account
	DefaultInterTaskDelay = 60 * time.Second
	// DefaultInterAccountDelay separates two accounts in a full pass
	DefaultInterAccountDelay = 2 * time.Minute
	// DefaultSingleTaskAccountDelay separates two accounts when one task runs alone
	DefaultSingleTaskAccountDelay = 30 * time.Second
	// DefaultLoopInterval is the sleep between two passes in loop mode
	DefaultLoopInterval = 24*time.Hour + 5*time.Minute

	// MinLoopInterval keeps loop mode from hammering the campaign
	MinLoopInterval = time.Minute
)

// SchedulerConfig holds the timing of pipelines and campaign passes.
type SchedulerConfig struct {
	InterTaskDelay         time.Duration
	InterAccountDelay      time.Duration
	SingleTaskAccountDelay time.Duration
	LoopInterval           time.Duration
}

// NewDefaultSchedulerConfig creates a SchedulerConfig with default values
func NewDefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		InterTaskDelay:         DefaultInterTaskDelay,
		InterAccountDelay:      DefaultInterAccountDelay,
		SingleTaskAccountDelay: DefaultSingleTaskAccountDelay,
		LoopInterval:           DefaultLoopInterval,
	}
}

// Validate checks that every delay is usable.
func (c *SchedulerConfig) Validate() error {
	if c.InterTaskDelay < 0 || c.InterAccountDelay < 0 || c.SingleTaskAccountDelay < 0 {
		return fmt.Errorf("scheduler delays must not be negative")
	}
	if c.LoopInterval < MinLoopInterval {
		return fmt.Errorf("loop interval must be at least %v, got %v", MinLoopInterval, c.LoopInterval)
	}
	return nil
}
