// Package status tracks which quest tasks each account has completed today.
package status

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Task names a daily quest tracked by the Store.
type Task string

const (
	TaskFaucet      Task = "faucet"
	TaskQuestFaucet Task = "quest_faucet"
	TaskDailyXP     Task = "daily_xp"
	TaskQuestTweet  Task = "quest_tweet"
	TaskBridge      Task = "bridge"
)

// Tasks lists the tracked tasks in pipeline order.
var Tasks = []Task{TaskFaucet, TaskQuestFaucet, TaskDailyXP, TaskQuestTweet, TaskBridge}

// DefaultTimeZone is the zone whose calendar date defines "today".
const DefaultTimeZone = "Asia/Jakarta"

const dateLayout = "2006-01-02"

// persistTimeout bounds a single Persister call made from MarkDone or Reset.
const persistTimeout = 5 * time.Second

// Persister mirrors completion flags outside the process so that a restart
// on the same day does not repeat finished tasks. Accounts are identified by
// the key set with WithAccountKeys, or by their decimal id without one.
type Persister interface {
	Load(ctx context.Context, date string) (map[string]map[Task]bool, error)
	Save(ctx context.Context, date, account string, task Task) error
	Clear(ctx context.Context, date string) error
}

// Store maps account ids to per-task completion flags for the current
// calendar day. The first call that observes a new date clears every
// account's flags before answering.
type Store struct {
	mu        sync.Mutex
	loc       *time.Location
	now       func() time.Time
	resetDate string
	done      map[int]map[Task]bool
	logger    *logrus.Logger
	persister Persister
	keys      map[int]string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger reports rollovers through logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPersister mirrors every MarkDone to p. Flags are read back only by
// Restore.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithAccountKeys names accounts for the persister by a stable key, such as
// the wallet address, instead of their position in the accounts file.
func WithAccountKeys(keys map[int]string) Option {
	return func(s *Store) {
		s.keys = make(map[int]string, len(keys))
		for id, key := range keys {
			s.keys[id] = key
		}
	}
}

// NewStore creates a store whose day boundary is computed in loc.
func NewStore(loc *time.Location, opts ...Option) *Store {
	if loc == nil {
		loc = time.UTC
	}
	s := &Store{
		loc:  loc,
		now:  time.Now,
		done: make(map[int]map[Task]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetDate = s.today()
	return s
}

// IsDone reports whether task was completed today for the account.
func (s *Store) IsDone(accountID int, task Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rolloverLocked()
	return s.done[accountID][task]
}

// MarkDone records task as completed today for the account. The persister,
// if any, is called after the lock is released.
func (s *Store) MarkDone(accountID int, task Task) {
	s.mu.Lock()
	s.rolloverLocked()
	flags, ok := s.done[accountID]
	if !ok {
		flags = make(map[Task]bool, len(Tasks))
		s.done[accountID] = flags
	}
	flags[task] = true
	date, key := s.resetDate, s.keyFor(accountID)
	s.mu.Unlock()

	if s.persister != nil {
		s.persist(func(ctx context.Context) error {
			return s.persister.Save(ctx, date, key, task)
		})
	}
}

// Reset clears every flag for every account and restamps the reset date.
func (s *Store) Reset() {
	s.mu.Lock()
	s.done = make(map[int]map[Task]bool)
	s.resetDate = s.today()
	date := s.resetDate
	s.mu.Unlock()

	if s.persister != nil {
		s.persist(func(ctx context.Context) error {
			return s.persister.Clear(ctx, date)
		})
	}
}

// Restore merges the persisted flags for today into the store. Without a
// persister it does nothing.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	s.mu.Lock()
	s.rolloverLocked()
	date := s.resetDate
	s.mu.Unlock()

	flags, err := s.persister.Load(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to restore task status for %s: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetDate != date {
		return nil
	}

	ids := make(map[string]int, len(s.keys))
	for id, key := range s.keys {
		ids[key] = id
	}

	restored, unknown := 0, 0
	for key, tasks := range flags {
		accountID, ok := ids[key]
		if !ok && len(s.keys) == 0 {
			accountID, err = strconv.Atoi(key)
			ok = err == nil
		}
		if !ok {
			unknown++
			continue
		}
		for task, done := range tasks {
			if !done {
				continue
			}
			if s.done[accountID] == nil {
				s.done[accountID] = make(map[Task]bool, len(Tasks))
			}
			s.done[accountID][task] = true
			restored++
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"date":             s.resetDate,
			"flags":            restored,
			"unknown_accounts": unknown,
		}).Info("Restored task status")
	}
	return nil
}

// CheckRollover applies the date check without reading any flag.
func (s *Store) CheckRollover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rolloverLocked()
}

// Snapshot returns all five flags for an account.
func (s *Store) Snapshot(accountID int) map[Task]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rolloverLocked()
	out := make(map[Task]bool, len(Tasks))
	for _, t := range Tasks {
		out[t] = s.done[accountID][t]
	}
	return out
}

// ResetDate is the calendar date the flags currently belong to.
func (s *Store) ResetDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetDate
}

// persist runs fn with its own deadline; failures are logged, never returned.
func (s *Store) persist(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := fn(ctx); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("Failed to persist task status")
	}
}

func (s *Store) keyFor(accountID int) string {
	if key, ok := s.keys[accountID]; ok {
		return key
	}
	return strconv.Itoa(accountID)
}

func (s *Store) today() string {
	return s.now().In(s.loc).Format(dateLayout)
}

func (s *Store) rolloverLocked() {
	today := s.today()
	if today == s.resetDate {
		return
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"previous_date": s.resetDate,
			"current_date":  today,
			"accounts":      len(s.done),
		}).Info("New day detected, clearing task status")
	}

	s.done = make(map[int]map[Task]bool)
	s.resetDate = today
}
