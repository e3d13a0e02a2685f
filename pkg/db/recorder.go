package db

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lisanmuaddib/quest-runner/pkg/agent"
	"github.com/lisanmuaddib/quest-runner/pkg/db/models"
)

// HistoryRecorder writes finished passes to the history tables.
type HistoryRecorder struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewHistoryRecorder creates a recorder over an open database.
func NewHistoryRecorder(db *gorm.DB, logger *logrus.Logger) *HistoryRecorder {
	return &HistoryRecorder{db: db, logger: logger}
}

// RecordPass stores report and its task results in one transaction.
func (r *HistoryRecorder) RecordPass(ctx context.Context, report *agent.PassReport) error {
	run := PassRunFromReport(report)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record pass %s: %w", run.ID, err)
	}

	r.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"tasks":  len(run.TaskRuns),
	}).Debug("Recorded pass history")
	return nil
}

// RecentPasses returns the latest passes, newest first.
func (r *HistoryRecorder) RecentPasses(ctx context.Context, limit int) ([]models.PassRun, error) {
	var runs []models.PassRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pass history: %w", err)
	}
	return runs, nil
}

// PassRunFromReport converts a pass report into its database rows.
func PassRunFromReport(report *agent.PassReport) models.PassRun {
	succeeded, failed, skipped := report.Counts()
	run := models.PassRun{
		ID:           report.RunID.String(),
		Mode:         report.Mode,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		AccountNames: make([]string, 0, len(report.Accounts)),
		Succeeded:    succeeded,
		Failed:       failed,
		Skipped:      skipped,
	}

	for _, account := range report.Accounts {
		run.AccountNames = append(run.AccountNames, account.Account.Name)
		for _, result := range account.Results {
			run.TaskRuns = append(run.TaskRuns, models.TaskRun{
				PassRunID:   run.ID,
				AccountID:   account.Account.ID,
				AccountName: account.Account.Name,
				Wallet:      account.Account.Wallet,
				Task:        string(result.Task),
				Outcome:     string(result.Outcome),
				Kind:        string(result.Kind),
				Message:     result.Message,
				Attempts:    result.Attempts,
				TweetID:     result.TweetID,
				TxHash:      result.TxHash,
				Payload:     string(result.Payload),
			})
		}
	}
	return run
}
