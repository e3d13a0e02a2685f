package models

import (
	"time"

	"github.com/lib/pq"
)

// PassRun is one campaign pass
type PassRun struct {
	ID           string         `gorm:"primaryKey;column:id;type:uuid"`
	Mode         string         `gorm:"column:mode;not null"`
	StartedAt    time.Time      `gorm:"column:started_at;not null"`
	FinishedAt   time.Time      `gorm:"column:finished_at;not null"`
	AccountNames pq.StringArray `gorm:"column:account_names;type:text[]"`
	Succeeded    int            `gorm:"column:succeeded;default:0"`
	Failed       int            `gorm:"column:failed;default:0"`
	Skipped      int            `gorm:"column:skipped;default:0"`

	TaskRuns []TaskRun `gorm:"foreignKey:PassRunID"`
}

// TableName specifies the table name for the PassRun model
func (PassRun) TableName() string {
	return "pass_runs"
}

// TaskRun is one executor result inside a pass
type TaskRun struct {
	ID          uint      `gorm:"primaryKey;column:id;autoIncrement"`
	PassRunID   string    `gorm:"column:pass_run_id;type:uuid;not null"`
	AccountID   int       `gorm:"column:account_id;not null"`
	AccountName string    `gorm:"column:account_name;not null"`
	Wallet      string    `gorm:"column:wallet;not null"`
	Task        string    `gorm:"column:task;not null"`
	Outcome     string    `gorm:"column:outcome;not null"`
	Kind        string    `gorm:"column:kind"`
	Message     string    `gorm:"column:message"`
	Attempts    int       `gorm:"column:attempts;default:0"`
	TweetID     string    `gorm:"column:tweet_id"`
	TxHash      string    `gorm:"column:tx_hash"`
	Payload     string    `gorm:"column:payload"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for the TaskRun model
func (TaskRun) TableName() string {
	return "task_runs"
}
