package models

import "time"

type TurnJobStatus string

const (
	TurnQueued    TurnJobStatus = "queued"
	TurnRunning   TurnJobStatus = "running"
	TurnSucceeded TurnJobStatus = "succeeded"
	TurnFailed    TurnJobStatus = "failed"
)

// TurnJob is one inbound webhook event queued for the worker.
type TurnJob struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	InstanceName string `gorm:"size:64;index;not null"`
	RemoteJID    string `gorm:"size:64;not null"`
	FromMe       bool   `gorm:"not null"`

	Body string `gorm:"type:text;not null"`

	Status TurnJobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TurnJob) TableName() string { return "turn_jobs" }
