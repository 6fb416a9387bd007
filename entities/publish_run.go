package entities

import (
	"time"

	"github.com/google/uuid"
)

type PublishRun struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Region     string     `json:"region"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Published  int        `json:"published"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`

	Timestamp
}
