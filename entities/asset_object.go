package entities

import (
	"github.com/google/uuid"
)

// AssetObject is one mirrored image view of a record.
type AssetObject struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SampleID  string    `gorm:"index" json:"sample_id"`
	View      string    `json:"view"` // "front", "back", "side"
	SHA256    string    `json:"sha256"`
	SizeBytes int64     `json:"size_bytes"`
	ObjectKey string    `json:"object_key"`

	Timestamp
}
