package entities

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is the working-store index row for one product record. The
// YAML file on disk stays the editable source of truth; this row tracks what
// the public mirror has seen of it.
type CatalogEntry struct {
	SampleID    string     `gorm:"primaryKey" json:"sample_id"`
	Region      string     `gorm:"index" json:"region"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Form        string     `json:"form"`
	ContentHash string     `json:"content_hash"`
	Status      string     `json:"status"` // "unpublished", "published", "failed"
	PublishedAt *time.Time `json:"published_at,omitempty"`
	RunID       *uuid.UUID `gorm:"type:uuid" json:"run_id,omitempty"`

	Assets []AssetObject `gorm:"foreignKey:SampleID;references:SampleID" json:"assets,omitempty"`
	Timestamp
}
