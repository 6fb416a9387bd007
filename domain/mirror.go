package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	MessageSuccessPublish = "record published to mirror"
	MessageSkippedPublish = "record unchanged, publish skipped"
	MessageFailedPublish  = "failed to publish record"

	ErrMissingAssetView    = errors.New("record is missing a canonical image view")
	ErrRecordNotValid      = errors.New("record failed validation and is not publishable")
	ErrAssetDomainMismatch = errors.New("asset URI does not point at the configured assets domain")
	ErrUploadFailed        = errors.New("upload to object store failed")
)

// Canonical image views every record must carry.
var AssetViews = []string{"front", "back", "side"}

const (
	PublishStatusPublished   = "published"
	PublishStatusSkipped     = "skipped"
	PublishStatusFailed      = "failed"
	PublishStatusUnpublished = "unpublished"
)

type (
	PublishResult struct {
		SampleID string      `json:"sample_id"`
		Status   string      `json:"status"`
		Reason   string      `json:"reason,omitempty"`
		Reports  []Violation `json:"violations,omitempty"`
	}

	PublishSummary struct {
		RunID     uuid.UUID       `json:"run_id"`
		Region    string          `json:"region"`
		Published int             `json:"published"`
		Skipped   int             `json:"skipped"`
		Failed    int             `json:"failed"`
		Results   []PublishResult `json:"results"`
	}

	// ManifestAsset ties one mirrored view to its content hash and its
	// canonical URI on the asset domain.
	ManifestAsset struct {
		Role   string `json:"role"`
		SHA256 string `json:"hash_sha256"`
		URI    string `json:"uri"`
	}

	ManifestLicense struct {
		Data   string            `json:"data"`
		Assets map[string]string `json:"assets"`
	}

	// Manifest is the canonical document mirrored next to each record. It is
	// what downstream consumers read to verify asset integrity.
	Manifest struct {
		RecordID    string            `json:"record_id"`
		Timestamp   string            `json:"timestamp"`
		ContentHash string            `json:"content_hash"`
		Assets      []ManifestAsset   `json:"assets"`
		License     ManifestLicense   `json:"license"`
		RightsOwner string            `json:"rights_owner"`
		Authority   map[string]string `json:"authority"`
	}
)

// DefaultLicense is the license block stamped on every mirrored manifest:
// the data itself is public domain, the photographs are not.
func DefaultLicense() ManifestLicense {
	return ManifestLicense{
		Data: "CC0-1.0",
		Assets: map[string]string{
			"type":       "Restricted",
			"usage":      "Editorial / AI Training Reference",
			"commercial": "License Required",
		},
	}
}
