package domain

import (
	"errors"
)

var (
	ErrSchemaNotFound           = errors.New("schema.json not found for region")
	ErrMalformedSchema          = errors.New("schema.json is not valid JSON")
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")
)

// Schema is the versioned field-constraint definition a record must satisfy.
// Authored by maintainers, immutable at validation time.
type Schema struct {
	Version    string              `json:"version"`
	Region     string              `json:"region"`
	Required   []string            `json:"required"`
	Optional   []string            `json:"optional"`
	Prohibited []string            `json:"prohibited"`
	Enums      map[string][]string `json:"enums"`
	Timestamps []string            `json:"timestamp_fields"`
}
