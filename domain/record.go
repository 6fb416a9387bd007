package domain

import (
	"errors"
)

var (
	MessageSuccessCheck = "engine check complete"
	MessageFailedCheck  = "engine check failed"

	ErrRecordNotFound  = errors.New("record not found in working store")
	ErrMalformedRecord = errors.New("record file is not valid YAML")
)

// Forms a record may declare. Anything else fails the enum constraint.
var Forms = []string{"capsule", "tablet", "powder", "liquid", "softgel", "gummy"}

const (
	ViolationMissingRequired    = "missing_required"
	ViolationEmptyRequired      = "empty_required"
	ViolationProhibitedField    = "prohibited_field"
	ViolationInvalidEnum        = "invalid_enum"
	ViolationMalformedTimestamp = "malformed_timestamp"
	ViolationMalformedID        = "malformed_id"
	ViolationInvalidValue       = "invalid_value"
	ViolationMalformedFile      = "malformed_file"
)

type (
	// Record is one product entry as parsed from its YAML file.
	Record struct {
		SampleID          string   `yaml:"sample_id" validate:"required,sample_id"`
		Name              string   `yaml:"name" validate:"required"`
		Brand             string   `yaml:"brand" validate:"required"`
		Region            string   `yaml:"region" validate:"required"`
		Form              string   `yaml:"form" validate:"required"`
		ServingSize       string   `yaml:"serving_size" validate:"required"`
		ActiveIngredients []string `yaml:"active_ingredients" validate:"required,min=1,dive,required"`
		ObservedAt        string   `yaml:"observed_at" validate:"required,iso8601"`
		Sources           []string `yaml:"sources" validate:"required,min=1,dive,required"`

		OtherIngredients []string `yaml:"other_ingredients,omitempty" validate:"omitempty,dive,required"`
		LabelText        string   `yaml:"label_text,omitempty"`
		BatchNo          string   `yaml:"batch_no,omitempty"`
		ManufacturedAt   string   `yaml:"manufactured_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
		ExpiresAt        string   `yaml:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	}

	// Violation is one failed constraint found during validation. A check
	// collects every violation of a record, not just the first.
	Violation struct {
		Field  string `json:"field"`
		Kind   string `json:"kind"`
		Detail string `json:"detail"`
	}

	CheckReport struct {
		SampleID   string      `json:"sample_id"`
		Path       string      `json:"path"`
		Valid      bool        `json:"valid"`
		Violations []Violation `json:"violations,omitempty"`
	}

	CheckSummary struct {
		Region  string        `json:"region"`
		Checked int           `json:"checked"`
		Passed  int           `json:"passed"`
		Failed  int           `json:"failed"`
		Reports []CheckReport `json:"reports"`
	}
)
