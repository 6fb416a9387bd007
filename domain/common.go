package domain

import (
	"errors"
)

const (
	DefaultRegion = "cn"

	SchemaVersion = "1.0"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedLoadConfig     = "failed to load configuration"

	ErrRegionNotFound = errors.New("region not found in catalog")
)
