package domain

import (
	"errors"
)

var (
	MessageSuccessAddCategory = "category added"
	MessageSuccessSyncDirs    = "directories in sync"

	ErrCategoryNotFound   = errors.New("category not found in meta, add it first")
	ErrStubAlreadyExists  = errors.New("stub file already exists, use overwrite to replace")
	ErrEmptyCategoryLevel = errors.New("category level must not be empty")
)

type (
	CategoryTree struct {
		Region string              `json:"region"`
		Cats   map[string][]string `json:"cats"` // cat1 -> sorted cat2 list
	}

	GenerateStubRequest struct {
		Region      string `validate:"required"`
		Cat1        string `validate:"required"`
		Cat2        string `validate:"required"`
		SampleID    string `validate:"required,sample_id"`
		Name        string `validate:"required"`
		Description string
		Overwrite   bool
	}
)
