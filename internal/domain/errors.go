package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrImportFormat = errors.New("invalid backup file")
	ErrNotFound     = errors.New("not found")
)
