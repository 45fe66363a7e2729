package model

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict covers unique-index violations, overlaps found inside a
	// commit transaction and lost status updates.
	ErrConflict = errors.New("record conflicts with existing data")
)
