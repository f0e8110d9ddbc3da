package models

import (
	"errors"
)

// Sentinel errors shared by the service and API layers; match with errors.Is
var (
	ErrNotFound    = errors.New("article not found")
	ErrNoFile      = errors.New("no PDF file uploaded")
	ErrInvalidType = errors.New("only PDF files are allowed")
	ErrTooLarge    = errors.New("file too large")
)

// ValidationError indicates invalid request metadata. Fields maps field
// names to messages and is returned to clients as details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
