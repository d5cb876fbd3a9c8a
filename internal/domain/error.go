package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyInput      = errors.New("neither transcript nor video url supplied")
	ErrJobFailed       = errors.New("generation job reported a failure status")
	ErrNoOutput        = errors.New("no text content in completion output")
	ErrTranscription   = errors.New("video transcription failed")
)
