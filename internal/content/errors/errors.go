package errors

// Package errors provides sentinel errors for content discovery operations.
// These enable consistent classification of scan failures across the pipeline.

import "errors"

var (
	// ErrContentDirNotFound indicates the configured content directory does not exist.
	ErrContentDirNotFound = errors.New("content directory not found")

	// ErrContentWalkFailed indicates filesystem traversal of the content directory failed.
	ErrContentWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrInvalidRelativePath indicates calculating a path relative to the content dir failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")

	// ErrNoDocumentsFound indicates the content directory contained no documents.
	ErrNoDocumentsFound = errors.New("no documents found")
)
