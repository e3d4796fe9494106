package model

import "errors"

var (
	// ErrStoreNotReady is returned by store operations before Initialize
	ErrStoreNotReady = errors.New("vector store not initialized")

	// ErrFragmentNotFound is returned when a fragment ID has no entry
	ErrFragmentNotFound = errors.New("fragment not found")
)
