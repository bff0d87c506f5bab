package repository

import "errors"

var (
	// ErrStateNotFound is returned when a store page has never been scanned.
	ErrStateNotFound = errors.New("state not found")
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRow is returned when stored data does not match the expected shape.
	ErrInvalidRow = errors.New("invalid row")
)
