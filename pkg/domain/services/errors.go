package services

import "errors"

var (
	// ErrMaterialNotFound is returned when a material id is not on the project
	ErrMaterialNotFound = errors.New("material not found")
	// ErrUnknownProcess is returned when a production status is not in the palette
	ErrUnknownProcess = errors.New("unknown production process")
	// ErrNoEligibleRecords is returned when a filter leaves nothing to act on
	ErrNoEligibleRecords = errors.New("no eligible records")
)
