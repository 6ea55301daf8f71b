package services

import (
	"errors"

	domain "github.com/vsinha/metalerp/pkg/domain/services"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrProjectNotFound       = errors.New("project not found")
	ErrConfirmationRequired  = errors.New("confirmation required")
	ErrInvalidBackup         = errors.New("invalid backup file: missing version")
	ErrProcessExists         = errors.New("production process already exists")
	ErrProcessNotFound       = errors.New("production process not found")
	ErrJobNotFound           = errors.New("active job not found")
	ErrRecordNotFound        = errors.New("job record not found")
	ErrRosterEmpty           = errors.New("employees and machines must be registered first")
	ErrInvalidPurchaseStatus = errors.New("invalid purchase status")

	// Domain errors re-exported for callers of this package
	ErrMaterialNotFound  = domain.ErrMaterialNotFound
	ErrUnknownProcess    = domain.ErrUnknownProcess
	ErrNoEligibleRecords = domain.ErrNoEligibleRecords
)
