package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrLoanNotFound       = fmt.Errorf("loan %w", ErrNotFound)
	ErrCovenantNotFound   = fmt.Errorf("covenant %w", ErrNotFound)
	ErrObligationNotFound = fmt.Errorf("obligation %w", ErrNotFound)
	ErrDocumentNotFound   = fmt.Errorf("document %w", ErrNotFound)

	ErrValidation      = errors.New("validation failed")
	ErrIDRequired      = fmt.Errorf("%w: id is required", ErrValidation)
	ErrReaderNil       = fmt.Errorf("%w: reader is nil", ErrValidation)
	ErrStorageDisabled = errors.New("object storage is not configured")
)
