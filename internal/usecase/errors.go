package usecase

import (
	"errors"
	"fmt"

	"course-booking/pkg/utils"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientSpaces = errors.New("insufficient spaces")
	ErrNotFound           = errors.New("not found")
	ErrStore              = errors.New("store failure")
)

var (
	ErrInvalidName     = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidPhone    = fmt.Errorf("%w: invalid phone", ErrValidation)
	ErrInvalidItems    = fmt.Errorf("%w: invalid items", ErrValidation)
	ErrInvalidLessonID = fmt.Errorf("%w: invalid lesson id", ErrValidation)
	ErrNoUpdates       = fmt.Errorf("%w: no updates provided", ErrValidation)
	ErrInvalidField    = fmt.Errorf("%w: invalid field", ErrValidation)
	ErrNoSeedData      = fmt.Errorf("%w: no data provided", ErrValidation)

	ErrLessonNotFound = fmt.Errorf("lesson %w", ErrNotFound)
)

// InsufficientSpacesError names the lesson whose reservation was rejected,
// either because it has fewer spaces than requested or because it does not exist.
type InsufficientSpacesError struct {
	LessonID int64
}

func (e *InsufficientSpacesError) Error() string {
	return fmt.Sprintf("Not enough spaces for lesson id %d", e.LessonID)
}

func (e *InsufficientSpacesError) Is(target error) bool {
	return target == ErrInsufficientSpaces
}

// storeError wraps a driver error so callers can match ErrStore and still
// unwrap to the cause.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStore, err))
}

// ValidationError carries per-field messages next to the kind of validation
// failure (ErrInvalidName, ErrInvalidItems, ...).
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Kind, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
