package adaptor

import (
	"errors"
	"net/http"

	"course-booking/internal/usecase"
	"course-booking/pkg/utils"

	"go.uber.org/zap"
)

// client-facing messages per validation kind, first match wins
var validationMessages = []struct {
	err error
	msg string
}{
	{usecase.ErrInvalidName, "Invalid name"},
	{usecase.ErrInvalidPhone, "Invalid phone"},
	{usecase.ErrInvalidItems, "Invalid item in order"},
	{usecase.ErrInvalidLessonID, "Invalid id"},
	{usecase.ErrNoUpdates, "No updates provided"},
	{usecase.ErrNoSeedData, "No data provided"},
	{usecase.ErrInvalidField, "Invalid field"},
}

func validationMessage(err error) string {
	for _, m := range validationMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Validation failed"
}

// handleServiceError maps usecase errors to a status code. Store failures are
// logged with their cause and answered with a generic message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		insufficient *usecase.InsufficientSpacesError
		invalid      *usecase.ValidationError
	)

	switch {
	case errors.As(err, &insufficient):
		log.Info(operation+" rejected - not enough spaces",
			zap.Int64("lesson_id", insufficient.LessonID),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, insufficient.Error(), nil)

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		if errors.As(err, &invalid) && len(invalid.Fields) > 0 {
			utils.ResponseBadRequest(w, validationMessage(err), invalid.Fields)
			return
		}
		utils.ResponseBadRequest(w, validationMessage(err), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, "Lesson not found")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
