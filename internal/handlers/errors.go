package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/repositories"
	"support-desk-api/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusForError maps the repository error taxonomy to an HTTP status
func statusForError(err error) int {
	switch {
	case repositories.IsValidation(err):
		return http.StatusBadRequest
	case repositories.IsNotFound(err):
		return http.StatusNotFound
	case repositories.IsDuplicate(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorLabel names the error class in the response body
func errorLabel(err error) string {
	switch {
	case repositories.IsValidation(err):
		return "ValidationError"
	case repositories.IsNotFound(err):
		return "NotFoundError"
	case repositories.IsDuplicate(err):
		return "ConflictError"
	case repositories.IsConfiguration(err):
		return "ConfigurationError"
	case repositories.IsUpstream(err):
		return "UpstreamError"
	default:
		return "InternalError"
	}
}

// errorResponse converts a service error into a JSON response. Server-side
// failures are logged; errors outside the taxonomy get a generic message.
func errorResponse(logger *logrus.Logger, function string, err error) (*lambda.Response, error) {
	status := statusForError(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"function": function,
			"status":   status,
		}).WithError(err).Error("Request failed")

		var repoErr *repositories.RepositoryError
		if !errors.As(err, &repoErr) {
			message = "internal server error"
		}
	}

	return lambda.JSON(status, ErrorResponse{Error: errorLabel(err), Message: message})
}
