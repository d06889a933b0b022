package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/bookshelf-api/internal/api/shared"
	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
	"github.com/phrazzld/bookshelf-api/internal/redact"
	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// ValidationMessage is the message of every ValidationError produced from
// schema violations.
const ValidationMessage = "Request doesn't match the schema"

// Classify maps any error onto exactly one error kind:
//  1. an *apperr.Error anywhere in the chain is returned as is;
//  2. validation.Errors become a ValidationError carrying them as details;
//  3. anything else becomes an InternalServerError.
func Classify(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var violations validation.Errors
	if errors.As(err, &violations) {
		return apperr.Validation(ValidationMessage, violations, err)
	}

	return apperr.Internal(err)
}

// HandleAPIError writes the canonical error response for err. It is the only
// place that serializes errors. Internal errors are logged with their
// redacted cause. Anticipated errors are not logged as failures.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := Classify(err)

	if appErr.Kind() == apperr.KindInternal {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())
		log.LogAttrs(r.Context(), slog.LevelError, "unhandled error",
			slog.String("error", redact.Error(appErr.Unwrap())),
			slog.String("error_type", fmt.Sprintf("%T", causeOf(appErr))),
			slog.String("trace_id", shared.GetTraceID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	shared.RespondWithJSON(w, r, appErr.StatusCode(), appErr.Response())
}

func causeOf(err *apperr.Error) error {
	if cause := err.Unwrap(); cause != nil {
		return cause
	}
	return err
}

// NotFoundHandler reports unknown routes as NotFoundError.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	HandleAPIError(w, r, routeNotFound(r))
}

// MethodNotAllowedHandler reports a known path with an unsupported method the
// same way as an unknown route.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	HandleAPIError(w, r, routeNotFound(r))
}

func routeNotFound(r *http.Request) error {
	return apperr.NotFound(fmt.Sprintf("Route %s:%s not found", r.Method, r.URL.Path))
}
