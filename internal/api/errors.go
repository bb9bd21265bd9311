package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Anything unrecognised is a 500.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors, including ids that cannot name a document
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErrs),
		errors.Is(err, query.ErrMalformedQueryParameter),
		errors.Is(err, query.ErrInvalidQuery),
		errors.Is(err, shared.ErrInvalidRequestBody),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the envelope message for err. entity names
// the resource addressed by the request ("Task" or "User") and is used when
// the error does not say which document was missing.
//
// Messages for 400s echo only text this service generated; 500s never
// carry the underlying error.
func GetSafeErrorMessage(err error, entity string) string {
	if err == nil {
		return "500 Internal Server Error"
	}

	var validationErrs validator.ValidationErrors
	var fieldErr *domain.ValidationError

	switch {
	case errors.Is(err, service.ErrPreviousUserNotFound):
		return "404 Previous User Not Found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "404 Task Not Found"
	case errors.Is(err, store.ErrUserNotFound):
		return "404 User Not Found"
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return fmt.Sprintf("404 %s Not Found", entity)

	case errors.As(err, &validationErrs):
		return "400 " + SanitizeValidationError(validationErrs)
	case errors.As(err, &fieldErr):
		return "400 " + fieldErr.Error()
	case errors.Is(err, domain.ErrValidation):
		return "400 Validation error"
	case errors.Is(err, query.ErrMalformedQueryParameter),
		errors.Is(err, query.ErrInvalidQuery):
		return "400 " + capitalize(err.Error())
	case errors.Is(err, shared.ErrInvalidRequestBody):
		return "400 Invalid request body"
	case errors.Is(err, store.ErrEmailExists):
		return "400 Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "400 Duplicate entity"
	case errors.Is(err, store.ErrInvalidEntity):
		return "400 Invalid entity data"

	default:
		return "500 Internal Server Error"
	}
}

// SanitizeValidationError turns request-struct validation failures into a
// short message naming the first failing field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "uuid":
		return "must be a valid id"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error envelope for err and logs the details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, entity string) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err, entity), err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
