package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
)

// getPathUUID extracts a UUID from the URL path parameters. A value that is
// not a UUID reports domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// listOptions parses the list query parameters and checks the projection.
func listOptions(r *http.Request) (query.Options, error) {
	opts, err := query.ParseOptions(r.URL.Query())
	if err != nil {
		return query.Options{}, err
	}
	if err := opts.Select.Validate(); err != nil {
		return query.Options{}, err
	}
	return opts, nil
}

// selectParam parses and checks the select parameter of a by-id read.
func selectParam(r *http.Request) (query.Projection, error) {
	projection, err := query.ParseSelect(r.URL.Query().Get("select"))
	if err != nil {
		return nil, err
	}
	if err := projection.Validate(); err != nil {
		return nil, err
	}
	return projection, nil
}

// decodeAndValidate reads the JSON body into req and runs its validation tags.
func decodeAndValidate(r *http.Request, req any) error {
	if err := shared.DecodeJSON(r, req); err != nil {
		return err
	}
	return shared.ValidateRequest(req)
}
