package query

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQueryParameter is returned when a query parameter is not
	// valid structured data.
	ErrMalformedQueryParameter = errors.New("malformed query parameter")

	// ErrInvalidQuery is returned when a well-formed descriptor references an
	// unknown field, an unsupported operator, or a value of the wrong type.
	ErrInvalidQuery = errors.New("invalid query")
)

func malformed(param string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: invalid JSON format for %q parameter", ErrMalformedQueryParameter, param)
	}
	return fmt.Errorf("%w: invalid JSON format for %q parameter: %v", ErrMalformedQueryParameter, param, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
