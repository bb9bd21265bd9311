package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Filter is a parsed where descriptor: a JSON object of field conditions.
type Filter map[string]any

// SortField is one entry of a sort descriptor, kept in request order.
type SortField struct {
	Field     string
	Direction any
}

// Sort is a parsed sort descriptor.
type Sort []SortField

// Options holds every list parameter of a request.
type Options struct {
	Where  Filter
	Sort   Sort
	Select Projection
	Skip   int
	Limit  int
	Count  bool
}

// ParseWhere decodes the where parameter. Empty text yields an empty filter.
func ParseWhere(text string) (Filter, error) {
	obj, err := decodeObject("where", text)
	if err != nil {
		return nil, err
	}
	return Filter(obj), nil
}

// ParseSelect decodes the select parameter. Empty text yields an empty
// projection.
func ParseSelect(text string) (Projection, error) {
	obj, err := decodeObject("select", text)
	if err != nil {
		return nil, err
	}
	return Projection(obj), nil
}

// ParseSort decodes the sort parameter, keeping the key order of the JSON
// object. Empty text yields an empty sort.
func ParseSort(text string) (Sort, error) {
	if strings.TrimSpace(text) == "" {
		return Sort{}, nil
	}

	dec := newDecoder(text)
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("sort", err)
	}
	if tok == nil {
		return Sort{}, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("sort", errors.New("expected an object"))
	}

	sort := Sort{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, malformed("sort", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, malformed("sort", errors.New("expected a key"))
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, malformed("sort", err)
		}
		sort = append(sort, SortField{Field: key, Direction: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, malformed("sort", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, malformed("sort", err)
	}

	return sort, nil
}

// ParseSkip decodes the skip parameter as a non-negative integer.
func ParseSkip(text string) (int, error) {
	return parseNonNegative("skip", text)
}

// ParseLimit decodes the limit parameter as a non-negative integer.
// Zero means no limit.
func ParseLimit(text string) (int, error) {
	return parseNonNegative("limit", text)
}

// ParseCount reports whether the count parameter asks for a count.
func ParseCount(text string) bool {
	return text == "true"
}

// ParseOptions reads every list parameter from a URL query.
func ParseOptions(values url.Values) (Options, error) {
	var opts Options
	var err error

	if opts.Where, err = ParseWhere(values.Get("where")); err != nil {
		return Options{}, err
	}
	if opts.Sort, err = ParseSort(values.Get("sort")); err != nil {
		return Options{}, err
	}
	if opts.Select, err = ParseSelect(values.Get("select")); err != nil {
		return Options{}, err
	}
	if opts.Skip, err = ParseSkip(values.Get("skip")); err != nil {
		return Options{}, err
	}
	if opts.Limit, err = ParseLimit(values.Get("limit")); err != nil {
		return Options{}, err
	}
	opts.Count = ParseCount(values.Get("count"))

	return opts, nil
}

func newDecoder(text string) *json.Decoder {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	return dec
}

func decodeObject(param, text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}

	dec := newDecoder(text)
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, malformed(param, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, malformed(param, err)
	}

	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, malformed(param, errors.New("expected an object"))
	}
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func parseNonNegative(param, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q must be a non-negative integer", ErrMalformedQueryParameter, param)
	}
	return n, nil
}

// String renders the sort for logging.
func (s Sort) String() string {
	var buf bytes.Buffer
	for i, f := range s {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, "%s:%v", f.Field, f.Direction)
	}
	return buf.String()
}
