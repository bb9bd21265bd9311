package query

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Clause is a compiled filter and ordering. Where and OrderBy use ? as the
// placeholder; dialects rebind them as needed.
type Clause struct {
	Where   string
	Args    []any
	OrderBy string
}

var comparisonOps = map[string]string{
	"$eq":  "=",
	"$ne":  "<>",
	"$gt":  ">",
	"$gte": ">=",
	"$lt":  "<",
	"$lte": "<=",
}

// Compile converts a filter and sort into SQL fragments for schema.
//
// Every ordering ends with id ASC so paging over equal sort keys is stable.
// Values are always bound as parameters, never interpolated.
func Compile(schema Schema, where Filter, order Sort) (Clause, error) {
	whereSQL, args, err := compileFilter(schema, where)
	if err != nil {
		return Clause{}, err
	}

	orderSQL, err := compileSort(schema, order)
	if err != nil {
		return Clause{}, err
	}

	return Clause{Where: whereSQL, Args: args, OrderBy: orderSQL}, nil
}

func compileFilter(schema Schema, filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "1 = 1", nil, nil
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	var args []any
	for _, key := range keys {
		var (
			sql    string
			params []any
			err    error
		)
		switch key {
		case "$and", "$or":
			sql, params, err = compileLogical(schema, key, filter[key])
		default:
			if strings.HasPrefix(key, "$") {
				return "", nil, invalid("unsupported operator %s", key)
			}
			sql, params, err = compileField(schema, key, filter[key])
		}
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, params...)
	}

	if len(parts) == 1 {
		return parts[0], args, nil
	}
	return strings.Join(parts, " AND "), args, nil
}

func compileLogical(schema Schema, op string, value any) (string, []any, error) {
	items, ok := value.([]any)
	if !ok || len(items) == 0 {
		return "", nil, invalid("%s requires a non-empty array", op)
	}

	joiner := " AND "
	if op == "$or" {
		joiner = " OR "
	}

	var parts []string
	var args []any
	for _, item := range items {
		sub, ok := item.(map[string]any)
		if !ok {
			return "", nil, invalid("%s entries must be objects", op)
		}
		sql, params, err := compileFilter(schema, Filter(sub))
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, params...)
	}

	return "(" + strings.Join(parts, joiner) + ")", args, nil
}

func compileField(schema Schema, field string, cond any) (string, []any, error) {
	col, ok := schema.Lookup(field)
	if !ok {
		return "", nil, invalid("unknown field %q", field)
	}
	if col.Kind == KindList {
		return "", nil, invalid("field %q cannot be filtered", field)
	}

	ops, isOps := cond.(map[string]any)
	if !isOps {
		return compileOp(col, field, "$eq", cond)
	}
	if len(ops) == 0 {
		return "", nil, invalid("empty condition for field %q", field)
	}

	opNames := make([]string, 0, len(ops))
	for op := range ops {
		opNames = append(opNames, op)
	}
	sort.Strings(opNames)

	var parts []string
	var args []any
	for _, op := range opNames {
		sql, params, err := compileOp(col, field, op, ops[op])
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, params...)
	}

	return strings.Join(parts, " AND "), args, nil
}

func compileOp(col Column, field, op string, value any) (string, []any, error) {
	if sqlOp, ok := comparisonOps[op]; ok {
		param, err := convertValue(col, field, value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s ?", col.Name, sqlOp), []any{param}, nil
	}

	switch op {
	case "$in", "$nin":
		items, ok := value.([]any)
		if !ok {
			return "", nil, invalid("%s on %q requires an array", op, field)
		}
		if len(items) == 0 {
			// Nothing is in the empty set; everything is outside it.
			if op == "$in" {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		params := make([]any, 0, len(items))
		for _, item := range items {
			param, err := convertValue(col, field, item)
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
		keyword := "IN"
		if op == "$nin" {
			keyword = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col.Name, keyword, placeholders), params, nil
	default:
		return "", nil, invalid("unsupported operator %s on %q", op, field)
	}
}

func convertValue(col Column, field string, value any) (any, error) {
	switch col.Kind {
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindTime:
		switch v := value.(type) {
		case string:
			if t, err := ParseTime(v); err == nil {
				return t, nil
			}
		case json.Number:
			if ms, err := v.Int64(); err == nil {
				return time.UnixMilli(ms).UTC(), nil
			}
		}
	}
	return nil, invalid("unsupported value %v for field %q", value, field)
}

// ParseTime accepts RFC 3339 timestamps and plain dates.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func compileSort(schema Schema, order Sort) (string, error) {
	parts := make([]string, 0, len(order)+1)
	hasID := false

	for _, f := range order {
		col, ok := schema.Lookup(f.Field)
		if !ok {
			return "", invalid("unknown sort field %q", f.Field)
		}
		if col.Kind == KindList {
			return "", invalid("field %q cannot be sorted", f.Field)
		}
		dir, err := sortDirection(f)
		if err != nil {
			return "", err
		}
		if canonicalField(f.Field) == "id" {
			hasID = true
		}
		parts = append(parts, col.Name+" "+dir)
	}

	if !hasID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}

func sortDirection(f SortField) (string, error) {
	switch v := f.Direction.(type) {
	case json.Number:
		switch v.String() {
		case "1":
			return "ASC", nil
		case "-1":
			return "DESC", nil
		}
	case string:
		switch strings.ToLower(v) {
		case "asc", "ascending":
			return "ASC", nil
		case "desc", "descending":
			return "DESC", nil
		}
	}
	return "", invalid("invalid sort direction %v for %q", f.Direction, f.Field)
}
