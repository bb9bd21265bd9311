package query

import "encoding/json"

// Projection is a parsed select descriptor. Values of 1 (or true) include a
// field, values of 0 (or false) exclude it.
type Projection map[string]any

// Validate checks that every value is a flag and that inclusions and
// exclusions are not mixed. Excluding id is allowed alongside inclusions.
func (p Projection) Validate() error {
	_, err := p.mode()
	return err
}

// Apply returns the projected copy of doc. An empty projection returns doc
// unchanged. Apply assumes Validate has passed.
func (p Projection) Apply(doc map[string]any) map[string]any {
	if len(p) == 0 {
		return doc
	}
	include, err := p.mode()
	if err != nil {
		return doc
	}

	flags := make(map[string]bool, len(p))
	for field, v := range p {
		on, _ := flag(v)
		flags[canonicalField(field)] = on
	}

	out := make(map[string]any, len(doc))
	if include {
		for field, on := range flags {
			if on {
				if v, ok := doc[field]; ok {
					out[field] = v
				}
			}
		}
		if on, set := flags["id"]; !set || on {
			if v, ok := doc["id"]; ok {
				out["id"] = v
			}
		}
		return out
	}

	for field, v := range doc {
		if on, set := flags[field]; set && !on {
			continue
		}
		out[field] = v
	}
	return out
}

// mode reports whether the projection is an inclusion list.
func (p Projection) mode() (bool, error) {
	var includes, excludes int
	for field, v := range p {
		on, ok := flag(v)
		if !ok {
			return false, invalid("invalid select value %v for %q", v, field)
		}
		if canonicalField(field) == "id" {
			continue
		}
		if on {
			includes++
		} else {
			excludes++
		}
	}
	if includes > 0 && excludes > 0 {
		return false, invalid("select cannot mix inclusion and exclusion")
	}
	if includes == 0 && excludes == 0 {
		// Only id was mentioned: {"id": 1} keeps just id, {"id": 0} drops it.
		for field, v := range p {
			if canonicalField(field) == "id" {
				on, _ := flag(v)
				return on, nil
			}
		}
	}
	return includes > 0, nil
}

func flag(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case float64:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	}
	return false, false
}
