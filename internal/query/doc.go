// Package query parses the where, sort, select, skip, limit and count query
// parameters accepted by list endpoints, and compiles the resulting
// descriptors into parameterised SQL fragments for a collection schema.
//
// Parsing only checks that the text is well-formed JSON. Field names,
// operators and values are checked when a descriptor is compiled against a
// Schema, so callers see ErrMalformedQueryParameter for bad text and
// ErrInvalidQuery for well-formed queries the store cannot run.
package query
