package query

// Kind is the storage type of a column, used to convert filter values.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindTime
	// KindList columns hold encoded lists and cannot be filtered or sorted.
	KindList
)

// Column maps a document field onto a table column.
type Column struct {
	Name string
	Kind Kind
}

// Schema describes one collection: its table and the columns behind each
// document field.
type Schema struct {
	Table   string
	Columns map[string]Column
}

// idAliases are accepted in place of the id field.
var idAliases = map[string]string{"_id": "id"}

// Lookup resolves a document field name, accepting the _id alias.
func (s Schema) Lookup(field string) (Column, bool) {
	if alias, ok := idAliases[field]; ok {
		field = alias
	}
	col, ok := s.Columns[field]
	return col, ok
}

// canonicalField returns the document field name, resolving aliases.
func canonicalField(field string) string {
	if alias, ok := idAliases[field]; ok {
		return alias
	}
	return field
}
