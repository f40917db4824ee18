package dsl

// Abstractions is a fixed bidirectional mapping between authored element
// type names and their canonical types (TextButton ↔ Button). It is passed
// explicitly to the parser and exporter rather than held as global state, so
// editor embeddings can supply their own table.
type Abstractions struct {
	toCanonical map[string]string
	toAuthored  map[string]string
}

// NewAbstractions builds a table from authored→canonical pairs. The mapping
// must be bijective; later duplicates overwrite earlier ones.
func NewAbstractions(pairs map[string]string) *Abstractions {
	a := &Abstractions{
		toCanonical: make(map[string]string, len(pairs)),
		toAuthored:  make(map[string]string, len(pairs)),
	}

	for authored, canonical := range pairs {
		a.toCanonical[authored] = canonical
		a.toAuthored[canonical] = authored
	}

	return a
}

// Canonical maps an authored type name to its canonical type. Unmapped
// names are their own canonical form.
func (a *Abstractions) Canonical(name string) string {
	if a == nil {
		return name
	}

	if canonical, ok := a.toCanonical[name]; ok {
		return canonical
	}

	return name
}

// Authored maps a canonical type back to its authored alias, for elements
// synthesized without a source spelling.
func (a *Abstractions) Authored(name string) string {
	if a == nil {
		return name
	}

	if authored, ok := a.toAuthored[name]; ok {
		return authored
	}

	return name
}

// IsAbstraction reports whether name is an authored alias (not a canonical
// type).
func (a *Abstractions) IsAbstraction(name string) bool {
	if a == nil {
		return false
	}

	_, ok := a.toCanonical[name]

	return ok
}

// DefaultAbstractions is the table shipped with the editor.
func DefaultAbstractions() *Abstractions {
	return NewAbstractions(map[string]string{
		"TextButton": "Button",
		"TextBox":    "Input",
		"Picture":    "Image",
		"VStack":     "Column",
		"HStack":     "Row",
	})
}
