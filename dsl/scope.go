package dsl

// bindingState tracks lazy resolution of a variable so self- and
// forward-references terminate.
type bindingState uint8

const (
	bindingRaw bindingState = iota
	bindingResolving
	bindingResolved
)

// binding is one variable slot: the raw parsed value, and the resolved
// value once resolution has been requested.
type binding struct {
	raw      Value
	resolved Value
	state    bindingState
}

// Scope is a chain of variable namespaces. The document's top-level
// declarations form the root scope; element-scoped style declarations nest
// below it. Imported files resolve into their own scopes, reachable by
// alias.
type Scope struct {
	// Name identifies the scope in diagnostics: a file path for document
	// scopes, an element name for nested ones.
	Name string

	parent    *Scope
	vars      map[string]*binding
	order     []string
	templates map[string]*StyleDefinition
	imports   map[string]*Scope
}

// NewScope creates a scope chained under parent (which may be nil).
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		Name:      name,
		parent:    parent,
		vars:      make(map[string]*binding),
		templates: make(map[string]*StyleDefinition),
		imports:   make(map[string]*Scope),
	}
}

// Declare registers a variable with its raw, unresolved value. Values stay
// raw until resolution is requested, which is what permits forward
// references inside composite literals. Redeclaration overwrites.
func (s *Scope) Declare(name string, raw Value) {
	if _, ok := s.vars[name]; !ok {
		s.order = append(s.order, name)
	}

	s.vars[name] = &binding{raw: raw}
}

// DeclareTemplate registers an element-shaped style definition.
func (s *Scope) DeclareTemplate(def *StyleDefinition) {
	s.templates[def.Name] = def
}

// AddImport attaches a resolved import scope under its alias.
func (s *Scope) AddImport(alias string, scope *Scope) {
	s.imports[alias] = scope
}

// lookup finds the binding for name, walking parent scopes, and returns the
// owning scope so resolution happens in the right namespace.
func (s *Scope) lookup(name string) (*binding, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b, cur, true
		}
	}

	return nil, nil, false
}

// Value returns the resolved value of name if resolution has completed.
func (s *Scope) Value(name string) (Value, bool) {
	b, _, ok := s.lookup(name)
	if !ok || b.state != bindingResolved {
		return nil, false
	}

	return b.resolved, true
}

// Template finds an element-shaped style definition, walking parents.
func (s *Scope) Template(name string) (*StyleDefinition, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if def, ok := cur.templates[name]; ok {
			return def, true
		}
	}

	return nil, false
}

// Import finds a resolved import scope by alias, walking parents.
func (s *Scope) Import(alias string) (*Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if imp, ok := cur.imports[alias]; ok {
			return imp, true
		}
	}

	return nil, false
}

// VariableNames lists every variable name visible from this scope, for
// suggestion ranking on undefined-name warnings.
func (s *Scope) VariableNames() []string {
	var names []string

	seen := make(map[string]bool)

	for cur := s; cur != nil; cur = cur.parent {
		for _, name := range cur.order {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// AliasNames lists every import alias visible from this scope.
func (s *Scope) AliasNames() []string {
	var names []string

	seen := make(map[string]bool)

	for cur := s; cur != nil; cur = cur.parent {
		for alias := range cur.imports {
			if !seen[alias] {
				seen[alias] = true
				names = append(names, alias)
			}
		}
	}

	return names
}
