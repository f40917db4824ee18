package dsl

// Document is a parsed DSL file. It preserves declaration order for imports,
// styles, and properties because export fidelity depends on it. Treat a
// Document as a value: editors clone it and write edits into the clone
// rather than mutating a shared instance.
type Document struct {
	Imports  []Import
	Styles   []*StyleDefinition
	Root     *Element
	Comments []Comment

	// SyntheticRoot is set when the source had zero or multiple top-level
	// elements and Root is a generated id-less wrapper. Export then emits
	// only Root's children.
	SyntheticRoot bool

	// Path is the file the document was parsed from, if any. Imports
	// resolve relative to its directory first.
	Path string
}

// Import binds an alias to a file path: $Alias = "path".
type Import struct {
	Alias string
	Path  string
}

// ImportPath returns the path bound to alias.
func (d *Document) ImportPath(alias string) (string, bool) {
	for _, imp := range d.Imports {
		if imp.Alias == alias {
			return imp.Path, true
		}
	}

	return "", false
}

// Style returns the named top-level style definition.
func (d *Document) Style(name string) (*StyleDefinition, bool) {
	for _, s := range d.Styles {
		if s.Name == name {
			return s, true
		}
	}

	return nil, false
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Imports:       append([]Import(nil), d.Imports...),
		Comments:      append([]Comment(nil), d.Comments...),
		SyntheticRoot: d.SyntheticRoot,
		Path:          d.Path,
	}

	c.Styles = make([]*StyleDefinition, len(d.Styles))
	for i, s := range d.Styles {
		c.Styles[i] = s.Clone()
	}

	if d.Root != nil {
		c.Root = d.Root.Clone()
	}

	return c
}

// CommentAnchor positions a comment relative to a structural slot. Explicit
// anchors, rather than inferred list indices, are what make comment replay
// (and therefore export idempotence) reliable.
type CommentAnchor int

const (
	// AnchorBeforeImport places the comment before import Index.
	AnchorBeforeImport CommentAnchor = iota
	// AnchorBeforeStyle places the comment before style Index.
	AnchorBeforeStyle
	// AnchorBeforeProperty places the comment before property Index.
	AnchorBeforeProperty
	// AnchorBeforeChild places the comment before child Index.
	AnchorBeforeChild
	// AnchorTrailing places the comment at the end of its body.
	AnchorTrailing
)

// Comment is a '//' line comment tagged with its structural position. Text
// is the verbatim content after the slashes.
type Comment struct {
	Anchor CommentAnchor
	Index  int
	Text   string
}

// Property is one ordered entry of an element's property mapping.
type Property struct {
	Name  string
	Value Value
}

// Element is a node of the UI tree.
type Element struct {
	// Type is the canonical element type (through the abstraction table).
	Type string

	// SourceType is the authored spelling when it differs from Type, e.g.
	// TextButton for canonical Button. Empty means the author wrote the
	// canonical name.
	SourceType string

	ID string

	// Properties preserves authored insertion order; no pass may reorder it.
	Properties []Property

	Children []*Element

	// Styles are element-scoped style declarations, visible to this
	// element's subtree through a nested scope.
	Styles []*StyleDefinition

	// StylePrefix remembers the template reference syntax ("@Name" or
	// "$Alias.@Name") that declared or produced this element. It survives
	// structural edits until the element is explicitly detached from its
	// template.
	StylePrefix string

	// TemplateRef is set on unexpanded template instantiation sites.
	TemplateRef *StyleRef

	Comments []Comment
}

// Property returns the named property's value.
func (el *Element) Property(name string) (Value, bool) {
	for _, p := range el.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}

	return nil, false
}

// SetProperty replaces the named property in place, or appends it while
// preserving the order of existing properties.
func (el *Element) SetProperty(name string, v Value) {
	for i := range el.Properties {
		if el.Properties[i].Name == name {
			el.Properties[i].Value = v

			return
		}
	}

	el.Properties = append(el.Properties, Property{Name: name, Value: v})
}

// RemoveProperty deletes the named property and shifts comment anchors so
// remaining comments keep their positions.
func (el *Element) RemoveProperty(name string) bool {
	for i := range el.Properties {
		if el.Properties[i].Name != name {
			continue
		}

		el.Properties = append(el.Properties[:i], el.Properties[i+1:]...)
		el.shiftComments(AnchorBeforeProperty, i, -1)

		return true
	}

	return false
}

// InsertChild inserts child at index, clamping to the valid range, and
// shifts comment anchors at or past the slot.
func (el *Element) InsertChild(index int, child *Element) {
	if index < 0 {
		index = 0
	}

	if index > len(el.Children) {
		index = len(el.Children)
	}

	el.Children = append(el.Children, nil)
	copy(el.Children[index+1:], el.Children[index:])
	el.Children[index] = child
	el.shiftComments(AnchorBeforeChild, index, 1)
}

// RemoveChild deletes the child at index.
func (el *Element) RemoveChild(index int) bool {
	if index < 0 || index >= len(el.Children) {
		return false
	}

	el.Children = append(el.Children[:index], el.Children[index+1:]...)
	el.shiftComments(AnchorBeforeChild, index, -1)

	return true
}

// ReplaceChild swaps the child at index.
func (el *Element) ReplaceChild(index int, child *Element) bool {
	if index < 0 || index >= len(el.Children) {
		return false
	}

	el.Children[index] = child

	return true
}

// Detach removes the element's template association so future expansions
// and exports treat it as a plain element.
func (el *Element) Detach() {
	el.StylePrefix = ""
	el.TemplateRef = nil
}

// shiftComments adjusts comment indices for an insertion (+1) or removal
// (-1) at slot index of the given anchor kind.
func (el *Element) shiftComments(anchor CommentAnchor, index, delta int) {
	for i := range el.Comments {
		c := &el.Comments[i]
		if c.Anchor == anchor && c.Index >= index {
			c.Index += delta
			if c.Index < 0 {
				c.Index = 0
			}
		}
	}
}

// Clone deep-copies the element and its subtree.
func (el *Element) Clone() *Element {
	c := &Element{
		Type:        el.Type,
		SourceType:  el.SourceType,
		ID:          el.ID,
		StylePrefix: el.StylePrefix,
		Comments:    append([]Comment(nil), el.Comments...),
	}

	if el.TemplateRef != nil {
		ref := *el.TemplateRef
		c.TemplateRef = &ref
	}

	c.Properties = make([]Property, len(el.Properties))
	for i, p := range el.Properties {
		c.Properties[i] = Property{Name: p.Name, Value: CloneValue(p.Value)}
	}

	c.Children = make([]*Element, len(el.Children))
	for i, child := range el.Children {
		c.Children[i] = child.Clone()
	}

	c.Styles = make([]*StyleDefinition, len(el.Styles))
	for i, s := range el.Styles {
		c.Styles[i] = s.Clone()
	}

	return c
}

// displayName renders "Type#id" for warning context.
func (el *Element) displayName() string {
	name := el.Type
	if name == "" && el.StylePrefix != "" {
		name = el.StylePrefix
	}

	if el.ID != "" {
		name += "#" + el.ID
	}

	return name
}

// StyleKind selects a style definition's declaration shape, which in turn
// determines its export syntax.
type StyleKind int

const (
	// ValueStyle is a plain variable declaration: @name = value;
	ValueStyle StyleKind = iota
	// TupleStyle is @Name = (Field: v, ...);
	TupleStyle
	// TypeConstructorStyle is @Name = Type(Field: v, ...);
	TypeConstructorStyle
	// ElementStyle is @Name = Type { ... } and doubles as a template.
	ElementStyle
)

// StyleDefinition is a named reusable declaration: a variable, a tuple or
// constructor style, or an element-shaped template.
type StyleDefinition struct {
	Name string
	Kind StyleKind

	// TypeName is the authored element type for constructor and element
	// kinds.
	TypeName string

	// Value holds the declaration body for ValueStyle; Tuple for the tuple
	// and constructor kinds; Element for element styles.
	Value   Value
	Tuple   *Tuple
	Element *Element
}

// Clone deep-copies the style definition.
func (s *StyleDefinition) Clone() *StyleDefinition {
	c := &StyleDefinition{
		Name:     s.Name,
		Kind:     s.Kind,
		TypeName: s.TypeName,
	}

	if s.Value != nil {
		c.Value = CloneValue(s.Value)
	}

	if s.Tuple != nil {
		c.Tuple = CloneValue(s.Tuple).(*Tuple)
	}

	if s.Element != nil {
		c.Element = s.Element.Clone()
	}

	return c
}

// ElementEqual reports structural equality of two elements: type, id,
// property names and values, and child order. Comment bookkeeping is
// ignored.
func ElementEqual(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Type != b.Type || a.ID != b.ID || a.StylePrefix != b.StylePrefix {
		return false
	}

	if len(a.Properties) != len(b.Properties) ||
		len(a.Children) != len(b.Children) {
		return false
	}

	for i := range a.Properties {
		if a.Properties[i].Name != b.Properties[i].Name {
			return false
		}

		if !ValueEqual(a.Properties[i].Value, b.Properties[i].Value) {
			return false
		}
	}

	for i := range a.Children {
		if !ElementEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return true
}
