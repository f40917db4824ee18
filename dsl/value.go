package dsl

// Value is the closed set of property values the grammar can produce. Every
// variant must be handled by the resolver and the exporter; the compiler
// enforces this through exhaustive type switches ending in a panic arm.
type Value interface {
	value()
}

// Text is a string value. Quoted records whether the source enclosed it in
// double quotes; bare identifiers like Center stay unquoted on export.
type Text struct {
	Value  string
	Quoted bool
}

// Number is a numeric literal. Integral values export without a decimal
// point.
type Number struct {
	Value float64
}

// Percent is a relative value authored as "<n>%". Value holds the authored
// magnitude (possibly negative, unclamped) so export never suffers float
// drift; Ratio derives the fraction.
type Percent struct {
	Value float64
}

// Ratio returns the percent as a fraction (e.g. -10% → -0.1).
func (p *Percent) Ratio() float64 { return p.Value / 100 }

// Boolean is a true/false literal.
type Boolean struct {
	Value bool
}

// Color is a hex color literal. Digits holds the authored hex digits without
// the leading '#'; the count (3, 6, or 8) is preserved for export.
type Color struct {
	Digits string
}

// ImagePath is a quoted path classified as an image by the property schema.
type ImagePath struct {
	Path string
}

// FontPath is a quoted path classified as a font by the property schema.
type FontPath struct {
	Path string
}

// LocalizedText references a localization key, authored as "%Key%".
type LocalizedText struct {
	Key string
}

// TupleEntry is one entry of a tuple: either a named field or a "...@X"
// spread merging the referenced tuple's fields in place.
type TupleEntry struct {
	Name   string
	Value  Value
	Spread *VariableRef // Non-nil for spread entries; Name and Value are unset
}

// Tuple is an ordered field mapping. Entry order is authored order and is
// never recomputed.
type Tuple struct {
	Entries []TupleEntry
}

// Field returns the named field's value, honoring last-write-wins for
// duplicate keys. Spread entries are not consulted; they only exist before
// resolution.
func (t *Tuple) Field(name string) (Value, bool) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		e := t.Entries[i]
		if e.Spread == nil && e.Name == name {
			return e.Value, true
		}
	}

	return nil, false
}

// FieldOrder returns the authored field names in order, excluding spreads.
func (t *Tuple) FieldOrder() []string {
	order := make([]string, 0, len(t.Entries))

	for _, e := range t.Entries {
		if e.Spread == nil {
			order = append(order, e.Name)
		}
	}

	return order
}

// List is an ordered value sequence authored as "[a, b, c]".
type List struct {
	Items []Value
}

// AnchorDim is one dimension of an anchor: absolute pixels or a relative
// ratio. For relative dimensions Value holds the authored percent magnitude.
type AnchorDim struct {
	Relative bool
	Value    float64
}

// Ratio returns the relative fraction; it is meaningless for absolute
// dimensions.
func (d AnchorDim) Ratio() float64 { return d.Value / 100 }

// Anchor field vocabulary. A resolved tuple whose field names form a
// non-empty subset of these is promoted to an Anchor.
var anchorFields = []string{"Left", "Top", "Right", "Bottom", "Width", "Height"}

// Anchor is a positional/sizing descriptor of up to six optional dimensions.
// FieldOrder is stored separately from the dimensions because export must
// reproduce authored order while lookup remains by name.
type Anchor struct {
	Dims       map[string]AnchorDim
	FieldOrder []string
}

// Dim returns the named dimension.
func (a *Anchor) Dim(name string) (AnchorDim, bool) {
	d, ok := a.Dims[name]

	return d, ok
}

// VariableRef references a variable: "@name", "@name.field", or
// "$Alias.@name". Path holds the dotted segments after the '@'.
type VariableRef struct {
	Alias string
	Path  []string
}

// Name returns the first path segment, the variable's declared name.
func (r *VariableRef) Name() string {
	if len(r.Path) == 0 {
		return ""
	}

	return r.Path[0]
}

// StyleRef references a style definition awaiting resolution, local
// ("@Name") or imported ("$Alias.@Name").
type StyleRef struct {
	Alias string
	Name  string
}

// Operator is an arithmetic operator in an expression.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

// String returns the operator's source spelling.
func (op Operator) String() string { return string(byte(op)) }

// precedence orders operators for export parenthesization.
func (op Operator) precedence() int {
	if op == OpMul || op == OpDiv {
		return 2
	}

	return 1
}

// Expression is an arithmetic AST node. Parsing is left-associative with
// standard precedence; explicit parentheses shape the tree and need not be
// recorded separately.
type Expression struct {
	Left  Value
	Op    Operator
	Right Value
}

// Null is the "null" keyword. It is distinct from a bare identifier: an
// unquoted Center is Text, never Null.
type Null struct{}

// Unknown preserves verbatim source text the grammar could not classify, so
// re-export never destroys user content.
type Unknown struct {
	Raw string
}

func (*Text) value()          {}
func (*Number) value()        {}
func (*Percent) value()       {}
func (*Boolean) value()       {}
func (*Color) value()         {}
func (*ImagePath) value()     {}
func (*FontPath) value()      {}
func (*LocalizedText) value() {}
func (*Tuple) value()         {}
func (*List) value()          {}
func (*Anchor) value()        {}
func (*VariableRef) value()   {}
func (*StyleRef) value()      {}
func (*Expression) value()    {}
func (*Null) value()          {}
func (*Unknown) value()       {}

// CloneValue deep-copies a value.
func CloneValue(v Value) Value {
	switch v := v.(type) {
	case nil:
		return nil
	case *Text:
		c := *v

		return &c
	case *Number:
		c := *v

		return &c
	case *Percent:
		c := *v

		return &c
	case *Boolean:
		c := *v

		return &c
	case *Color:
		c := *v

		return &c
	case *ImagePath:
		c := *v

		return &c
	case *FontPath:
		c := *v

		return &c
	case *LocalizedText:
		c := *v

		return &c
	case *Tuple:
		entries := make([]TupleEntry, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = TupleEntry{Name: e.Name}
			if e.Value != nil {
				entries[i].Value = CloneValue(e.Value)
			}

			if e.Spread != nil {
				spread := *e.Spread
				spread.Path = append([]string(nil), e.Spread.Path...)
				entries[i].Spread = &spread
			}
		}

		return &Tuple{Entries: entries}
	case *List:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = CloneValue(item)
		}

		return &List{Items: items}
	case *Anchor:
		dims := make(map[string]AnchorDim, len(v.Dims))
		for k, d := range v.Dims {
			dims[k] = d
		}

		return &Anchor{
			Dims:       dims,
			FieldOrder: append([]string(nil), v.FieldOrder...),
		}
	case *VariableRef:
		c := *v
		c.Path = append([]string(nil), v.Path...)

		return &c
	case *StyleRef:
		c := *v

		return &c
	case *Expression:
		return &Expression{
			Left:  CloneValue(v.Left),
			Op:    v.Op,
			Right: CloneValue(v.Right),
		}
	case *Null:
		return &Null{}
	case *Unknown:
		c := *v

		return &c
	default:
		panic("dsl: unhandled value variant " + valueKindName(v))
	}
}

// ValueEqual reports structural equality of two values.
func ValueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	switch a := a.(type) {
	case *Text:
		b, ok := b.(*Text)

		return ok && a.Value == b.Value && a.Quoted == b.Quoted
	case *Number:
		b, ok := b.(*Number)

		return ok && a.Value == b.Value
	case *Percent:
		b, ok := b.(*Percent)

		return ok && a.Value == b.Value
	case *Boolean:
		b, ok := b.(*Boolean)

		return ok && a.Value == b.Value
	case *Color:
		b, ok := b.(*Color)

		return ok && a.Digits == b.Digits
	case *ImagePath:
		b, ok := b.(*ImagePath)

		return ok && a.Path == b.Path
	case *FontPath:
		b, ok := b.(*FontPath)

		return ok && a.Path == b.Path
	case *LocalizedText:
		b, ok := b.(*LocalizedText)

		return ok && a.Key == b.Key
	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}

		for i := range a.Entries {
			ae, be := a.Entries[i], b.Entries[i]
			if ae.Name != be.Name {
				return false
			}

			if (ae.Spread == nil) != (be.Spread == nil) {
				return false
			}

			if ae.Spread != nil {
				if !ValueEqual(ae.Spread, be.Spread) {
					return false
				}

				continue
			}

			if !ValueEqual(ae.Value, be.Value) {
				return false
			}
		}

		return true
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}

		for i := range a.Items {
			if !ValueEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}

		return true
	case *Anchor:
		b, ok := b.(*Anchor)
		if !ok || len(a.FieldOrder) != len(b.FieldOrder) {
			return false
		}

		for i, name := range a.FieldOrder {
			if b.FieldOrder[i] != name {
				return false
			}

			if a.Dims[name] != b.Dims[name] {
				return false
			}
		}

		return true
	case *VariableRef:
		b, ok := b.(*VariableRef)
		if !ok || a.Alias != b.Alias || len(a.Path) != len(b.Path) {
			return false
		}

		for i := range a.Path {
			if a.Path[i] != b.Path[i] {
				return false
			}
		}

		return true
	case *StyleRef:
		b, ok := b.(*StyleRef)

		return ok && a.Alias == b.Alias && a.Name == b.Name
	case *Expression:
		b, ok := b.(*Expression)

		return ok && a.Op == b.Op &&
			ValueEqual(a.Left, b.Left) &&
			ValueEqual(a.Right, b.Right)
	case *Null:
		_, ok := b.(*Null)

		return ok
	case *Unknown:
		b, ok := b.(*Unknown)

		return ok && a.Raw == b.Raw
	default:
		panic("dsl: unhandled value variant " + valueKindName(a))
	}
}

// valueKindName names a variant for diagnostics.
func valueKindName(v Value) string {
	switch v.(type) {
	case *Text:
		return "Text"
	case *Number:
		return "Number"
	case *Percent:
		return "Percent"
	case *Boolean:
		return "Boolean"
	case *Color:
		return "Color"
	case *ImagePath:
		return "ImagePath"
	case *FontPath:
		return "FontPath"
	case *LocalizedText:
		return "LocalizedText"
	case *Tuple:
		return "Tuple"
	case *List:
		return "List"
	case *Anchor:
		return "Anchor"
	case *VariableRef:
		return "VariableRef"
	case *StyleRef:
		return "StyleRef"
	case *Expression:
		return "Expression"
	case *Null:
		return "Null"
	case *Unknown:
		return "Unknown"
	default:
		return "unknown"
	}
}
