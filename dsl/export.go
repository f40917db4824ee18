package dsl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Export serializes the document as DSL text. It is a pure function of the
// document's stored order and flags: property order, tuple and anchor field
// order, quoting, and hex-digit width are emitted exactly as stored. For any
// document D produced by Parse, Export(Parse(Export(D))) equals Export(D)
// byte for byte.
func (d *Document) Export(ctx context.Context, w io.Writer, opts ...Option) error {
	o := makeOptions(opts)

	if err := d.validate(); err != nil {
		return err
	}

	e := &exporter{indent: o.indent}
	e.document(d)

	o.logger.TraceContext(ctx, "export complete",
		slog.Int("bytes", e.buf.Len()),
	)

	_, err := io.WriteString(w, e.buf.String())
	if err != nil {
		return WrapError(err)
	}

	return nil
}

// ExportString serializes the document to a string.
func ExportString(ctx context.Context, d *Document, opts ...Option) (string, error) {
	var buf strings.Builder

	if err := d.Export(ctx, &buf, opts...); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// FormatValue renders a single value as DSL text, the same way Export
// renders it inside a property.
func FormatValue(v Value) string {
	e := new(exporter)
	e.value(v)

	return e.buf.String()
}

// validate rejects structurally invalid documents before export.
func (d *Document) validate() error {
	if d.Root == nil {
		return ErrInvalidDocument.
			With(slog.String("reason", "nil root element"))
	}

	for _, s := range d.Styles {
		if err := s.validate(); err != nil {
			return err
		}
	}

	return d.Root.validate()
}

func (s *StyleDefinition) validate() error {
	if s.Name == "" {
		return ErrInvalidDocument.
			With(slog.String("reason", "unnamed style definition"))
	}

	bad := func(field string) error {
		return ErrInvalidDocument.With(
			slog.String("reason", "style body missing "+field),
			slog.String("style", s.Name),
		)
	}

	switch s.Kind {
	case ValueStyle:
		if s.Value == nil {
			return bad("value")
		}
	case TupleStyle:
		if s.Tuple == nil {
			return bad("tuple")
		}
	case TypeConstructorStyle:
		if s.Tuple == nil || s.TypeName == "" {
			return bad("constructor body")
		}
	case ElementStyle:
		if s.Element == nil || s.TypeName == "" {
			return bad("element body")
		}

		return s.Element.validate()
	}

	return nil
}

func (el *Element) validate() error {
	if el.Type == "" && el.ID == "" && el.StylePrefix == "" {
		return ErrInvalidDocument.
			With(slog.String("reason", "element without type, id, or template reference"))
	}

	for _, p := range el.Properties {
		if p.Name == "" || p.Value == nil {
			return ErrInvalidDocument.With(
				slog.String("reason", "malformed property"),
				slog.String("element", el.displayName()),
			)
		}
	}

	for _, child := range el.Children {
		if err := child.validate(); err != nil {
			return err
		}
	}

	for _, s := range el.Styles {
		if err := s.validate(); err != nil {
			return err
		}
	}

	return nil
}

// exporter accumulates output. All writes go through the builder, which
// cannot fail, so emission code stays free of error plumbing.
type exporter struct {
	buf    strings.Builder
	indent int
}

func (e *exporter) pad(depth int) {
	e.buf.WriteString(strings.Repeat(" ", depth*e.indent))
}

func (e *exporter) comment(text string, depth int) {
	e.pad(depth)
	e.buf.WriteString("//")
	e.buf.WriteString(text)
	e.buf.WriteByte('\n')
}

func (e *exporter) comments(cs []Comment, anchor CommentAnchor, index, depth int) {
	for _, c := range cs {
		if c.Anchor == anchor && (anchor == AnchorTrailing || c.Index == index) {
			e.comment(c.Text, depth)
		}
	}
}

func (e *exporter) document(d *Document) {
	// Imports form a deduplicated preamble ordered by alias. Comments
	// follow the import they were recorded against.
	type importEntry struct {
		imp  Import
		orig int
	}

	seen := make(map[string]bool, len(d.Imports))
	entries := make([]importEntry, 0, len(d.Imports))

	for i, imp := range d.Imports {
		if seen[imp.Alias] {
			continue
		}

		seen[imp.Alias] = true
		entries = append(entries, importEntry{imp: imp, orig: i})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].imp.Alias < entries[j].imp.Alias
	})

	for _, entry := range entries {
		e.comments(d.Comments, AnchorBeforeImport, entry.orig, 0)
		e.buf.WriteString("$" + entry.imp.Alias + " = " +
			strconv.Quote(entry.imp.Path) + ";\n")
	}

	if len(entries) > 0 {
		e.buf.WriteByte('\n')
	}

	for i, s := range d.Styles {
		e.comments(d.Comments, AnchorBeforeStyle, i, 0)
		e.style(s, 0)
	}

	if len(d.Styles) > 0 {
		e.buf.WriteByte('\n')
	}

	if d.SyntheticRoot {
		for i, child := range d.Root.Children {
			if i > 0 {
				e.buf.WriteByte('\n')
			}

			e.comments(d.Comments, AnchorBeforeChild, i, 0)
			e.element(child, 0)
		}
	} else {
		e.comments(d.Comments, AnchorBeforeChild, 0, 0)
		e.element(d.Root, 0)
	}

	e.comments(d.Comments, AnchorTrailing, 0, 0)
}

// header returns the element's declaration prefix: its template reference
// when one is attached, the authored type spelling otherwise, or just the
// id marker for override blocks.
func (el *Element) header() string {
	switch {
	case el.StylePrefix != "":
		if el.ID != "" {
			return el.StylePrefix + " #" + el.ID
		}

		return el.StylePrefix
	case el.Type == "" && el.ID != "":
		return "#" + el.ID
	default:
		name := el.SourceType
		if name == "" {
			name = el.Type
		}

		if el.ID != "" {
			return name + " #" + el.ID
		}

		return name
	}
}

func (e *exporter) element(el *Element, depth int) {
	e.pad(depth)
	e.buf.WriteString(el.header())
	e.body(el, depth)
}

// body emits " { ... }" for an element whose header is already written.
func (e *exporter) body(el *Element, depth int) {
	if len(el.Styles) == 0 && len(el.Properties) == 0 &&
		len(el.Children) == 0 && len(el.Comments) == 0 {
		e.buf.WriteString(" {}\n")

		return
	}

	e.buf.WriteString(" {\n")

	inner := depth + 1

	for i, s := range el.Styles {
		e.comments(el.Comments, AnchorBeforeStyle, i, inner)
		e.style(s, inner)
	}

	for i, p := range el.Properties {
		e.comments(el.Comments, AnchorBeforeProperty, i, inner)
		e.pad(inner)
		e.buf.WriteString(p.Name)
		e.buf.WriteString(": ")
		e.value(p.Value)
		e.buf.WriteString(";\n")
	}

	for i, child := range el.Children {
		e.comments(el.Comments, AnchorBeforeChild, i, inner)
		e.element(child, inner)
	}

	e.comments(el.Comments, AnchorTrailing, 0, inner)

	e.pad(depth)
	e.buf.WriteString("}\n")
}

// style re-emits a declaration using its stored kind, which fixes the
// export syntax regardless of the body's current value shape.
func (e *exporter) style(s *StyleDefinition, depth int) {
	e.pad(depth)
	e.buf.WriteString("@" + s.Name + " = ")

	switch s.Kind {
	case ValueStyle:
		e.value(s.Value)
		e.buf.WriteString(";\n")
	case TupleStyle:
		e.tuple(s.Tuple)
		e.buf.WriteString(";\n")
	case TypeConstructorStyle:
		e.buf.WriteString(s.TypeName)
		e.tuple(s.Tuple)
		e.buf.WriteString(";\n")
	case ElementStyle:
		e.buf.WriteString(s.TypeName)
		e.body(s.Element, depth)
	}
}

func (e *exporter) value(v Value) {
	switch v := v.(type) {
	case *Text:
		if v.Quoted {
			e.buf.WriteString(strconv.Quote(v.Value))
		} else {
			e.buf.WriteString(v.Value)
		}
	case *Number:
		e.buf.WriteString(formatNumber(v.Value))
	case *Percent:
		e.buf.WriteString(formatNumber(v.Value) + "%")
	case *Boolean:
		e.buf.WriteString(strconv.FormatBool(v.Value))
	case *Color:
		e.buf.WriteString("#" + v.Digits)
	case *ImagePath:
		e.buf.WriteString(strconv.Quote(v.Path))
	case *FontPath:
		e.buf.WriteString(strconv.Quote(v.Path))
	case *LocalizedText:
		e.buf.WriteString("%" + v.Key + "%")
	case *Tuple:
		e.tuple(v)
	case *List:
		e.buf.WriteByte('[')

		for i, item := range v.Items {
			if i > 0 {
				e.buf.WriteString(", ")
			}

			e.value(item)
		}

		e.buf.WriteByte(']')
	case *Anchor:
		e.buf.WriteByte('(')

		for i, name := range v.FieldOrder {
			if i > 0 {
				e.buf.WriteString(", ")
			}

			e.buf.WriteString(name)
			e.buf.WriteString(": ")

			dim := v.Dims[name]
			e.buf.WriteString(formatNumber(dim.Value))

			if dim.Relative {
				e.buf.WriteByte('%')
			}
		}

		e.buf.WriteByte(')')
	case *VariableRef:
		e.buf.WriteString(formatRef(v.Alias, strings.Join(v.Path, ".")))
	case *StyleRef:
		e.buf.WriteString(formatRef(v.Alias, v.Name))
	case *Expression:
		e.expression(v)
	case *Null:
		e.buf.WriteString("null")
	case *Unknown:
		e.buf.WriteString(v.Raw)
	default:
		panic("dsl: unhandled value variant " + valueKindName(v))
	}
}

func (e *exporter) tuple(t *Tuple) {
	e.buf.WriteByte('(')

	for i, entry := range t.Entries {
		if i > 0 {
			e.buf.WriteString(", ")
		}

		if entry.Spread != nil {
			e.buf.WriteString("...")
			e.value(entry.Spread)

			continue
		}

		e.buf.WriteString(entry.Name)
		e.buf.WriteString(": ")
		e.value(entry.Value)
	}

	e.buf.WriteByte(')')
}

// expression renders an arithmetic node, parenthesizing children whose
// precedence would otherwise reassociate on re-parse.
func (e *exporter) expression(x *Expression) {
	e.operand(x.Left, x, false)
	e.buf.WriteString(" " + x.Op.String() + " ")
	e.operand(x.Right, x, true)
}

func (e *exporter) operand(v Value, parent *Expression, right bool) {
	child, ok := v.(*Expression)
	if !ok {
		e.value(v)

		return
	}

	// Parsing is left-associative, so any right-nested child of equal
	// precedence needs explicit parentheses to keep its tree shape.
	need := child.Op.precedence() < parent.Op.precedence() ||
		(right && child.Op.precedence() == parent.Op.precedence())

	if need {
		e.buf.WriteByte('(')
		e.expression(child)
		e.buf.WriteByte(')')
	} else {
		e.expression(child)
	}
}

func formatRef(alias, path string) string {
	if alias != "" {
		return "$" + alias + ".@" + path
	}

	return "@" + path
}

// formatNumber renders without a trailing ".0" for integral values.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
