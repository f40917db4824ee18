package dsl

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// ResolvedDocument is the editor-facing form of a document: an element tree
// with concrete property values, the scope it resolved in, and the warnings
// accumulated along the way. The source document is never mutated; edits go
// back into a clone of it before export.
type ResolvedDocument struct {
	Source   *Document
	Root     *Element
	Scope    *Scope
	Warnings []Warning
}

// Resolve runs the import, variable, and template passes over a parsed
// document. Resolution never fails on user content: undefined names, missing
// imports, and cycles degrade to warnings while the affected values keep
// their unresolved form.
func Resolve(ctx context.Context, doc *Document, opts ...Option) (*ResolvedDocument, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrInvalidDocument.
			With(slog.String("reason", "nil document"))
	}

	o := makeOptions(opts)

	r := &resolver{
		opts:      o,
		optList:   opts,
		importer:  newImporter(o),
		expanding: make(map[*StyleDefinition]bool),
	}

	scope := NewScope(scopeName(doc), o.scope)
	r.declareStyles(scope, doc.Styles)

	// Guard the entry file itself so a transitive import of it is reported
	// as a cycle instead of recursing.
	if doc.Path != "" {
		if abs, err := filepath.Abs(doc.Path); err == nil {
			r.importer.active[abs] = true
		}
	}

	for _, imp := range doc.Imports {
		if sub, ok := r.resolveImport(ctx, imp, baseDir(doc)); ok {
			scope.AddImport(imp.Alias, sub)
		}
	}

	root := r.resolveElement(ctx, doc.Root.Clone(), scope)

	o.logger.TraceContext(ctx, "resolve complete",
		slog.String("scope", scope.Name),
		slog.Int("warnings", len(r.warnings)),
	)

	return &ResolvedDocument{
		Source:   doc,
		Root:     root,
		Scope:    scope,
		Warnings: r.warnings,
	}, nil
}

func scopeName(doc *Document) string {
	if doc.Path != "" {
		return doc.Path
	}

	return "document"
}

func baseDir(doc *Document) string {
	if doc.Path == "" {
		return ""
	}

	return filepath.Dir(doc.Path)
}

// resolver carries the state of one Resolve invocation. Nothing here
// persists across calls; the import cache in particular is scoped to a
// single top-level resolution.
type resolver struct {
	opts      options
	optList   []Option
	importer  *importer
	warnings  []Warning
	expanding map[*StyleDefinition]bool
}

func (r *resolver) warn(w Warning) {
	r.warnings = append(r.warnings, w)
}

// refContext names the property and element a warning refers to.
type refContext struct {
	property string
	element  string
}

// declareStyles registers style declarations into a scope. Definitions are
// cloned so resolution never writes into the raw document.
func (r *resolver) declareStyles(scope *Scope, styles []*StyleDefinition) {
	for _, def := range styles {
		def = def.Clone()

		switch def.Kind {
		case ElementStyle:
			scope.DeclareTemplate(def)
		case TupleStyle, TypeConstructorStyle:
			scope.Declare(def.Name, def.Tuple)
		case ValueStyle:
			scope.Declare(def.Name, def.Value)
		}
	}
}

// resolveScopeBindings eagerly resolves every variable declared directly in
// the scope. Imported files are resolved this way so their scopes hand out
// finished values.
func (r *resolver) resolveScopeBindings(scope *Scope) {
	for _, name := range scope.order {
		r.resolveBinding(scope, name, refContext{})
	}
}

// resolveScopeTemplates resolves the bodies of an imported file's templates
// in that file's own scope, so instantiation elsewhere merges finished
// values. Templates local to the resolving document skip this: their bodies
// resolve at each instantiation site, where instance-scoped styles are
// visible.
func (r *resolver) resolveScopeTemplates(ctx context.Context, scope *Scope) {
	for _, def := range scope.templates {
		def.Element = r.resolveElement(ctx, def.Element, scope)
	}
}

// resolveElement resolves an element in place (the element must already be
// a clone). Template instantiations are expanded first, against the scope
// the reference appears in; element-scoped styles then open a nested scope
// for the subtree.
func (r *resolver) resolveElement(ctx context.Context, el *Element, scope *Scope) *Element {
	if el.TemplateRef != nil {
		expanded, release := r.expand(ctx, el, scope)
		if release != nil {
			defer release()
		}

		el = expanded
	}

	if len(el.Styles) > 0 {
		nested := NewScope(el.displayName(), scope)
		r.declareStyles(nested, el.Styles)
		scope = nested
	}

	info := refContext{element: el.displayName()}

	for i := range el.Properties {
		info.property = el.Properties[i].Name
		el.Properties[i].Value = r.resolveValue(el.Properties[i].Value, scope, info)
	}

	for i := range el.Children {
		el.Children[i] = r.resolveElement(ctx, el.Children[i], scope)
	}

	return el
}

// resolveValue resolves a single value. Unresolvable parts are returned
// unchanged so user content survives; the corresponding warning has already
// been recorded by the time a value comes back unresolved.
func (r *resolver) resolveValue(v Value, scope *Scope, info refContext) Value {
	switch v := v.(type) {
	case *VariableRef:
		return r.resolveRef(v, scope, info)
	case *StyleRef:
		return r.resolveRef(&VariableRef{
			Alias: v.Alias,
			Path:  []string{v.Name},
		}, scope, info)
	case *Expression:
		return r.resolveExpression(v, scope, info)
	case *Tuple:
		return r.resolveTuple(v, scope, info)
	case *List:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = r.resolveValue(item, scope, info)
		}

		return &List{Items: items}
	case *LocalizedText:
		if r.opts.locale != nil {
			if _, ok := r.opts.locale[v.Key]; !ok {
				r.warn(Warning{
					Code:     WarnUnresolvedLocalization,
					Name:     v.Key,
					Property: info.property,
					Element:  info.element,
				})
			}
		}

		return v
	case *Text, *Number, *Percent, *Boolean, *Color,
		*ImagePath, *FontPath, *Anchor, *Null, *Unknown:
		return v
	default:
		panic("dsl: unhandled value variant " + valueKindName(v))
	}
}

// resolveRef resolves a variable or style reference, following the dotted
// path into tuple fields.
func (r *resolver) resolveRef(ref *VariableRef, scope *Scope, info refContext) Value {
	target := scope

	if ref.Alias != "" {
		sub, ok := scope.Import(ref.Alias)
		if !ok {
			r.warn(Warning{
				Code:        WarnUndefinedAlias,
				Name:        ref.Alias,
				Property:    info.property,
				Element:     info.element,
				Suggestions: suggest(ref.Alias, scope.AliasNames()),
			})

			return ref
		}

		target = sub
	}

	name := ref.Name()

	val, ok := r.resolveBinding(target, name, info)
	if !ok {
		// Element-shaped styles are not values; a reference to one stays
		// unresolved without a warning so templates pass through intact.
		if _, isTemplate := target.Template(name); isTemplate {
			return ref
		}

		r.warn(Warning{
			Code:        WarnUndefinedVariable,
			Name:        name,
			Property:    info.property,
			Element:     info.element,
			Suggestions: suggest(name, target.VariableNames()),
		})

		return ref
	}

	for _, seg := range ref.Path[1:] {
		tuple, isTuple := val.(*Tuple)
		if !isTuple {
			r.warn(Warning{
				Code:     WarnUndefinedVariable,
				Name:     strings.Join(ref.Path, "."),
				Property: info.property,
				Element:  info.element,
			})

			return ref
		}

		field, found := tuple.Field(seg)
		if !found {
			r.warn(Warning{
				Code:        WarnUndefinedVariable,
				Name:        strings.Join(ref.Path, "."),
				Property:    info.property,
				Element:     info.element,
				Suggestions: suggest(seg, tuple.FieldOrder()),
			})

			return ref
		}

		val = field
	}

	return CloneValue(val)
}

// resolveBinding resolves the named variable inside its owning scope,
// guarding against reference cycles.
func (r *resolver) resolveBinding(scope *Scope, name string, info refContext) (Value, bool) {
	b, owner, ok := scope.lookup(name)
	if !ok {
		return nil, false
	}

	switch b.state {
	case bindingResolved:
		return b.resolved, true
	case bindingResolving:
		r.warn(Warning{
			Code:     WarnCyclicVariable,
			Name:     name,
			Property: info.property,
			Element:  info.element,
		})

		return nil, false
	}

	b.state = bindingResolving
	b.resolved = r.resolveValue(b.raw, owner, refContext{property: name})
	b.state = bindingResolved

	return b.resolved, true
}

// resolveExpression evaluates arithmetic when both sides resolve to
// numbers. A side that stays unresolved keeps the whole expression
// unresolved without further noise; resolved non-numeric operands are
// warned about, failing only this property.
func (r *resolver) resolveExpression(x *Expression, scope *Scope, info refContext) Value {
	left := r.resolveValue(x.Left, scope, info)
	right := r.resolveValue(x.Right, scope, info)

	ln, lok := left.(*Number)
	rn, rok := right.(*Number)

	if lok && rok {
		switch x.Op {
		case OpAdd:
			return &Number{Value: ln.Value + rn.Value}
		case OpSub:
			return &Number{Value: ln.Value - rn.Value}
		case OpMul:
			return &Number{Value: ln.Value * rn.Value}
		case OpDiv:
			if rn.Value == 0 {
				r.warn(Warning{
					Code:     WarnDivisionByZero,
					Property: info.property,
					Element:  info.element,
				})

				return &Expression{Left: left, Op: x.Op, Right: right}
			}

			return &Number{Value: ln.Value / rn.Value}
		}
	}

	if !isUnresolved(left) && !isUnresolved(right) {
		r.warn(Warning{
			Code:     WarnNonNumericOperand,
			Property: info.property,
			Element:  info.element,
		})
	}

	return &Expression{Left: left, Op: x.Op, Right: right}
}

// isUnresolved reports whether a value still contains unresolved
// references after a resolution attempt.
func isUnresolved(v Value) bool {
	switch v := v.(type) {
	case *VariableRef, *StyleRef:
		return true
	case *Expression:
		return isUnresolved(v.Left) || isUnresolved(v.Right)
	default:
		return false
	}
}

// resolveTuple resolves entries in order, flattening spreads. Spread fields
// merge first, then explicit fields; later keys override earlier ones. A
// fully resolved tuple over the anchor vocabulary is promoted to an Anchor,
// which outranks whatever the schema declared for the property.
func (r *resolver) resolveTuple(t *Tuple, scope *Scope, info refContext) Value {
	out := new(Tuple)
	clean := true

	addField := func(name string, v Value) {
		for i := range out.Entries {
			if out.Entries[i].Spread == nil && out.Entries[i].Name == name {
				out.Entries[i].Value = v

				return
			}
		}

		out.Entries = append(out.Entries, TupleEntry{Name: name, Value: v})
	}

	for _, entry := range t.Entries {
		if entry.Spread == nil {
			addField(entry.Name, r.resolveValue(entry.Value, scope, info))

			continue
		}

		resolved := r.resolveRef(entry.Spread, scope, info)

		// A binding over the anchor vocabulary resolves to an Anchor;
		// demote it so its fields still merge with later overrides.
		if a, isAnchor := resolved.(*Anchor); isAnchor {
			resolved = anchorTuple(a)
		}

		base, ok := resolved.(*Tuple)
		if !ok {
			// Keep the spread verbatim; the reference warning (if any) has
			// already been recorded.
			clean = false

			out.Entries = append(out.Entries, TupleEntry{Spread: entry.Spread})

			continue
		}

		for _, be := range base.Entries {
			if be.Spread != nil {
				clean = false

				out.Entries = append(out.Entries, be)

				continue
			}

			addField(be.Name, be.Value)
		}
	}

	if clean {
		if anchor, ok := promoteAnchor(out); ok {
			return anchor
		}
	}

	return out
}

// anchorTuple is the inverse of promoteAnchor: it rewrites an anchor back
// into tuple form, preserving field order.
func anchorTuple(a *Anchor) *Tuple {
	t := new(Tuple)

	for _, name := range a.FieldOrder {
		dim := a.Dims[name]

		var v Value
		if dim.Relative {
			v = &Percent{Value: dim.Value}
		} else {
			v = &Number{Value: dim.Value}
		}

		t.Entries = append(t.Entries, TupleEntry{Name: name, Value: v})
	}

	return t
}

// promoteAnchor converts a tuple whose fields form a non-empty subset of
// the anchor vocabulary into an Anchor, preserving authored field order.
func promoteAnchor(t *Tuple) (*Anchor, bool) {
	if len(t.Entries) == 0 {
		return nil, false
	}

	anchor := &Anchor{Dims: make(map[string]AnchorDim, len(t.Entries))}

	for _, entry := range t.Entries {
		if entry.Spread != nil || !isAnchorField(entry.Name) {
			return nil, false
		}

		var dim AnchorDim

		switch v := entry.Value.(type) {
		case *Number:
			dim = AnchorDim{Value: v.Value}
		case *Percent:
			dim = AnchorDim{Relative: true, Value: v.Value}
		default:
			return nil, false
		}

		anchor.Dims[entry.Name] = dim
		anchor.FieldOrder = append(anchor.FieldOrder, entry.Name)
	}

	return anchor, true
}

func isAnchorField(name string) bool {
	for _, f := range anchorFields {
		if f == name {
			return true
		}
	}

	return false
}
