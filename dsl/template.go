package dsl

import (
	"context"
	"log/slog"
)

// expand replaces a template instantiation site with a copy of the template
// body, merged with the instance's overrides. The instance keeps its
// authored reference syntax in StylePrefix so export round-trips, but the
// expanded tree is a plain element otherwise.
//
// The returned release func marks the template as no longer expanding; the
// caller holds it until the expanded subtree is fully resolved, so a
// template that instantiates itself is caught at any depth. It is nil when
// no expansion took place.
func (r *resolver) expand(ctx context.Context, el *Element, scope *Scope) (*Element, func()) {
	ref := el.TemplateRef

	target := scope
	if ref.Alias != "" {
		sub, ok := scope.Import(ref.Alias)
		if !ok {
			r.warn(Warning{
				Code:        WarnUndefinedAlias,
				Name:        ref.Alias,
				Element:     el.displayName(),
				Suggestions: suggest(ref.Alias, scope.AliasNames()),
			})

			return el, nil
		}

		target = sub
	}

	def, ok := target.Template(ref.Name)
	if !ok {
		r.warn(Warning{
			Code:        WarnTemplateNotFound,
			Name:        ref.Name,
			Element:     el.displayName(),
			Suggestions: suggest(ref.Name, templateNames(target)),
		})

		return el, nil
	}

	if r.expanding[def] {
		r.warn(Warning{
			Code:    WarnCyclicTemplate,
			Name:    ref.Name,
			Element: el.displayName(),
		})

		return el, nil
	}

	r.expanding[def] = true

	r.opts.logger.TraceContext(ctx, "template expanded",
		slog.String("template", ref.Name),
		slog.String("element", el.displayName()),
	)

	out := def.Element.Clone()
	out.StylePrefix = el.StylePrefix
	out.TemplateRef = nil

	if el.ID != "" {
		out.ID = el.ID
	}

	// Instance-scoped styles shadow the template's for this subtree.
	out.Styles = append(out.Styles, cloneStyles(el.Styles)...)

	mergeOverrides(out, el)

	return out, func() { delete(r.expanding, def) }
}

func cloneStyles(styles []*StyleDefinition) []*StyleDefinition {
	if len(styles) == 0 {
		return nil
	}

	out := make([]*StyleDefinition, len(styles))
	for i, s := range styles {
		out[i] = s.Clone()
	}

	return out
}

func templateNames(scope *Scope) []string {
	var names []string

	seen := make(map[string]bool)

	for cur := scope; cur != nil; cur = cur.parent {
		for name := range cur.templates {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names
}

// mergeOverrides writes the instance body into the expanded template copy.
// Properties overwrite by name. An id-only child block merges onto the
// template child with the same id; deeper targets take nested override
// blocks, and a block whose id matches no child is dropped. Typed children
// append after the template's own.
func mergeOverrides(target, instance *Element) {
	for _, p := range instance.Properties {
		target.SetProperty(p.Name, CloneValue(p.Value))
	}

	for _, child := range instance.Children {
		if isOverrideBlock(child) {
			if hit := childByID(target, child.ID); hit != nil {
				mergeOverrides(hit, child)
			}

			continue
		}

		target.Children = append(target.Children, child.Clone())
	}
}

// isOverrideBlock reports whether a child is a bare "#id { ... }" override
// rather than a new element.
func isOverrideBlock(el *Element) bool {
	return el.Type == "" && el.StylePrefix == "" &&
		el.TemplateRef == nil && el.ID != ""
}

// childByID returns el's direct child with the given id, if any.
func childByID(el *Element, id string) *Element {
	for _, child := range el.Children {
		if child.ID == id {
			return child
		}
	}

	return nil
}
