package cmd

import (
	"strconv"

	"github.com/hyve-ide/uidsl/dsl"
)

// documentNative converts a document to plain maps and slices for JSON or
// YAML encoding. Reference-shaped values render as their DSL spelling, so
// an unresolved tree stays readable in the dump.
func documentNative(doc *dsl.Document) map[string]any {
	out := make(map[string]any)

	if len(doc.Imports) > 0 {
		imports := make(map[string]any, len(doc.Imports))
		for _, imp := range doc.Imports {
			imports[imp.Alias] = imp.Path
		}

		out["imports"] = imports
	}

	if len(doc.Styles) > 0 {
		styles := make(map[string]any, len(doc.Styles))
		for _, s := range doc.Styles {
			styles[s.Name] = styleNative(s)
		}

		out["styles"] = styles
	}

	if doc.Root != nil {
		out["root"] = elementNative(doc.Root)
	}

	return out
}

func styleNative(s *dsl.StyleDefinition) any {
	switch s.Kind {
	case dsl.ElementStyle:
		return elementNative(s.Element)
	case dsl.TupleStyle, dsl.TypeConstructorStyle:
		return valueNative(s.Tuple)
	default:
		return valueNative(s.Value)
	}
}

// elementNative converts an element subtree.
func elementNative(el *dsl.Element) map[string]any {
	out := make(map[string]any)

	if el.Type != "" {
		out["type"] = el.Type
	}

	if el.ID != "" {
		out["id"] = el.ID
	}

	if el.StylePrefix != "" {
		out["style"] = el.StylePrefix
	}

	if len(el.Properties) > 0 {
		props := make(map[string]any, len(el.Properties))
		for _, p := range el.Properties {
			props[p.Name] = valueNative(p.Value)
		}

		out["properties"] = props
	}

	if len(el.Children) > 0 {
		children := make([]any, len(el.Children))
		for i, child := range el.Children {
			children[i] = elementNative(child)
		}

		out["children"] = children
	}

	return out
}

// valueNative converts a property value. Scalars map to native Go types;
// everything reference-shaped falls back to its DSL spelling.
func valueNative(v dsl.Value) any {
	switch v := v.(type) {
	case *dsl.Text:
		return v.Value
	case *dsl.Number:
		return v.Value
	case *dsl.Boolean:
		return v.Value
	case *dsl.Percent:
		return strconv.FormatFloat(v.Value, 'f', -1, 64) + "%"
	case *dsl.Color:
		return "#" + v.Digits
	case *dsl.ImagePath:
		return v.Path
	case *dsl.FontPath:
		return v.Path
	case *dsl.Null:
		return nil
	case *dsl.List:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = valueNative(item)
		}

		return items
	case *dsl.Tuple:
		fields := make(map[string]any, len(v.Entries))

		for i, entry := range v.Entries {
			if entry.Spread != nil {
				fields["..."+strconv.Itoa(i)] = dsl.FormatValue(entry.Spread)

				continue
			}

			fields[entry.Name] = valueNative(entry.Value)
		}

		return fields
	case *dsl.Anchor:
		dims := make(map[string]any, len(v.FieldOrder))

		for _, name := range v.FieldOrder {
			dim, _ := v.Dim(name)
			if dim.Relative {
				dims[name] = strconv.FormatFloat(dim.Value, 'f', -1, 64) + "%"
			} else {
				dims[name] = dim.Value
			}
		}

		return dims
	default:
		return dsl.FormatValue(v)
	}
}
