package dsl

import (
	"context"
	"slices"
	"testing"
)

func mustResolve(t *testing.T, src string, opts ...Option) *ResolvedDocument {
	t.Helper()

	resolved, err := Resolve(context.Background(), mustParse(t, src), opts...)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	return resolved
}

func hasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}

	return false
}

func rootProperty(t *testing.T, resolved *ResolvedDocument, name string) Value {
	t.Helper()

	v, ok := resolved.Root.Property(name)
	if !ok {
		t.Fatalf("property %q not found on resolved root", name)
	}

	return v
}

func TestResolve_Variables(t *testing.T) {
	tests := []struct {
		name string
		src  string
		prop string
		want Value
	}{
		{
			name: "direct reference",
			src:  `@gap = 8; Panel #p { X: @gap; }`,
			prop: "X",
			want: &Number{Value: 8},
		},
		{
			name: "forward reference",
			src:  `@a = @b; @b = 4; Panel #p { X: @a; }`,
			prop: "X",
			want: &Number{Value: 4},
		},
		{
			name: "dotted path into tuple",
			src:  `@theme = (primary: #ff0000, pad: 4); Panel #p { Color: @theme.primary; }`,
			prop: "Color",
			want: &Color{Digits: "ff0000"},
		},
		{
			name: "arithmetic over variables",
			src:  `@gap = 4; Panel #p { X: @gap * 2 + 1; }`,
			prop: "X",
			want: &Number{Value: 9},
		},
		{
			name: "reference inside list",
			src:  `@a = 1; Panel #p { Tags: [@a, 2]; }`,
			prop: "Tags",
			want: &List{Items: []Value{&Number{Value: 1}, &Number{Value: 2}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := mustResolve(t, tt.src)

			if len(resolved.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", resolved.Warnings)
			}

			got := rootProperty(t, resolved, tt.prop)
			if !ValueEqual(got, tt.want) {
				t.Errorf("got %s, want %s", FormatValue(got), FormatValue(tt.want))
			}
		})
	}
}

func TestResolve_Warnings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code WarningCode
	}{
		{
			name: "undefined variable",
			src:  `Panel #p { X: @missing; }`,
			code: WarnUndefinedVariable,
		},
		{
			name: "undefined alias",
			src:  `Panel #p { X: $Nope.@v; }`,
			code: WarnUndefinedAlias,
		},
		{
			name: "variable cycle",
			src:  `@a = @b; @b = @a; Panel #p { X: @a; }`,
			code: WarnCyclicVariable,
		},
		{
			name: "missing tuple field",
			src:  `@theme = (fg: #fff); Panel #p { X: @theme.bg; }`,
			code: WarnUndefinedVariable,
		},
		{
			name: "division by zero",
			src:  `Panel #p { X: 1 / 0; }`,
			code: WarnDivisionByZero,
		},
		{
			name: "non-numeric operand",
			src:  `Panel #p { X: "a" + 1; }`,
			code: WarnNonNumericOperand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := mustResolve(t, tt.src)

			if !hasWarning(resolved.Warnings, tt.code) {
				t.Errorf("expected %v warning, got %v", tt.code, resolved.Warnings)
			}
		})
	}
}

func TestResolve_UnresolvedValueSurvives(t *testing.T) {
	resolved := mustResolve(t, `Panel #p { X: @missing; }`)

	v := rootProperty(t, resolved, "X")
	if ref, ok := v.(*VariableRef); !ok || ref.Name() != "missing" {
		t.Errorf("value = %s, want the original reference", FormatValue(v))
	}
}

func TestResolve_UnresolvedOperandStaysQuiet(t *testing.T) {
	resolved := mustResolve(t, `Panel #p { X: @missing + 1; }`)

	if !hasWarning(resolved.Warnings, WarnUndefinedVariable) {
		t.Fatalf("expected undefined-variable warning, got %v", resolved.Warnings)
	}

	// The expression itself must not pile a second warning on top.
	if hasWarning(resolved.Warnings, WarnNonNumericOperand) {
		t.Errorf("unexpected non-numeric-operand warning: %v", resolved.Warnings)
	}

	if _, ok := rootProperty(t, resolved, "X").(*Expression); !ok {
		t.Errorf("expression should stay unresolved")
	}
}

func TestResolve_Suggestions(t *testing.T) {
	resolved := mustResolve(t, `@width = 10; Panel #p { X: @widt; }`)

	var found bool

	for _, w := range resolved.Warnings {
		if w.Code == WarnUndefinedVariable && slices.Contains(w.Suggestions, "width") {
			found = true
		}
	}

	if !found {
		t.Errorf("expected a suggestion for width, got %v", resolved.Warnings)
	}
}

func TestResolve_AnchorPromotion(t *testing.T) {
	resolved := mustResolve(t, `Panel #p { Anchor: (Left: 10, Top: 25%, Width: 100); }`)

	anchor, ok := rootProperty(t, resolved, "Anchor").(*Anchor)
	if !ok {
		t.Fatalf("value did not promote to Anchor")
	}

	wantOrder := []string{"Left", "Top", "Width"}
	if !slices.Equal(anchor.FieldOrder, wantOrder) {
		t.Errorf("field order = %v, want %v", anchor.FieldOrder, wantOrder)
	}

	if d, _ := anchor.Dim("Left"); d.Relative || d.Value != 10 {
		t.Errorf("Left = %+v, want absolute 10", d)
	}

	if d, _ := anchor.Dim("Top"); !d.Relative || d.Value != 25 {
		t.Errorf("Top = %+v, want relative 25", d)
	}
}

func TestResolve_AnchorPromotionSkipsForeignFields(t *testing.T) {
	resolved := mustResolve(t, `Panel #p { Pad: (Left: 1, Inner: 2); }`)

	if _, ok := rootProperty(t, resolved, "Pad").(*Tuple); !ok {
		t.Errorf("tuple with a non-anchor field must stay a tuple")
	}
}

func TestResolve_SpreadMerge(t *testing.T) {
	resolved := mustResolve(t,
		`@base = (Left: 0, Top: 0); Panel #p { Anchor: (...@base, Left: 10); }`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	anchor, ok := rootProperty(t, resolved, "Anchor").(*Anchor)
	if !ok {
		t.Fatalf("merged tuple did not promote to Anchor")
	}

	if !slices.Equal(anchor.FieldOrder, []string{"Left", "Top"}) {
		t.Errorf("field order = %v, want spread order with override in place", anchor.FieldOrder)
	}

	if d, _ := anchor.Dim("Left"); d.Value != 10 {
		t.Errorf("Left = %v, want the overriding 10", d.Value)
	}
}

func TestResolve_SpreadOfAnchorBinding(t *testing.T) {
	// The binding itself resolves to an Anchor; spreading it must still
	// merge field by field instead of keeping the spread verbatim.
	resolved := mustResolve(t,
		`@base = (Left: 0, Top: 0, Width: 50%);
Panel #p { Anchor: (...@base, Top: 25%, Height: 35); }`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	anchor, ok := rootProperty(t, resolved, "Anchor").(*Anchor)
	if !ok {
		t.Fatalf("spread of an anchor binding did not merge: %s",
			FormatValue(rootProperty(t, resolved, "Anchor")))
	}

	wantOrder := []string{"Left", "Top", "Width", "Height"}
	if !slices.Equal(anchor.FieldOrder, wantOrder) {
		t.Errorf("field order = %v, want %v", anchor.FieldOrder, wantOrder)
	}

	if d, _ := anchor.Dim("Top"); !d.Relative || d.Value != 25 {
		t.Errorf("Top = %+v, want the overriding relative 25", d)
	}

	if d, _ := anchor.Dim("Width"); !d.Relative || d.Value != 50 {
		t.Errorf("Width = %+v, want relative 50 from the spread", d)
	}

	if d, _ := anchor.Dim("Height"); d.Relative || d.Value != 35 {
		t.Errorf("Height = %+v, want absolute 35", d)
	}
}

func TestResolve_SpreadOfNonTuple(t *testing.T) {
	resolved := mustResolve(t, `@n = 4; Panel #p { Pad: (...@n, Left: 1); }`)

	tuple, ok := rootProperty(t, resolved, "Pad").(*Tuple)
	if !ok {
		t.Fatalf("value should stay a tuple")
	}

	if len(tuple.Entries) != 2 || tuple.Entries[0].Spread == nil {
		t.Errorf("spread of a non-tuple must survive verbatim: %s", FormatValue(tuple))
	}
}

func TestResolve_ElementScopedStyles(t *testing.T) {
	resolved := mustResolve(t, `@v = 1;
Panel #outer {
    @v = 2;
    @local = 5;
    X: @v;
    Panel #inner {
        Y: @local;
    }
}`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	if x := rootProperty(t, resolved, "X"); !ValueEqual(x, &Number{Value: 2}) {
		t.Errorf("X = %s, want the shadowing 2", FormatValue(x))
	}

	inner := resolved.Root.Children[0]
	if y, _ := inner.Property("Y"); !ValueEqual(y, &Number{Value: 5}) {
		t.Errorf("Y = %s, want 5 from the enclosing element scope", FormatValue(y))
	}
}

func TestResolve_TemplateReferenceInValuePosition(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {}
Panel #p { X: @Card; }`)

	if len(resolved.Warnings) != 0 {
		t.Errorf("template reference must not warn: %v", resolved.Warnings)
	}

	if _, ok := rootProperty(t, resolved, "X").(*VariableRef); !ok {
		t.Errorf("template reference must pass through unresolved")
	}
}

func TestResolve_Localization(t *testing.T) {
	src := `Panel #p { Text: %greeting%; Title: %missing%; }`

	t.Run("without a locale table", func(t *testing.T) {
		resolved := mustResolve(t, src)

		if len(resolved.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", resolved.Warnings)
		}
	})

	t.Run("with a locale table", func(t *testing.T) {
		resolved := mustResolve(t, src,
			WithLocale(map[string]string{"greeting": "Hello"}))

		if !hasWarning(resolved.Warnings, WarnUnresolvedLocalization) {
			t.Fatalf("expected unresolved-localization warning, got %v", resolved.Warnings)
		}

		for _, w := range resolved.Warnings {
			if w.Code == WarnUnresolvedLocalization && w.Name != "missing" {
				t.Errorf("warning names %q, want %q", w.Name, "missing")
			}
		}
	})
}

func TestResolve_SourceUntouched(t *testing.T) {
	doc := mustParse(t, `@gap = 8; Panel #p { X: @gap; }`)

	resolved, err := Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if v, _ := doc.Root.Property("X"); v != nil {
		if _, ok := v.(*VariableRef); !ok {
			t.Errorf("source document mutated: X = %s", FormatValue(v))
		}
	}

	if v, _ := resolved.Root.Property("X"); !ValueEqual(v, &Number{Value: 8}) {
		t.Errorf("resolved X = %s, want 8", FormatValue(v))
	}
}

func TestResolve_NilDocument(t *testing.T) {
	if _, err := Resolve(context.Background(), nil); err == nil {
		t.Error("expected error for nil document")
	}

	if _, err := Resolve(context.Background(), &Document{}); err == nil {
		t.Error("expected error for document without root")
	}
}
