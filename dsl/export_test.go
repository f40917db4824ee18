package dsl

import (
	"context"
	"errors"
	"testing"
)

// exportOf parses src and returns its canonical export.
func exportOf(t *testing.T, src string) string {
	t.Helper()

	out, err := ExportString(context.Background(), mustParse(t, src))
	if err != nil {
		t.Fatalf("export error: %v", err)
	}

	return out
}

func TestExport_Canonical(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "full document",
			src: `$A = "lib.ui";

@Accent = #ff0000;

Button #ok {
    Text: "OK";
}
`,
		},
		{
			name: "empty body",
			src: `Button #a {}
`,
		},
		{
			name: "comments",
			src: `// header
Button #ok {
    // label
    Text: "OK";
}
`,
		},
		{
			name: "nested children",
			src: `Panel #outer {
    Width: 100;
    Panel #inner {
        Height: 25%;
        Label #text {}
    }
}
`,
		},
		{
			name: "override and instantiation",
			src: `@Card = Panel {
    Width: 100;
}

@Card #main {
    #title {
        Text: "hi";
    }
}
`,
		},
		{
			name: "synthetic root",
			src: `Panel #a {}

Panel #b {}
`,
		},
		{
			name: "unknown value",
			src: `Panel #p {
    Border: 12px solid;
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportOf(t, tt.src); got != tt.src {
				t.Errorf("export changed canonical source\ngot:\n%s\nwant:\n%s", got, tt.src)
			}
		})
	}
}

func TestExport_Stabilizes(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"compact spacing", `Panel#p{X:1;Y:2%;}`},
		{"extra whitespace", "Panel   #p  {\n\n\tX :  1 ;\n}"},
		{"style soup", `@a=1;@b=(x:2);Panel#p{X:@a;}`},
		{"list and tuple", `Panel #p { Tags: ["a", "b"]; Pad: (Left: 1, Right: 2); }`},
		{"expression", `Panel #p { X: 1 + 2 * 3; Y: (1 + 2) * 3; }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out1 := exportOf(t, tt.src)
			out2 := exportOf(t, out1)

			if out1 != out2 {
				t.Errorf("export not stable\nfirst:\n%s\nsecond:\n%s", out1, out2)
			}
		})
	}
}

func TestExport_ImportPreamble(t *testing.T) {
	got := exportOf(t, `$B = "b.ui";
$A = "a.ui";
$B = "dup.ui";
Panel #p {}`)

	want := `$A = "a.ui";
$B = "b.ui";

Panel #p {}
`

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExport_Indent(t *testing.T) {
	doc := mustParse(t, `Panel #p { X: 1; }`)

	got, err := ExportString(context.Background(), doc, WithIndent(2))
	if err != nil {
		t.Fatalf("export error: %v", err)
	}

	want := `Panel #p {
  X: 1;
}
`

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExport_InvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"nil root", &Document{}},
		{
			"unnamed style",
			&Document{
				Root:   &Element{Type: "Root"},
				Styles: []*StyleDefinition{{Kind: ValueStyle, Value: &Null{}}},
			},
		},
		{
			"style without value",
			&Document{
				Root:   &Element{Type: "Root"},
				Styles: []*StyleDefinition{{Name: "a", Kind: ValueStyle}},
			},
		},
		{
			"anonymous element",
			&Document{Root: &Element{Type: "Root", Children: []*Element{{}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExportString(context.Background(), tt.doc)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"integral number", &Number{Value: 12}, "12"},
		{"decimal number", &Number{Value: 1.5}, "1.5"},
		{"percent", &Percent{Value: -10}, "-10%"},
		{"quoted text", &Text{Value: "a b", Quoted: true}, `"a b"`},
		{"bare text", &Text{Value: "Center"}, "Center"},
		{"color", &Color{Digits: "fa0"}, "#fa0"},
		{"image path", &ImagePath{Path: "bg.png"}, `"bg.png"`},
		{"localized", &LocalizedText{Key: "k"}, "%k%"},
		{"null", &Null{}, "null"},
		{"unknown", &Unknown{Raw: "12px solid"}, "12px solid"},
		{
			"variable ref",
			&VariableRef{Path: []string{"theme", "fg"}},
			"@theme.fg",
		},
		{
			"imported ref",
			&VariableRef{Alias: "Lib", Path: []string{"accent"}},
			"$Lib.@accent",
		},
		{
			"anchor",
			&Anchor{
				Dims: map[string]AnchorDim{
					"Left": {Value: 10},
					"Top":  {Relative: true, Value: 25},
				},
				FieldOrder: []string{"Left", "Top"},
			},
			"(Left: 10, Top: 25%)",
		},
		{
			"tuple with spread",
			&Tuple{Entries: []TupleEntry{
				{Spread: &VariableRef{Path: []string{"base"}}},
				{Name: "Width", Value: &Number{Value: 1}},
			}},
			"(...@base, Width: 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatValue_ExpressionParens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"natural precedence", `1 + 2 * 3`, "1 + 2 * 3"},
		{"grouped left", `(1 + 2) * 3`, "(1 + 2) * 3"},
		{"grouped right equal precedence", `1 - (2 - 3)`, "1 - (2 - 3)"},
		{"grouped right division", `12 / (4 / 2)`, "12 / (4 / 2)"},
		{"left chain needs no parens", `10 - 4 - 3`, "10 - 4 - 3"},
		{"redundant parens drop", `(1 * 2) + 3`, "1 * 2 + 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.src)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got := FormatValue(v)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			// The rendering must re-parse to the identical tree.
			back, err := ParseValue(got)
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}

			if !ValueEqual(v, back) {
				t.Errorf("rendering %q reassociated the expression", got)
			}
		})
	}
}
