package dsl

import (
	"testing"
)

func TestElement_PropertyEditing(t *testing.T) {
	el := &Element{Type: "Panel"}

	el.SetProperty("Width", &Number{Value: 100})
	el.SetProperty("Height", &Number{Value: 40})
	el.SetProperty("Width", &Number{Value: 200})

	if len(el.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(el.Properties))
	}

	if el.Properties[0].Name != "Width" {
		t.Errorf("replace must keep ordering, got %q first", el.Properties[0].Name)
	}

	if v, _ := el.Property("Width"); !ValueEqual(v, &Number{Value: 200}) {
		t.Errorf("Width = %s, want 200", FormatValue(v))
	}

	if !el.RemoveProperty("Width") {
		t.Error("RemoveProperty returned false for an existing property")
	}

	if el.RemoveProperty("Width") {
		t.Error("RemoveProperty returned true for a removed property")
	}

	if _, ok := el.Property("Width"); ok {
		t.Error("Width still present after removal")
	}
}

func TestElement_ChildEditing(t *testing.T) {
	el := &Element{Type: "Panel"}
	a := &Element{Type: "Label", ID: "a"}
	b := &Element{Type: "Label", ID: "b"}
	c := &Element{Type: "Label", ID: "c"}

	el.InsertChild(0, a)
	el.InsertChild(99, c) // clamps to the end
	el.InsertChild(1, b)

	ids := func() []string {
		out := make([]string, len(el.Children))
		for i, child := range el.Children {
			out[i] = child.ID
		}

		return out
	}

	if got := ids(); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("children = %v, want [a b c]", got)
	}

	if !el.RemoveChild(1) {
		t.Error("RemoveChild returned false for a valid index")
	}

	if el.RemoveChild(5) {
		t.Error("RemoveChild returned true for an invalid index")
	}

	if got := ids(); len(got) != 2 || got[1] != "c" {
		t.Errorf("children = %v, want [a c]", got)
	}

	if !el.ReplaceChild(0, b) {
		t.Error("ReplaceChild returned false for a valid index")
	}

	if el.Children[0].ID != "b" {
		t.Errorf("first child = %q, want b", el.Children[0].ID)
	}
}

func TestElement_CommentShifting(t *testing.T) {
	el := &Element{
		Type: "Panel",
		Children: []*Element{
			{Type: "Label", ID: "a"},
			{Type: "Label", ID: "b"},
		},
		Comments: []Comment{
			{Anchor: AnchorBeforeChild, Index: 1, Text: " before b"},
		},
	}

	el.InsertChild(0, &Element{Type: "Label", ID: "new"})

	if el.Comments[0].Index != 2 {
		t.Errorf("comment index = %d, want 2 after insertion", el.Comments[0].Index)
	}

	el.RemoveChild(0)

	if el.Comments[0].Index != 1 {
		t.Errorf("comment index = %d, want 1 after removal", el.Comments[0].Index)
	}
}

func TestElement_Detach(t *testing.T) {
	el := &Element{
		Type:        "Panel",
		StylePrefix: "@Card",
		TemplateRef: &StyleRef{Name: "Card"},
	}

	el.Detach()

	if el.StylePrefix != "" || el.TemplateRef != nil {
		t.Error("Detach must clear the template association")
	}
}

func TestElement_CloneIsolation(t *testing.T) {
	doc := mustParse(t, `Panel #p {
    Width: 100;
    Pad: (Left: 1);
    Label #l {
        Text: "x";
    }
}`)

	clone := doc.Root.Clone()

	clone.SetProperty("Width", &Number{Value: 999})
	clone.Children[0].SetProperty("Text", &Text{Value: "changed", Quoted: true})

	if tuple, _ := clone.Property("Pad"); tuple != nil {
		tuple.(*Tuple).Entries[0].Value = &Number{Value: 42}
	}

	if v, _ := doc.Root.Property("Width"); !ValueEqual(v, &Number{Value: 100}) {
		t.Errorf("clone edit leaked into the original: Width = %s", FormatValue(v))
	}

	if v, _ := doc.Root.Children[0].Property("Text"); !ValueEqual(v, &Text{Value: "x", Quoted: true}) {
		t.Errorf("clone edit leaked into a child: Text = %s", FormatValue(v))
	}

	if v, _ := doc.Root.Property("Pad"); v != nil {
		if inner, _ := v.(*Tuple).Field("Left"); !ValueEqual(inner, &Number{Value: 1}) {
			t.Errorf("clone edit leaked into a nested value: %s", FormatValue(v))
		}
	}
}

func TestElementEqual(t *testing.T) {
	base := func() *Element {
		return mustParse(t, `Panel #p {
    Width: 100;
    Label #l {}
}`).Root
	}

	t.Run("equal trees", func(t *testing.T) {
		if !ElementEqual(base(), base()) {
			t.Error("identical parses must compare equal")
		}
	})

	t.Run("property value differs", func(t *testing.T) {
		other := base()
		other.SetProperty("Width", &Number{Value: 1})

		if ElementEqual(base(), other) {
			t.Error("differing property values must compare unequal")
		}
	})

	t.Run("child differs", func(t *testing.T) {
		other := base()
		other.Children[0].ID = "renamed"

		if ElementEqual(base(), other) {
			t.Error("differing children must compare unequal")
		}
	})

	t.Run("comments are ignored", func(t *testing.T) {
		other := base()
		other.Comments = append(other.Comments, Comment{Text: " note"})

		if !ElementEqual(base(), other) {
			t.Error("comment bookkeeping must not affect equality")
		}
	})
}

func TestDocument_Lookups(t *testing.T) {
	doc := mustParse(t, `$A = "a.ui";
@Gap = 8;
Panel #p {}`)

	if path, ok := doc.ImportPath("A"); !ok || path != "a.ui" {
		t.Errorf("ImportPath(A) = %q, %v", path, ok)
	}

	if _, ok := doc.ImportPath("B"); ok {
		t.Error("ImportPath(B) should not resolve")
	}

	if s, ok := doc.Style("Gap"); !ok || s.Kind != ValueStyle {
		t.Errorf("Style(Gap) = %+v, %v", s, ok)
	}

	if _, ok := doc.Style("Nope"); ok {
		t.Error("Style(Nope) should not resolve")
	}
}
