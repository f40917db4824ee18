package dsl

import (
	"testing"
)

func TestResolve_TemplateExpansion(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {
    Width: 100;
    Height: 40;
    Label #title {
        Text: "untitled";
    }
}
@Card #main {
    Width: 200;
}`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	root := resolved.Root

	if root.Type != "Panel" {
		t.Errorf("expanded type = %q, want %q", root.Type, "Panel")
	}

	if root.ID != "main" {
		t.Errorf("expanded id = %q, want %q", root.ID, "main")
	}

	if root.StylePrefix != "@Card" {
		t.Errorf("StylePrefix = %q, want the authored reference", root.StylePrefix)
	}

	if root.TemplateRef != nil {
		t.Errorf("TemplateRef should be cleared after expansion")
	}

	if w, _ := root.Property("Width"); !ValueEqual(w, &Number{Value: 200}) {
		t.Errorf("Width = %s, want the instance override 200", FormatValue(w))
	}

	if h, _ := root.Property("Height"); !ValueEqual(h, &Number{Value: 40}) {
		t.Errorf("Height = %s, want the template value 40", FormatValue(h))
	}

	if len(root.Children) != 1 || root.Children[0].ID != "title" {
		t.Fatalf("template children missing: %+v", root.Children)
	}
}

func TestResolve_TemplateOverrideBlocks(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {
    Label #title {
        Text: "untitled";
        FontSize: 12;
    }
    Label #body {}
}
@Card #main {
    #title {
        Text: "hello";
    }
    #nothere {
        Text: "dropped";
    }
    Button #extra {}
}`)

	root := resolved.Root

	if len(root.Children) != 3 {
		t.Fatalf("expected title, body, extra; got %d children", len(root.Children))
	}

	title := root.Children[0]
	if v, _ := title.Property("Text"); !ValueEqual(v, &Text{Value: "hello", Quoted: true}) {
		t.Errorf("title Text = %s, want the override", FormatValue(v))
	}

	if v, _ := title.Property("FontSize"); !ValueEqual(v, &Number{Value: 12}) {
		t.Errorf("title FontSize = %s, want the template value", FormatValue(v))
	}

	if root.Children[1].ID != "body" {
		t.Errorf("second child = %q, want body", root.Children[1].ID)
	}

	extra := root.Children[2]
	if extra.Type != "Button" || extra.ID != "extra" {
		t.Errorf("typed instance child must append: %+v", extra)
	}

	for _, child := range root.Children {
		if child.ID == "nothere" {
			t.Error("unmatched override block must be dropped")
		}
	}
}

func TestResolve_TemplateNestedOverride(t *testing.T) {
	// Override blocks match direct template children only; deeper targets
	// take nested blocks, and a block naming a grandchild from the top
	// level is dropped like any other unmatched id.
	resolved := mustResolve(t, `@Card = Panel {
    Panel #header {
        Label #title {
            Text: "untitled";
        }
        Label #subtitle {
            Text: "none";
        }
    }
}
@Card #main {
    #header {
        #title {
            Text: "nested";
        }
    }
    #subtitle {
        Text: "ignored";
    }
}`)

	header := resolved.Root.Children[0]

	title := header.Children[0]
	if v, _ := title.Property("Text"); !ValueEqual(v, &Text{Value: "nested", Quoted: true}) {
		t.Errorf("title Text = %s, want the nested override", FormatValue(v))
	}

	subtitle := header.Children[1]
	if v, _ := subtitle.Property("Text"); !ValueEqual(v, &Text{Value: "none", Quoted: true}) {
		t.Errorf("subtitle Text = %s, want the template default", FormatValue(v))
	}
}

func TestResolve_TemplateUsesDefiningScope(t *testing.T) {
	resolved := mustResolve(t, `@pad = 16;
@Card = Panel {
    Width: @pad * 2;
}
@Card #main {}`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	if v, _ := resolved.Root.Property("Width"); !ValueEqual(v, &Number{Value: 32}) {
		t.Errorf("Width = %s, want 32 from the defining scope", FormatValue(v))
	}
}

func TestResolve_TemplateNesting(t *testing.T) {
	resolved := mustResolve(t, `@Inner = Label {
    Text: "x";
}
@Outer = Panel {
    @Inner #content {}
}
@Outer #main {}`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	content := resolved.Root.Children[0]
	if content.Type != "Label" || content.ID != "content" {
		t.Fatalf("nested template did not expand: %+v", content)
	}

	if v, _ := content.Property("Text"); !ValueEqual(v, &Text{Value: "x", Quoted: true}) {
		t.Errorf("Text = %s", FormatValue(v))
	}
}

func TestResolve_TemplateNotFound(t *testing.T) {
	resolved := mustResolve(t, `@Missing #x {}`)

	if !hasWarning(resolved.Warnings, WarnTemplateNotFound) {
		t.Fatalf("expected template-not-found warning, got %v", resolved.Warnings)
	}

	// The site survives unexpanded.
	if resolved.Root.TemplateRef == nil {
		t.Error("instantiation site must keep its reference")
	}
}

func TestResolve_TemplateNotFoundSuggests(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {}
@Cad #x {}`)

	var found bool

	for _, w := range resolved.Warnings {
		if w.Code == WarnTemplateNotFound {
			for _, s := range w.Suggestions {
				if s == "Card" {
					found = true
				}
			}
		}
	}

	if !found {
		t.Errorf("expected Card suggestion, got %v", resolved.Warnings)
	}
}

func TestResolve_TemplateCycle(t *testing.T) {
	resolved := mustResolve(t, `@A = Panel {
    @A #inner {}
}
@A #main {}`)

	if !hasWarning(resolved.Warnings, WarnCyclicTemplate) {
		t.Errorf("expected cyclic-template warning, got %v", resolved.Warnings)
	}
}

func TestResolve_TemplateMutualCycle(t *testing.T) {
	resolved := mustResolve(t, `@A = Panel {
    @B #b {}
}
@B = Panel {
    @A #a {}
}
@A #main {}`)

	if !hasWarning(resolved.Warnings, WarnCyclicTemplate) {
		t.Errorf("expected cyclic-template warning, got %v", resolved.Warnings)
	}
}

func TestResolve_TemplateInstanceStyles(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {
    Label #title {
        FontSize: @size;
    }
}
@Card #main {
    @size = 18;
}`)

	if len(resolved.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resolved.Warnings)
	}

	title := resolved.Root.Children[0]
	if v, _ := title.Property("FontSize"); !ValueEqual(v, &Number{Value: 18}) {
		t.Errorf("FontSize = %s, want the instance-scoped 18", FormatValue(v))
	}
}

func TestMergeOverrides_IsolatesInstances(t *testing.T) {
	resolved := mustResolve(t, `@Card = Panel {
    Label #title {
        Text: "untitled";
    }
}
Root #all {
    @Card #a {
        #title {
            Text: "first";
        }
    }
    @Card #b {}
}`)

	a := resolved.Root.Children[0].Children[0]
	b := resolved.Root.Children[1].Children[0]

	if v, _ := a.Property("Text"); !ValueEqual(v, &Text{Value: "first", Quoted: true}) {
		t.Errorf("first instance Text = %s", FormatValue(v))
	}

	if v, _ := b.Property("Text"); !ValueEqual(v, &Text{Value: "untitled", Quoted: true}) {
		t.Errorf("second instance must keep the template default, got %s", FormatValue(v))
	}
}
