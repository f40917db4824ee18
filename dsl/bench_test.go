package dsl

import (
	"context"
	"strings"
	"testing"
)

// benchDocument is a representative screen: styles, a template, variables,
// expressions, and a few levels of nesting.
const benchDocument = `@gap = 8;
@accent = #ff8800;
@Card = Panel {
    Width: @gap * 30;
    Label #title {
        Text: "untitled";
        FontSize: 14;
    }
}

Window #main {
    Anchor: (Left: 0, Top: 0, Width: 100%, Height: 100%);
    Panel #sidebar {
        Width: @gap * 25;
        Color: @accent;
        Button #open {
            Text: "Open";
        }
        Button #save {
            Text: "Save";
        }
    }
    @Card #detail {
        #title {
            Text: "Details";
        }
    }
}`

func BenchmarkParse(b *testing.B) {
	ctx := context.Background()

	b.ReportAllocs()

	for b.Loop() {
		if _, err := ParseString(ctx, benchDocument); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExport(b *testing.B) {
	ctx := context.Background()

	doc, err := ParseString(ctx, benchDocument)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := ExportString(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	ctx := context.Background()

	doc, err := ParseString(ctx, benchDocument)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := Resolve(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	ctx := context.Background()

	b.ReportAllocs()

	for b.Loop() {
		doc, err := ParseString(ctx, benchDocument)
		if err != nil {
			b.Fatal(err)
		}

		out, err := ExportString(ctx, doc)
		if err != nil {
			b.Fatal(err)
		}

		if !strings.Contains(out, "#main") {
			b.Fatal("export lost the root element")
		}
	}
}
