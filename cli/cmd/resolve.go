package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/hyve-ide/uidsl/dsl"
	"github.com/hyve-ide/uidsl/log"
)

// Resolve runs the full pipeline over a document and dumps the resolved
// element tree. Resolution warnings are logged, never fatal.
type Resolve struct {
	Format     string   `default:"yaml" enum:"yaml,json" help:"Output format" short:"o"`
	Indent     int      `default:"2"                     help:"Indent width for output" short:"i"`
	SearchPath []string `                                help:"Fallback import directories, in order" name:"search-path" short:"I" type:"existingdir"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context) error {
	doc, err := parseSource(ctx, r.Source)
	if err != nil {
		return err
	}

	resolved, err := dsl.Resolve(ctx, doc,
		dsl.WithSearchPaths(r.SearchPath...),
		dsl.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	for _, w := range resolved.Warnings {
		log.WarnContext(ctx, "unresolved", slog.Any("warning", w))
	}

	native := elementNative(resolved.Root)

	switch r.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", indentString(r.Indent))

		if err := enc.Encode(native); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	default:
		enc := yaml.NewEncoder(os.Stdout, yaml.Indent(r.Indent))
		defer enc.Close()

		if err := enc.Encode(native); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	return nil
}
