package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/hyve-ide/uidsl/dsl"
)

// Fmt parses documents and re-emits them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// Native formats documents as canonical DSL syntax. The output of a
// formatted document re-formats to itself.
type Native struct {
	Indent int  `default:"4" help:"Indent width for formatted output" short:"i"`
	Write  bool `            help:"Write result back to source files"  short:"w"`

	Sources []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"sources"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) error {
	sources, err := openSources(f.Sources)
	if err != nil {
		return err
	}

	for _, src := range sources {
		err := f.format(ctx, src)
		_ = src.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

func (f *Native) format(ctx context.Context, src *source) error {
	doc, err := dsl.Parse(ctx, bufio.NewReader(src))
	if err != nil {
		return err
	}

	if !f.Write || src.Name == stdinSource {
		return doc.Export(ctx, os.Stdout, dsl.WithIndent(f.Indent))
	}

	out, err := dsl.ExportString(ctx, doc, dsl.WithIndent(f.Indent))
	if err != nil {
		return err
	}

	err = os.WriteFile(src.Name, []byte(out), 0o644)
	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("file", src.Name))
	}

	return nil
}

// JSON parses a document and outputs its structure as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	doc, err := parseSource(ctx, j.Source)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", indentString(j.Indent))

	if err := enc.Encode(documentNative(doc)); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML parses a document and outputs its structure as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	doc, err := parseSource(ctx, y.Source)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout, yaml.Indent(y.Indent))
	defer enc.Close()

	if err := enc.Encode(documentNative(doc)); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// parseSource parses one document from a file path or stdin.
func parseSource(ctx context.Context, path string) (*dsl.Document, error) {
	if path == stdinSource {
		return dsl.Parse(ctx, bufio.NewReader(os.Stdin))
	}

	return dsl.ParseFile(ctx, path)
}

func indentString(width int) string {
	if width < 0 {
		width = 0
	}

	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}

	return string(out)
}
