package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/hyve-ide/uidsl/dsl"
	"github.com/hyve-ide/uidsl/log"
	"github.com/hyve-ide/uidsl/profile"
)

// defaultConfigIndent is the indent width used when generating the
// configuration file.
const defaultConfigIndent = 4

// Init generates a configuration file in uidsl syntax from current flag
// values, so the generated file is itself a valid document for the
// pipeline.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	doc := i.buildDocument(ctx)

	err = doc.Export(ctx, file, dsl.WithIndent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildDocument constructs the config document from current flag values.
// Each flag becomes a top-level style declaration with hyphens spelled as
// underscores.
func (i *Init) buildDocument(ctx context.Context) *dsl.Document {
	ktx := kongContextFrom(ctx)

	doc := &dsl.Document{
		Root:          &dsl.Element{Type: "Root"},
		SyntheticRoot: true,
	}

	prefixIgnore := []string{"help", "version", "force", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		doc.Styles = append(doc.Styles, &dsl.StyleDefinition{
			Name:  strings.ReplaceAll(flag.Name, "-", "_"),
			Kind:  dsl.ValueStyle,
			Value: value,
		})
	}

	return doc
}

// flagValue maps a kong flag value to a DSL literal, or reports that the
// flag should be omitted.
func flagValue(val any) (dsl.Value, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case bool:
		return &dsl.Boolean{Value: v}, true
	case string:
		if v == "" {
			return nil, false
		}

		return &dsl.Text{Value: v, Quoted: true}, true
	case int:
		return &dsl.Number{Value: float64(v)}, true
	case int64:
		return &dsl.Number{Value: float64(v)}, true
	case uint64:
		return &dsl.Number{Value: float64(v)}, true
	case float32:
		return &dsl.Number{Value: float64(v)}, true
	case float64:
		return &dsl.Number{Value: v}, true
	case []string:
		if len(v) == 0 {
			return nil, false
		}

		items := make([]dsl.Value, len(v))
		for i, s := range v {
			items[i] = &dsl.Text{Value: s, Quoted: true}
		}

		return &dsl.List{Items: items}, true
	default:
		return nil, false
	}
}
