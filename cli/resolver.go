package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/hyve-ide/uidsl/dsl"
)

// resolve returns a [kong.ConfigurationLoader] that reads configuration
// files written in uidsl syntax. Top-level style declarations become flag
// values; flag names with hyphens use underscores in the config file,
// since hyphens are not valid identifier characters:
//
//	@log_level = "debug";
//	@log_format = "text";
//	@log_pretty = true;
//
// Command-line flags override config file values. A config file that does
// not exist or does not parse yields an empty configuration rather than an
// error, matching kong's treatment of missing JSON configs.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := dsl.Parse(ctx, r)
		if err != nil {
			return config{}, nil
		}

		values := make(config)

		for _, s := range doc.Styles {
			if s.Kind != dsl.ValueStyle {
				continue
			}

			if v, ok := nativeFlagValue(s.Value); ok {
				values[s.Name] = v
			}
		}

		return values, nil
	}
}

// config implements [kong.Resolver] for uidsl config files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// nativeFlagValue maps a scalar DSL value to a kong flag value. Numbers
// are rendered as strings because kong re-parses them per flag type.
func nativeFlagValue(v dsl.Value) (any, bool) {
	switch v := v.(type) {
	case *dsl.Text:
		return v.Value, true
	case *dsl.Boolean:
		return v.Value, true
	case *dsl.Number:
		return strconv.FormatFloat(v.Value, 'f', -1, 64), true
	case *dsl.Percent:
		return strconv.FormatFloat(v.Value, 'f', -1, 64) + "%", true
	default:
		return nil, false
	}
}
