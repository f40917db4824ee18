// Package cli contains the command line interface for uidsl.
//
// # Commands
//
//   - fmt:     parse and re-emit documents in native, JSON, or YAML form
//   - resolve: run the full pipeline (imports, variables, templates) and
//     dump the resolved tree
//   - check:   round-trip a corpus of .ui files and report the pass rate
//   - init:    write a starter configuration file from current flag values
//
// # Configuration
//
// Flags may be preset in a configuration file, either JSON or uidsl syntax
// (style declarations whose names match flag names, with hyphens written
// as underscores):
//
//	@log_level = "debug";
//	@log_format = "text";
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp format (RFC3339, RFC3339Nano, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorized text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (cpu, heap, allocs, trace, ...)
//   - --pprof-dir: profile output directory
package cli
