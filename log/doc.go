// Package log provides a concurrency-safe logging interface based on
// [log/slog], extended with a Trace level for compilation pipeline
// internals (token boundaries, scope resolution, template expansion).
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("document parsed", slog.String("path", path))
//
// # Configuration
//
// Configure a logger at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a reconfigured copy, which is how CLI flags layer
// their settings over the defaults.
//
// # Default Logger
//
// The package maintains a default logger writing to os.Stderr, adjusted
// process-wide through [Config]. The zero value of [Logger] is also valid
// and discards all output, so components accept a Logger without caring
// whether the caller configured one.
//
// # Output Formats
//
// Two formats are supported: [FormatText] (default, colorized when pretty
// output is enabled and the writer is a terminal) and [FormatJSON], which
// always serializes cleanly for machine consumption.
package log
