package profile

// Config yields the profiler settings: the profiling mode, the directory
// profile files are written to, and whether the profiler's own logging is
// suppressed. An empty mode disables profiling, which is how uidsl runs
// unless a mode flag selects one.
type Config func() (mode, path string, quiet bool)

// Start launches the configured profiler. Without the pprof build tag, or
// with no mode selected, the returned Stop is a no-op; callers defer it
// unconditionally.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// set rebuilds a Config with some of its settings replaced.
func set(c Config, f func(mode, path string, quiet bool) (string, string, bool)) Config {
	return func() (string, string, bool) {
		return f(c())
	}
}

// WithMode returns a functional option selecting the profiling mode. See
// [Modes] for the valid names.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		return set(c, func(_, path string, quiet bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

// WithPath returns a functional option setting the profile output
// directory.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		return set(c, func(mode, _ string, quiet bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

// WithQuiet returns a functional option suppressing the profiler's own
// log output.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		return set(c, func(mode, path string, _ bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

// ignore satisfies the Start contract when profiling is unavailable or
// disabled.
type ignore struct{}

func (ignore) Stop() {}
