//go:build !pprof

package profile

// Modes returns no modes in builds without the pprof tag, which empties
// the CLI enum for the mode flag.
func Modes() []string { return nil }

// start never runs a profiler in builds without the pprof tag.
func start(string, string, bool) interface{ Stop() } { return ignore{} }
