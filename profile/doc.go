// Package profile provides optional runtime profiling for the uidsl
// command.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// When built without the tag (the default), all operations are no-ops
// with zero runtime overhead.
//
// # Usage
//
//	var cfg profile.Config = func() (string, string, bool) {
//		return "cpu", "/tmp/profiles", true
//	}
//	defer cfg.Start().Stop()
//
// Profile files are written to the configured directory with names
// matching the profiling mode (cpu.pprof, mem.pprof, ...). Use [Modes]
// for the list of supported modes; analyze results with:
//
//	go tool pprof <binary> /tmp/profiles/cpu.pprof
//
// The uidsl command exposes this through --pprof-mode and --pprof-dir
// when built with:
//
//	go build -tags pprof .
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
