package dsl

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPassThreshold is the corpus pass rate below which round-trip
// behavior is considered regressed. Known grammar gaps keep the bar below
// 1.0.
const DefaultPassThreshold = 0.60

// CheckResult summarizes a corpus round-trip run.
type CheckResult struct {
	Total    int
	Passed   int
	Failures []FileFailure
}

// FileFailure records one corpus file that did not round-trip.
type FileFailure struct {
	Path   string
	Reason string
	Err    error
}

// PassRate returns the fraction of files that round-tripped. An empty
// corpus counts as fully passing.
func (r *CheckResult) PassRate() float64 {
	if r.Total == 0 {
		return 1
	}

	return float64(r.Passed) / float64(r.Total)
}

// Meets reports whether the pass rate clears the given threshold.
func (r *CheckResult) Meets(threshold float64) bool {
	return r.PassRate() >= threshold
}

// CheckDir runs the round-trip harness over every .ui file under dir:
// parse, export, re-parse, re-export. A file passes when the two exports
// are byte-identical and the re-parsed tree is structurally equal to the
// first. Files that fail stay in the result; only an unreadable corpus is
// an error.
func CheckDir(ctx context.Context, dir string, opts ...Option) (*CheckResult, error) {
	o := makeOptions(opts)

	result := new(CheckResult)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ui") {
			return nil
		}

		result.Total++

		if reason, cause := checkFile(ctx, path, opts); reason != "" {
			o.logger.DebugContext(ctx, "round trip failed",
				slog.String("path", path),
				slog.String("reason", reason),
			)

			result.Failures = append(result.Failures, FileFailure{
				Path:   path,
				Reason: reason,
				Err:    cause,
			})

			return nil
		}

		result.Passed++

		return nil
	})
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("dir", dir))
	}

	o.logger.InfoContext(ctx, "corpus check complete",
		slog.Int("total", result.Total),
		slog.Int("passed", result.Passed),
		slog.Float64("rate", result.PassRate()),
	)

	return result, nil
}

// checkFile round-trips one file, returning an empty reason on success.
func checkFile(ctx context.Context, path string, opts []Option) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "read", err
	}

	first, err := ParseString(ctx, string(data), opts...)
	if err != nil {
		return "parse", err
	}

	out1, err := ExportString(ctx, first, opts...)
	if err != nil {
		return "export", err
	}

	second, err := ParseString(ctx, out1, opts...)
	if err != nil {
		return "re-parse", err
	}

	out2, err := ExportString(ctx, second, opts...)
	if err != nil {
		return "re-export", err
	}

	if out1 != out2 {
		return "export not stable", nil
	}

	if !ElementEqual(first.Root, second.Root) {
		return "structural mismatch", nil
	}

	return "", nil
}
