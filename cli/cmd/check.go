package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/hyve-ide/uidsl/dsl"
	"github.com/hyve-ide/uidsl/log"
)

// Check round-trips every .ui file under a directory and reports whether
// the pass rate clears the threshold.
type Check struct {
	Threshold float64 `default:"0.60" help:"Minimum pass rate (0..1)" short:"t"`
	Verbose   bool    `               help:"List every failing file"  short:"v"`

	Dir string `arg:"" default:"." help:"Corpus root directory" name:"dir" type:"existingdir"`
}

var (
	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)
	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)
	checkDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	result, err := dsl.CheckDir(ctx, c.Dir, dsl.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	if c.Verbose {
		for _, failure := range result.Failures {
			line := checkFailStyle.Render("fail") + " " + failure.Path +
				checkDimStyle.Render(" ("+failure.Reason+")")

			fmt.Fprintln(os.Stdout, line)

			if failure.Err != nil {
				fmt.Fprintln(os.Stdout, checkDimStyle.Render("     "+failure.Err.Error()))
			}
		}
	}

	rate := result.PassRate()
	summary := fmt.Sprintf("%d/%d files round-trip (%.1f%%, threshold %.1f%%)",
		result.Passed, result.Total, rate*100, c.Threshold*100)

	if result.Meets(c.Threshold) {
		fmt.Fprintln(os.Stdout, checkPassStyle.Render("ok")+" "+summary)

		return nil
	}

	fmt.Fprintln(os.Stdout, checkFailStyle.Render("FAIL")+" "+summary)

	return ErrBelowBar.With(
		slog.String("rate", strconv.FormatFloat(rate, 'f', 4, 64)),
		slog.String("threshold", strconv.FormatFloat(c.Threshold, 'f', 4, 64)),
	)
}
