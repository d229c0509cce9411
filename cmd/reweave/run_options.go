package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reweave/internal/diag"
	"reweave/internal/diagfmt"
	"reweave/internal/driver"
	"reweave/internal/project"
	"reweave/internal/source"
)

// dirOptions builds driver options for a directory run. Persistent flags win
// over manifest settings, the manifest wins over built-in defaults.
func dirOptions(cmd *cobra.Command, dir string) (driver.Options, *project.Manifest, error) {
	opts := driver.Options{}

	manifest, found, err := project.Load(dir)
	if err != nil {
		return opts, nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	if found {
		opts.Jobs = manifest.Config.Check.Jobs
		opts.MaxDiagnostics = manifest.Config.Check.MaxDiagnostics
	} else {
		manifest = nil
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return opts, nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		opts.Jobs = jobs
	}
	if flags.Changed("max-diagnostics") || opts.MaxDiagnostics == 0 {
		maxDiagnostics, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return opts, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		opts.MaxDiagnostics = maxDiagnostics
	}
	return opts, manifest, nil
}

// mergedBag collects every per-file diagnostic into a single sorted bag.
func mergedBag(results []driver.FileResult, maxDiagnostics int) *diag.Bag {
	merged := diag.NewBag(maxDiagnostics)
	for _, res := range results {
		if res.Bag != nil {
			merged.Merge(res.Bag)
		}
	}
	merged.Sort()
	merged.Dedup()
	return merged
}

// writeDiagnostics renders the merged diagnostics in the requested format.
func writeDiagnostics(out io.Writer, format string, bag *diag.Bag, fileSet *source.FileSet, maxDiagnostics int) error {
	switch format {
	case "pretty":
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{
			PathMode:     diagfmt.PathModeAuto,
			IncludeNotes: true,
			Max:          maxDiagnostics,
		})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
