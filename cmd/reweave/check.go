package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reweave/internal/driver"
	"reweave/internal/observ"
	"reweave/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [directory]",
	Short: "Verify weave sources survive a partition and regeneration round trip",
	Long:  `Check partitions every *.wv file under a directory, regenerates the text from the fragment tree, and reports any file whose regenerated text differs from the original`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("no-cache", false, "disable the persistent verdict cache")
	checkCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := configureColor(cmd); err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts, _, err := dirOptions(cmd, dir)
	if err != nil {
		return err
	}
	if !noCache {
		cache, cacheErr := driver.OpenCheckCache("reweave")
		if cacheErr == nil {
			opts.Cache = cache
		}
	}

	timer := observ.NewTimer()
	listPhase := timer.Begin("list")
	files, err := driver.ListSourceFiles(dir)
	timer.End(listPhase, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return fmt.Errorf("failed to list sources in %q: %w", dir, err)
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "no %s files found under %s\n", driver.SourceExt, dir)
		}
		return nil
	}

	ctx := context.Background()
	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	checkPhase := timer.Begin("check")
	if format == "pretty" && !quiet && shouldUseTUI(mode) {
		fileSet, results, err = runDirWithUI("check", files, func(progress driver.Progress) (*source.FileSet, []driver.FileResult, error) {
			runOpts := opts
			runOpts.Progress = progress
			return driver.CheckDir(ctx, dir, runOpts)
		})
	} else {
		fileSet, results, err = driver.CheckDir(ctx, dir, opts)
	}
	timer.End(checkPhase, "")
	if err != nil {
		return err
	}

	bag := mergedBag(results, opts.MaxDiagnostics)
	if err := writeDiagnostics(cmd.OutOrStdout(), format, bag, fileSet, opts.MaxDiagnostics); err != nil {
		return err
	}

	clean, changed, failed, cached := tallyResults(results)
	if !quiet && format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d files: %d clean, %d changed, %d failed (%d cached)\n",
			len(results), clean, changed, failed, cached)
	}
	if showTimings {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
	}
	if failed > 0 || changed > 0 {
		os.Exit(1)
	}
	return nil
}

func tallyResults(results []driver.FileResult) (clean, changed, failed, cached int) {
	for _, res := range results {
		switch {
		case res.Changed:
			changed++
		case res.Bag != nil && res.Bag.HasErrors():
			failed++
		default:
			clean++
		}
		if res.Cached {
			cached++
		}
	}
	return clean, changed, failed, cached
}
