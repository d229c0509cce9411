package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reweave/internal/driver"
	"reweave/internal/fix"
	"reweave/internal/refactor"
	"reweave/internal/rewrite"
	"reweave/internal/source"
	"reweave/internal/tree"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] [directory]",
	Short: "Apply tree transformations to weave sources in place",
	Long: `Apply rewrites every *.wv file under a directory through the requested
transformations and writes back only the files whose text actually changed.
Untouched regions keep their original bytes, including comments and spacing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringArray("rename", nil, "rename an identifier, old:new (repeatable)")
	applyCmd.Flags().StringArray("replace-elem", nil, "replace a list element, elem=new1,new2,... (repeatable)")
	applyCmd.Flags().String("case", "", "normalize declaration names (lower|upper|title)")
	applyCmd.Flags().Bool("dry-run", false, "report changes without writing files")
	applyCmd.Flags().Bool("no-backup", false, "skip .bak backups even when the manifest enables them")
	applyCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
}

func runApply(cmd *cobra.Command, args []string) error {
	if err := configureColor(cmd); err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	transform, err := buildTransform(cmd)
	if err != nil {
		return err
	}
	if transform == nil {
		return fmt.Errorf("nothing to apply: pass --rename, --replace-elem, or --case")
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	noBackup, err := cmd.Flags().GetBool("no-backup")
	if err != nil {
		return fmt.Errorf("failed to get no-backup flag: %w", err)
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

	opts, manifest, err := dirOptions(cmd, dir)
	if err != nil {
		return err
	}
	backup := manifest != nil && manifest.Config.Apply.Backup
	if noBackup {
		backup = false
	}

	files, err := driver.ListSourceFiles(dir)
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
	if !quiet && shouldUseTUI(mode) {
		fileSet, results, err = runDirWithUI("apply", files, func(progress driver.Progress) (*source.FileSet, []driver.FileResult, error) {
			runOpts := opts
			runOpts.Progress = progress
			return driver.ApplyDir(ctx, dir, transform, runOpts)
		})
	} else {
		fileSet, results, err = driver.ApplyDir(ctx, dir, transform, opts)
	}
	if err != nil {
		return err
	}

	bag := mergedBag(results, opts.MaxDiagnostics)
	if err := writeDiagnostics(cmd.OutOrStdout(), "pretty", bag, fileSet, opts.MaxDiagnostics); err != nil {
		return err
	}

	var changes []fix.FileChange
	for _, res := range results {
		if !res.Changed || res.Bag.HasErrors() {
			continue
		}
		changes = append(changes, fix.FileChange{
			Path:    res.Path,
			OldText: string(fileSet.Get(res.FileID).Content),
			NewText: res.Output,
		})
	}

	applied, err := fix.Apply(changes, fix.Options{DryRun: dryRun, Backup: backup})
	if err != nil {
		return err
	}

	if !quiet {
		verb := "rewrote"
		if dryRun {
			verb = "would rewrite"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d files\n", verb, len(applied.Written), len(results))
		for _, skipped := range applied.Skipped {
			fmt.Fprintf(cmd.OutOrStdout(), "skipped %s: %s\n", skipped.Path, skipped.Reason)
		}
	}
	return nil
}

// buildTransform composes the transformations requested on the command line.
// Transforms run in flag order: renames, element replacements, then casing.
func buildTransform(cmd *cobra.Command) (rewrite.Transform[tree.Node], error) {
	renames, err := cmd.Flags().GetStringArray("rename")
	if err != nil {
		return nil, fmt.Errorf("failed to get rename flag: %w", err)
	}
	replacements, err := cmd.Flags().GetStringArray("replace-elem")
	if err != nil {
		return nil, fmt.Errorf("failed to get replace-elem flag: %w", err)
	}
	caseFlag, err := cmd.Flags().GetString("case")
	if err != nil {
		return nil, fmt.Errorf("failed to get case flag: %w", err)
	}

	var steps []rewrite.Transform[tree.Node]
	for _, spec := range renames {
		from, to, ok := strings.Cut(spec, ":")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid --rename value %q (expected old:new)", spec)
		}
		steps = append(steps, refactor.Rename(from, to))
	}
	for _, spec := range replacements {
		elem, rest, ok := strings.Cut(spec, "=")
		if !ok || elem == "" || rest == "" {
			return nil, fmt.Errorf("invalid --replace-elem value %q (expected elem=new1,new2,...)", spec)
		}
		steps = append(steps, refactor.ReplaceListElement(elem, strings.Split(rest, ",")))
	}
	if caseFlag != "" {
		style, ok := refactor.ParseCaseStyle(caseFlag)
		if !ok {
			return nil, fmt.Errorf("invalid --case value %q (expected lower, upper, or title)", caseFlag)
		}
		steps = append(steps, refactor.NormalizeDeclNames(style))
	}

	if len(steps) == 0 {
		return nil, nil
	}
	combined := steps[0]
	for _, step := range steps[1:] {
		combined = combined.AndThen(step)
	}
	return combined, nil
}
