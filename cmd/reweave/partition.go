package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reweave/internal/diag"
	"reweave/internal/fragment"
	"reweave/internal/parser"
	"reweave/internal/partition"
	"reweave/internal/regen"
	"reweave/internal/source"
)

var partitionCmd = &cobra.Command{
	Use:   "partition [flags] <file.wv>",
	Short: "Dump the fragment tree of a weave source file",
	Long:  `Partition parses one weave file and prints its fragment tree: nested scopes, source leaves with their spans, and attached requisites. Useful for debugging regeneration issues.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPartition,
}

func init() {
	partitionCmd.Flags().Bool("layout", false, "fill layout gaps before dumping")
}

func runPartition(cmd *cobra.Command, args []string) error {
	if err := configureColor(cmd); err != nil {
		return err
	}

	withLayout, err := cmd.Flags().GetBool("layout")
	if err != nil {
		return fmt.Errorf("failed to get layout flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %q: %w", args[0], err)
	}
	file := fileSet.Get(id)

	bag := diag.NewBag(maxDiagnostics)
	parsed := parser.New(file, bag).ParseFile()
	if bag.HasErrors() {
		if err := writeDiagnostics(os.Stderr, "pretty", bag, fileSet, maxDiagnostics); err != nil {
			return err
		}
		return fmt.Errorf("%s has syntax errors", args[0])
	}

	frag := partition.Partition(file, parsed.File, partition.Handlers())
	if err := fragment.Validate(frag); err != nil {
		return fmt.Errorf("fragment tree is inconsistent: %w", err)
	}
	if withLayout {
		frag = regen.FillLayout(frag, file)
	}

	fmt.Fprint(cmd.OutOrStdout(), partition.Dump(frag, file))
	return nil
}
