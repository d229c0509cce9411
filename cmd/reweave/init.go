package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reweave/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new reweave project",
	Long: `Initialize a new reweave project by creating a project manifest (reweave.toml)
and a sample weave source (main.wv). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "reweave-project"
	}

	manifestPath, err := project.Write(target, project.DefaultConfig(name))
	if err != nil {
		return err
	}

	mainPath := filepath.Join(target, "main.wv")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainWV()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.wv: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized reweave project in %s\n", rel)
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", filepath.Base(manifestPath))
	if createdMain {
		fmt.Fprintf(cmd.OutOrStdout(), "  - main.wv\n")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "  - main.wv (existing)\n")
	}
	return nil
}

// defaultMainWV returns the placeholder weave source written on init.
func defaultMainWV() string {
	return `// Sample weave source. Run "reweave check" to verify it round-trips.

let greeting = "hello";
let numbers = [1, 2, 3];

@pure
fn double(x) = x + x;

type Point(x, y);
`
}
