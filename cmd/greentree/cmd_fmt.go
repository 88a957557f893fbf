package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/greentree/format"
	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/text"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var fmtDiff bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Normalize the whitespace of a .java file, preserving comments",
		Long: `Normalize the whitespace of a .java file and print the result to stdout.

If no file is provided, reads Java source from stdin. Files with syntax
errors are refused.

Use -w to overwrite the file in place (requires a file argument) and -d to
print a unified diff instead of the formatted source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}
			if len(args) > 0 {
				if ext := filepath.Ext(args[0]); ext != ".java" {
					return fmt.Errorf("expected .java file, got %s", ext)
				}
			}
			filename, source, err := readSource(args)
			if err != nil {
				return fmt.Errorf("fmt: %w", err)
			}

			root := parser.ParseTree(source)
			if diags := root.Diagnostics(); len(diags) > 0 {
				return fmt.Errorf("fmt: %s: %w: %s", filename, format.ErrSyntax, diags[0].Message)
			}
			changes, err := format.New(cfg.FormatOptions()...).Edits(cmd.Context(), root, cfg.DiffOptions()...)
			if err != nil {
				return fmt.Errorf("fmt: %w", err)
			}

			if fmtDiff {
				return writeChanges("unified", filename, filename, source, changes)
			}

			output, err := text.Apply(source, changes)
			if err != nil {
				return fmt.Errorf("fmt: %w", err)
			}
			if fmtOverwrite {
				if len(changes) == 0 {
					return nil
				}
				log.Infof("%s: %d edits", filename, len(changes))
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = os.Stdout.WriteString(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "print a unified diff of the changes")

	return cmd
}
