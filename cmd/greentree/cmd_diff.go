package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/text"
	"github.com/dhamidi/greentree/treediff"
)

type jsonChange struct {
	Start   int    `json:"start"`
	Length  int    `json:"length"`
	NewText string `json:"newText"`
}

func newDiffCmd() *cobra.Command {
	var outputFormat string
	var spans bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show the text edits between two .java files",
		Long: `Parse two .java files and print the edits that turn the first into
the second, computed by comparing their syntax trees.

With --spans, print the changed regions of the new file instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldData, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			newData, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			oldRoot := parser.ParseTree(string(oldData))
			newRoot := parser.ParseTree(string(newData))

			if spans {
				changed, err := treediff.GetChangedSpans(cmd.Context(), newRoot, oldRoot, cfg.DiffOptions()...)
				if err != nil {
					return fmt.Errorf("diff: %w", err)
				}
				for _, s := range changed {
					fmt.Println(s)
				}
				return nil
			}

			changes, err := treediff.GetChanges(cmd.Context(), newRoot, oldRoot, cfg.DiffOptions()...)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			log.Debugf("%d changes between %s and %s", len(changes), args[0], args[1])
			return writeChanges(outputFormat, args[0], args[1], string(oldData), changes)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, unified)")
	cmd.Flags().BoolVar(&spans, "spans", false, "print changed spans of the new file")

	return cmd
}

func writeChanges(outputFormat, oldName, newName, oldText string, changes []text.Change) error {
	switch outputFormat {
	case "text":
		for _, c := range changes {
			fmt.Println(c)
		}
	case "json":
		out := make([]jsonChange, 0, len(changes))
		for _, c := range changes {
			out = append(out, jsonChange{Start: c.Span.Start, Length: c.Span.Length, NewText: c.NewText})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case "unified":
		out, err := treediff.Unified(oldName, newName, oldText, changes, cfg.Diff.Context)
		if err != nil {
			return fmt.Errorf("unified diff: %w", err)
		}
		fmt.Print(out)
	default:
		return fmt.Errorf("unknown format: %s (expected text, json, or unified)", outputFormat)
	}
	return nil
}
