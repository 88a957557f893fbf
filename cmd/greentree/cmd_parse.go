package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/text"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var plainDocComments bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a .java file and print its syntax tree",
		Long: `Parse a .java file and print its syntax tree.

If no file is provided, reads Java source from stdin. Syntax errors are
reported on stderr; the tree is printed regardless.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, source, err := readSource(args)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			var opts []parser.Option
			if plainDocComments {
				opts = append(opts, parser.WithoutDocComments())
			}
			root := parser.ParseTree(source, opts...)

			switch outputFormat {
			case "dump":
				fmt.Print(root.Dump())
			case "positions":
				fmt.Print(root.DumpWithPositions())
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(root); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected dump, positions, or json)", outputFormat)
			}

			lines := text.NewLineMap(source)
			for _, d := range root.Diagnostics() {
				pos := lines.Position(d.Offset)
				fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", filename, pos.Line+1, pos.Column+1, d.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dump", "output format (dump, positions, json)")
	cmd.Flags().BoolVar(&plainDocComments, "plain-doc-comments", false, "keep /** */ comments as plain block comments")

	return cmd
}
