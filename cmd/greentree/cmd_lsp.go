package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/greentree/java/codebase"
)

func newLSPCmd() *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version,
				codebase.WithCodebaseOptions(codebase.WithDiffOptions(cfg.DiffOptions()...)),
				codebase.WithFormatOptions(cfg.FormatOptions()...),
				codebase.WithWatch(watch),
			)
			return server.RunStdio()
		},
	}

	cmd.Flags().DurationVar(&watch, "watch", 0, "poll the workspace for changed files at this interval (0 disables)")

	return cmd
}
