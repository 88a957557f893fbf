package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/greentree/config"
)

const version = "0.1.0"

var (
	cfg = config.Default()
	log = commonlog.GetLogger("greentree.cli")
)

func main() {
	var configPath string
	var verbose int

	rootCmd := &cobra.Command{
		Use:          "greentree",
		Short:        "Parse, diff and format Java sources on an immutable syntax tree",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = loaded
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbosity = verbose
			}

			var logPath *string
			if cfg.Log.Path != "" {
				logPath = &cfg.Log.Path
			}
			commonlog.Configure(cfg.Log.Verbosity, logPath)
			log.Debugf("configuration loaded from %q", configPath)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0, "log verbosity")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readSource reads the named .java file, or stdin when args is empty.
func readSource(args []string) (filename, source string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	filename = args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return filename, string(data), nil
}
