package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/purchase-compare/internal/config"
	"github.com/iwvelando/purchase-compare/pkg/constants"
	"github.com/spf13/cobra"
)

// stdinConfigPath reads the configuration from standard input.
const stdinConfigPath = "-"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "purchase-compare",
		Short:         "Compare paying in full with a discount against paying in installments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file, or - for stdin")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newCompareCommand(opts))
	root.AddCommand(newServeCommand(opts))
	return root
}

// loadConfiguration reads the configuration file, or stdin when the path is
// "-". The default file is optional; an explicitly named one must exist.
func (o *rootOptions) loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	if o.configPath == stdinConfigPath {
		conf, err := config.LoadConfigurationFromReader(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration from stdin: %w", err)
		}
		return conf, nil
	}

	path := o.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}
	return conf, nil
}
