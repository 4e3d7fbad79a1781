// research-crew runs the five-stage business research pipeline from the
// command line and inspects archived reports.
//
// Usage:
//
//	research-crew run --target=<name> --industry=<industry> [--email=<address>]
//	research-crew kb <query>
//	research-crew tools [--write=<path>]
//	research-crew history <target>
//	research-crew search <text>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"research-crew/internal/common/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "research-crew",
		Short: "Strategic business research reports from a fixed agent pipeline",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		Version:      version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: configs/config.yaml)")

	load := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFromFile(configPath)
		}
		return config.Load()
	}

	root.AddCommand(newRunCmd(load))
	root.AddCommand(newKBCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newHistoryCmd(load))
	root.AddCommand(newSearchCmd(load))
	return root
}

type configLoader func() (*config.Config, error)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
