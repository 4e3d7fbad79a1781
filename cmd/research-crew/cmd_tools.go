package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"research-crew/internal/bootstrap"
	"research-crew/internal/common/logger"
	"research-crew/internal/crew"
	"research-crew/internal/tools/websearch"
	"research-crew/pkg/registry"
)

func newToolsCmd() *cobra.Command {
	var writePath, checkPath string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool, role and job-type manifest as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if checkPath != "" {
				reg, err := registry.LoadRegistry(checkPath)
				if err != nil {
					return fmt.Errorf("load registry: %w", err)
				}
				if err := registry.Validate(reg); err != nil {
					return fmt.Errorf("invalid registry %s: %w", checkPath, err)
				}
				fmt.Fprintf(out, "%s: %d tools, %d activities OK\n", checkPath, len(reg.Tools), len(reg.Activities))
				return nil
			}

			reg, err := manifest(time.Now())
			if err != nil {
				return err
			}
			if writePath != "" {
				if err := registry.Save(reg, writePath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Registry written to %s\n", writePath)
				return nil
			}

			data, err := json.MarshalIndent(reg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&writePath, "write", "", "Write the manifest to this file instead of stdout")
	f.StringVar(&checkPath, "validate", "", "Validate an existing manifest file")
	cmd.MarkFlagsMutuallyExclusive("write", "validate")
	return cmd
}

// manifest describes the default pipeline. The web-search backend is not
// contacted, so no configuration is needed.
func manifest(now time.Time) (*registry.ToolRegistry, error) {
	set, err := bootstrap.ToolSet(websearch.Unavailable(nil), logger.NewNoOpLogger())
	if err != nil {
		return nil, err
	}
	p, err := crew.BuildPipeline(crew.DefaultDefinition(set))
	if err != nil {
		return nil, err
	}
	reg := registry.Build(p, version, now)
	if err := registry.Validate(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
