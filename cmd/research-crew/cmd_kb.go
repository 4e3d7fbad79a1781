package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"research-crew/internal/tools/knowledge"
)

func newKBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kb <query>",
		Short: "Look up the built-in research knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), knowledge.Lookup(strings.Join(args, " ")))
			return nil
		},
	}
}
