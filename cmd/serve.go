package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/cardweave/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve [project]",
	Short: "Serve the project as MCP tools over stdio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun(args[0])
		if err != nil {
			return err
		}
		if _, err := run.Open(); err != nil {
			return err
		}
		return mcpserver.Serve(run, Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
