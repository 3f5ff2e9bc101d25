package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentic-research/cardweave/internal/summary"
)

var summaryPath string

var summaryCmd = &cobra.Command{
	Use:   "summary [project]",
	Short: "Write a SQLite summary of the project index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun(args[0])
		if err != nil {
			return err
		}
		p, err := run.Open()
		if err != nil {
			return err
		}

		dbPath := summaryPath
		if dbPath == "" {
			dbPath = filepath.Join(run.Root, "project_summary.db")
		}
		if err := summary.Write(dbPath, p); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d fragments, %d configurations)\n",
			dbPath, p.Index.Len(), len(p.Index.Configurations()))
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryPath, "db", "", "Summary database path (default <project>/project_summary.db)")
	rootCmd.AddCommand(summaryCmd)
}
