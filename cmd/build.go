package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var outDir string

var buildCmd = &cobra.Command{
	Use:   "build [project] [configuration]",
	Short: "Assemble a configuration into assembled.i",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun(args[0])
		if err != nil {
			return err
		}
		out, err := filepath.Abs(outDir)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}

		res, err := run.Generate(args[1], out)
		if err != nil {
			return err
		}
		if err := saveBuildMetadata(run.FS, out, newBuildMetadata(run.Root, res)); err != nil {
			return fmt.Errorf("write build metadata: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d fragments)\n", res.Output, len(res.Paths))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write assembled.i into")
	rootCmd.AddCommand(buildCmd)
}
