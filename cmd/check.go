package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/cardweave/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check [project] [configuration...]",
	Short: "Validate configurations against the project",
	Long: `Resolve and validate the named configurations. Without names, every
configuration found in the project is checked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newRun(args[0])
		if err != nil {
			return err
		}
		p, err := run.Open()
		if err != nil {
			return err
		}
		v := check.NewValidator(p, run.Logger)

		var reports []check.Report
		if names := args[1:]; len(names) > 0 {
			for _, name := range names {
				reports = append(reports, v.Check(name))
			}
		} else {
			reports = v.ValidateAll()
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range reports {
			if r.OK() {
				_, _ = fmt.Fprintf(out, "ok    %s\n", r.Name)
				continue
			}
			failed++
			_, _ = fmt.Fprintf(out, "FAIL  %s: %v\n", r.Name, r.Err)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d configurations failed", failed, len(reports))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
