package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentic-research/cardweave/internal/project"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List the fragments of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter project.Kind
		if listKind != "" {
			var ok bool
			if filter, ok = project.ParseKind(listKind); !ok {
				return fmt.Errorf("unknown kind %q", listKind)
			}
		}

		run, err := newRun(args[0])
		if err != nil {
			return err
		}
		p, err := run.Open()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tKIND\tMETADATA\tPATH")
		for _, e := range p.Index.Entries() {
			if filter != 0 && e.Kind != filter {
				continue
			}
			meta := "-"
			if e.Kind == project.KindGeometry {
				meta = "no"
				if e.HasMetadata {
					meta = "yes"
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Kind, meta, e.Path)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listKind, "kind", "k", "", "Only list fragments of this kind")
	rootCmd.AddCommand(listCmd)
}
