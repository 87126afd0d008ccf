package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/census-map/internal/region"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List districts and tertiary planning units",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tpu, _ := cmd.Flags().GetBool("tpu")
		formatRegions(cmd.OutOrStdout(), region.HongKong(), tpu)
		return nil
	},
}

func init() {
	regionsCmd.Flags().Bool("tpu", false, "list sub-regions under each district")
	rootCmd.AddCommand(regionsCmd)
}

func formatRegions(out io.Writer, cat *region.Catalog, tpu bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush() //nolint:errcheck

	fmt.Fprintln(w, "ID\tNAME\tSUB-REGIONS")
	for _, p := range cat.Parents() {
		children := cat.Children(p.ID)
		fmt.Fprintf(w, "%s\t%s\t%d\n", p.ID, p.Name, len(children))
		if !tpu {
			continue
		}
		for _, c := range children {
			fmt.Fprintf(w, "  %s\t%s\t\n", c.ID, c.Name)
		}
	}
}

