package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFuelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Manage fuel logs",
	}
	cmd.AddCommand(newFuelListCmd())
	return cmd
}

func newFuelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fuel logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			logs, err := client.ListFuelLogs(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVEHICLE\tDATE\tODOMETER\tLITERS\tCOST\tKM/L")
			for _, l := range logs {
				avg := "-"
				if l.AvgKmPerLiter != nil {
					avg = fmt.Sprintf("%.2f", *l.AvgKmPerLiter)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
					l.ID, l.VehicleID, l.Date, l.Odometer, l.Liters, l.TotalCost, avg)
			}
			return w.Flush()
		},
	}
}
