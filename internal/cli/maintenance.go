package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Manage maintenance records",
	}
	cmd.AddCommand(newMaintenanceListCmd())
	return cmd
}

func newMaintenanceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List maintenance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			records, err := client.ListMaintenance(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVEHICLE\tDATE\tTYPE\tDESCRIPTION\tCOST\tSTATUS")
			for _, m := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
					m.ID, m.VehicleID, m.Date, m.Type, m.Description, m.Cost, m.Status)
			}
			return w.Flush()
		},
	}
}
