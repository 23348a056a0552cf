package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDriversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Manage drivers",
	}
	cmd.AddCommand(newDriversListCmd())
	return cmd
}

func newDriversListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			drivers, err := client.ListDrivers(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCPF\tLICENSE\tCATEGORY\tVALID UNTIL\tACTIVE")
			for _, d := range drivers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
					d.ID, d.FullName, d.CPF, d.LicenseNumber, d.LicenseCategory,
					d.LicenseDue, d.Active)
			}
			return w.Flush()
		},
	}
}
