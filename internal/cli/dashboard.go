package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the fleet summary counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			s, err := client.Summary(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Vehicles    active %d  maintenance %d  inactive %d\n",
				s.ActiveVehicles, s.MaintenanceVehicles, s.InactiveVehicles)
			fmt.Printf("Maintenance pending %d  overdue %d\n",
				s.PendingMaintenance, s.OverdueMaintenance)
			fmt.Printf("Documents   expired %d\n", s.ExpiredDocuments)
			return nil
		},
	}
}
