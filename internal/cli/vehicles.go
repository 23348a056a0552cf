package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rmachado/fleet-manager/internal/domain"
)

func newVehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage fleet vehicles",
	}
	cmd.AddCommand(newVehiclesListCmd(), newVehiclesAddCmd(), newVehiclesRemoveCmd())
	return cmd
}

func newVehiclesListCmd() *cobra.Command {
	var filter domain.VehicleFilter
	var status, fuel string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			filter.Status = domain.VehicleStatus(status)
			filter.FuelType = domain.FuelType(fuel)
			vehicles, err := client.ListVehicles(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLATE\tBRAND\tMODEL\tYEAR\tSTATUS\tODOMETER")
			for _, v := range vehicles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
					v.ID, v.Plate, v.Brand, v.Model, v.Year, v.Status, v.Odometer)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Plate, "plate", "", "Filter by plate substring")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (ATIVO, MANUTENCAO, INATIVO)")
	cmd.Flags().StringVar(&fuel, "fuel", "", "Filter by fuel type")
	return cmd
}

func newVehiclesAddCmd() *cobra.Command {
	var v domain.Vehicle
	var fuel string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a vehicle (manager only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			v.FuelType = domain.FuelType(fuel)
			created, err := client.CreateVehicle(cmd.Context(), v)
			if err != nil {
				return err
			}
			fmt.Printf("Vehicle %s registered (%s)\n", created.Plate, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&v.Plate, "plate", "", "License plate")
	cmd.Flags().StringVar(&v.Brand, "brand", "", "Brand")
	cmd.Flags().StringVar(&v.Model, "model", "", "Model")
	cmd.Flags().IntVar(&v.Year, "year", 0, "Model year")
	cmd.Flags().StringVar(&fuel, "fuel", string(domain.FuelFlex), "Fuel type")
	cmd.Flags().IntVar(&v.Odometer, "odometer", 0, "Current odometer reading (km)")
	cmd.MarkFlagRequired("plate")
	cmd.MarkFlagRequired("brand")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("year")
	return cmd
}

func newVehiclesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a vehicle (manager only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid vehicle id: %w", err)
			}
			if err := client.DeleteVehicle(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Vehicle removed")
			return nil
		},
	}
}
