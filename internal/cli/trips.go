package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rmachado/fleet-manager/internal/client/api"
	"github.com/rmachado/fleet-manager/internal/client/trip"
	"github.com/rmachado/fleet-manager/internal/domain"
)

func newTripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage and follow trips",
	}
	cmd.AddCommand(
		newTripsListCmd(),
		newTripsStartCmd(),
		newTripsFinishCmd(),
		newTripsWatchCmd(),
	)
	return cmd
}

func newTripsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			trips, err := client.ListTrips(cmd.Context(), domain.TripFilter{
				Status: domain.TripStatus(status),
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tORIGIN\tDESTINATION\tSTATUS\tKM")
			for _, t := range trips {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					t.ID, t.Origin, t.Destination, t.Status, t.Distance())
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newTripsStartCmd() *cobra.Command {
	var duration int

	cmd := &cobra.Command{
		Use:   "start <trip-id>",
		Short: "Start a planned trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip id: %w", err)
			}

			snapshot, err := client.StartTrip(cmd.Context(), id, duration)
			if err != nil {
				return err
			}
			fmt.Printf("Trip started: %s → %s, scheduled end %s\n",
				snapshot.Origin, snapshot.Destination,
				snapshot.EndsAt.Local().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Expected duration in minutes")
	cmd.MarkFlagRequired("duration")
	return cmd
}

func newTripsFinishCmd() *cobra.Command {
	var odometer int

	cmd := &cobra.Command{
		Use:   "finish <trip-id>",
		Short: "Finish an in-progress trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip id: %w", err)
			}

			finished, err := client.FinishTrip(cmd.Context(), id, odometer)
			if err != nil {
				// An automatic finish may have won the race; the trip is
				// done either way.
				if api.IsConflict(err) {
					fmt.Println("Trip already finished")
					return nil
				}
				return err
			}
			fmt.Printf("Trip finished, %d km\n", finished.Distance())
			return nil
		},
	}

	cmd.Flags().IntVarP(&odometer, "odometer", "o", 0, "End odometer reading (km)")
	cmd.MarkFlagRequired("odometer")
	return cmd
}

func newTripsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the active trip countdown",
		Long: "Poll for the in-progress trip and count down to its scheduled " +
			"end. When the countdown expires the trip is finished automatically. " +
			"Interrupt with Ctrl-C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd); err != nil {
				return err
			}

			watcher := trip.NewWatcher(client, trip.Config{
				OnChange: renderTripState,
			})
			if err := watcher.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}
			fmt.Println()
			return nil
		},
	}
}

// renderTripState redraws one status line in place.
func renderTripState(s trip.State) {
	if s.Trip == nil {
		fmt.Print("\rNo trip in progress                                        ")
		return
	}
	remaining := s.Remaining.Round(time.Second)
	fmt.Printf("\r%s → %s  remaining %-12s", s.Trip.Origin, s.Trip.Destination, remaining)
}
