// Package cli implements the fleetctl command tree. Commands talk to the
// fleet manager API and share one session manager, so a login in one
// invocation carries over to the next through the persisted session file.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmachado/fleet-manager/internal/client/api"
	"github.com/rmachado/fleet-manager/internal/client/session"
)

var (
	flagServer   string
	flagLogLevel string

	manager *session.Manager
	client  *api.Client
)

// defaultServer returns the default server URL, checking FLEET_SERVER first.
func defaultServer() string {
	if s := os.Getenv("FLEET_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the fleetctl CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fleetctl",
		Short: "fleetctl manages vehicles, drivers, and trips",
		Long:  "fleetctl is the command-line client for the fleet manager API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
				level = slog.LevelWarn
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			path, err := session.DefaultPath()
			if err != nil {
				return err
			}
			manager = session.NewManager(&session.FileStore{Path: path})
			client = api.NewClient(flagServer, manager.AccessToken)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "API server URL (or FLEET_SERVER env)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newWhoamiCmd(),
		newDashboardCmd(),
		newVehiclesCmd(),
		newDriversCmd(),
		newMaintenanceCmd(),
		newFuelCmd(),
		newTripsCmd(),
	)

	return root
}

// requireSession is the auth gate for commands that need a valid token. It
// restores the persisted session, validates it against the server once, and
// fails with a login hint when no valid session remains. Any validation
// failure clears the session, so a dead token never lingers on disk.
func requireSession(cmd *cobra.Command) error {
	if err := manager.Verify(cmd.Context(), client); err != nil {
		if api.IsUnauthorized(err) {
			return errors.New("sessão expirada; execute fleetctl login")
		}
		return fmt.Errorf("validar sessão: %w", err)
	}
	if !manager.Current().Authenticated() {
		return errors.New("não autenticado; execute fleetctl login")
	}
	return nil
}
