// Package handler implements the HTTP handlers for the fleet manager API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (auth.go, vehicle.go, trip.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/middleware"
	"github.com/rmachado/fleet-manager/internal/service"
)

// AuthServicer defines the authentication operations the handlers depend on.
// Defining interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Login(ctx context.Context, username, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, rawRefresh string) (service.TokenPair, error)
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Me(ctx context.Context, userID uuid.UUID) (domain.User, error)
}

// VehicleServicer defines the vehicle operations the handlers depend on.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	List(ctx context.Context, f domain.VehicleFilter) ([]domain.Vehicle, error)
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DriverServicer defines the driver operations the handlers depend on.
type DriverServicer interface {
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	List(ctx context.Context) ([]domain.Driver, error)
	Update(ctx context.Context, d domain.Driver) (domain.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaintenanceServicer defines the maintenance operations the handlers depend on.
type MaintenanceServicer interface {
	Create(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Maintenance, error)
	List(ctx context.Context) ([]domain.Maintenance, error)
	Update(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FuelLogServicer defines the fuel log operations the handlers depend on.
type FuelLogServicer interface {
	Create(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.FuelLog, error)
	List(ctx context.Context) ([]domain.FuelLog, error)
	Update(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TripServicer defines the trip operations, including the lifecycle
// transitions, the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	Update(ctx context.Context, t domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActiveTrip(ctx context.Context, actor service.Actor) (*domain.ActiveTrip, error)
	Start(ctx context.Context, actor service.Actor, tripID uuid.UUID, durationMinutes int) (domain.ActiveTrip, error)
	Finish(ctx context.Context, actor service.Actor, tripID uuid.UUID, endOdometer int) (domain.Trip, error)
}

// DashboardServicer defines the dashboard operations the handlers depend on.
type DashboardServicer interface {
	Summary(ctx context.Context) (domain.DashboardSummary, error)
}

// Server implements the HTTP handlers for all API endpoints.
// Wire it in main.go via Routes. Methods are in domain-specific files but all
// operate on this struct.
type Server struct {
	auth        AuthServicer
	vehicles    VehicleServicer
	drivers     DriverServicer
	maintenance MaintenanceServicer
	fuelLogs    FuelLogServicer
	trips       TripServicer
	dashboard   DashboardServicer
	jwtSecret   string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, vehicles VehicleServicer, drivers DriverServicer,
	maintenance MaintenanceServicer, fuelLogs FuelLogServicer, trips TripServicer,
	dashboard DashboardServicer, jwtSecret string) *Server {
	return &Server{
		auth:        auth,
		vehicles:    vehicles,
		drivers:     drivers,
		maintenance: maintenance,
		fuelLogs:    fuelLogs,
		trips:       trips,
		dashboard:   dashboard,
		jwtSecret:   jwtSecret,
	}
}

// Routes returns the chi router for the /api subtree.
// Trailing slashes match the paths the SPA calls. Write operations on CRUD
// resources require the MANAGER role; trip lifecycle actions are open to
// operators and ownership-checked in the service layer.
func (s *Server) Routes() http.Handler {
	authn := middleware.NewAuthenticator(s.jwtSecret)

	r := chi.NewRouter()

	r.Post("/auth/token/", s.handleLogin)
	r.Post("/auth/token/refresh/", s.handleRefresh)
	r.Post("/auth/register/", s.handleRegister)
	r.With(authn).Get("/auth/me/", s.handleMe)

	r.With(authn).Get("/dashboard/resumo/", s.handleDashboardSummary)

	r.Route("/veiculos", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", s.handleListVehicles)
		r.With(middleware.RequireManager).Post("/", s.handleCreateVehicle)
		r.Get("/{id}/", s.handleGetVehicle)
		r.With(middleware.RequireManager).Put("/{id}/", s.handleUpdateVehicle)
		r.With(middleware.RequireManager).Delete("/{id}/", s.handleDeleteVehicle)
	})

	r.Route("/motoristas", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", s.handleListDrivers)
		r.With(middleware.RequireManager).Post("/", s.handleCreateDriver)
		r.Get("/{id}/", s.handleGetDriver)
		r.With(middleware.RequireManager).Put("/{id}/", s.handleUpdateDriver)
		r.With(middleware.RequireManager).Delete("/{id}/", s.handleDeleteDriver)
	})

	r.Route("/manutencoes", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", s.handleListMaintenance)
		r.With(middleware.RequireManager).Post("/", s.handleCreateMaintenance)
		r.Get("/{id}/", s.handleGetMaintenance)
		r.With(middleware.RequireManager).Put("/{id}/", s.handleUpdateMaintenance)
		r.With(middleware.RequireManager).Delete("/{id}/", s.handleDeleteMaintenance)
	})

	r.Route("/abastecimentos", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", s.handleListFuelLogs)
		r.With(middleware.RequireManager).Post("/", s.handleCreateFuelLog)
		r.Get("/{id}/", s.handleGetFuelLog)
		r.With(middleware.RequireManager).Put("/{id}/", s.handleUpdateFuelLog)
		r.With(middleware.RequireManager).Delete("/{id}/", s.handleDeleteFuelLog)
	})

	r.Route("/viagens", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", s.handleListTrips)
		r.With(middleware.RequireManager).Post("/", s.handleCreateTrip)
		r.Get("/em-andamento/", s.handleActiveTrip)
		r.Get("/{id}/", s.handleGetTrip)
		r.With(middleware.RequireManager).Put("/{id}/", s.handleUpdateTrip)
		r.With(middleware.RequireManager).Delete("/{id}/", s.handleDeleteTrip)
		r.Post("/{id}/iniciar/", s.handleStartTrip)
		r.Post("/{id}/finalizar/", s.handleFinishTrip)
	})

	return r
}

// timeNow is the clock used when computing derived document flags.
// Overridable in tests.
var timeNow = time.Now

// actorFrom converts the middleware identity into a service actor.
// Routes behind the authenticator always carry an identity; the zero actor
// is only reachable in misconfigured tests and fails authorization anyway.
func actorFrom(ctx context.Context) service.Actor {
	identity, _ := middleware.IdentityFrom(ctx)
	return service.Actor{UserID: identity.UserID, Role: identity.Role}
}
