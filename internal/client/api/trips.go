package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// ListTrips lists trips, optionally narrowed by status and driver.
func (c *Client) ListTrips(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.DriverID != uuid.Nil {
		q.Set("motorista", f.DriverID.String())
	}
	path := "/api/viagens/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []domain.Trip
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, http.MethodGet, "/api/viagens/"+id.String()+"/", nil, &out)
	return out, err
}

func (c *Client) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, http.MethodPost, "/api/viagens/", t, &out)
	return out, err
}

func (c *Client) UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	err := c.do(ctx, http.MethodPut, "/api/viagens/"+t.ID.String()+"/", t, &out)
	return out, err
}

func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/viagens/"+id.String()+"/", nil, nil)
}

// activeTripEnvelope matches the em-andamento body: the viagem field is null
// when no trip is in progress.
type activeTripEnvelope struct {
	Trip *domain.ActiveTrip `json:"viagem"`
}

// ActiveTrip returns the caller's in-progress trip, or nil when there is
// none. A nil snapshot with a nil error is the normal idle answer.
func (c *Client) ActiveTrip(ctx context.Context) (*domain.ActiveTrip, error) {
	var env activeTripEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/viagens/em-andamento/", nil, &env); err != nil {
		return nil, err
	}
	return env.Trip, nil
}

// StartTrip moves a planned trip to EM_ANDAMENTO with the given expected
// duration and returns the active-trip snapshot, including the scheduled
// end time the countdown runs against.
func (c *Client) StartTrip(ctx context.Context, id uuid.UUID, durationMinutes int) (domain.ActiveTrip, error) {
	var env activeTripEnvelope
	body := map[string]int{"duracao_minutos": durationMinutes}
	if err := c.do(ctx, http.MethodPost, "/api/viagens/"+id.String()+"/iniciar/", body, &env); err != nil {
		return domain.ActiveTrip{}, err
	}
	if env.Trip == nil {
		return domain.ActiveTrip{}, &APIError{Status: http.StatusInternalServerError, Message: "resposta sem viagem"}
	}
	return *env.Trip, nil
}

// FinishTrip moves an in-progress trip to FINALIZADA with the given end
// odometer reading and returns the finished trip.
func (c *Client) FinishTrip(ctx context.Context, id uuid.UUID, endOdometer int) (domain.Trip, error) {
	var out domain.Trip
	body := map[string]int{"hodometro_chegada": endOdometer}
	err := c.do(ctx, http.MethodPost, "/api/viagens/"+id.String()+"/finalizar/", body, &out)
	return out, err
}
