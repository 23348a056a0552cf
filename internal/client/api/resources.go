package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// ---- vehicles ----

// ListVehicles lists vehicles, optionally narrowed by the filter.
func (c *Client) ListVehicles(ctx context.Context, f domain.VehicleFilter) ([]domain.Vehicle, error) {
	q := url.Values{}
	if f.Plate != "" {
		q.Set("placa", f.Plate)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.FuelType != "" {
		q.Set("tipo_combustivel", string(f.FuelType))
	}
	path := "/api/veiculos/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []domain.Vehicle
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetVehicle(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.do(ctx, http.MethodGet, "/api/veiculos/"+id.String()+"/", nil, &out)
	return out, err
}

func (c *Client) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.do(ctx, http.MethodPost, "/api/veiculos/", v, &out)
	return out, err
}

func (c *Client) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.do(ctx, http.MethodPut, "/api/veiculos/"+v.ID.String()+"/", v, &out)
	return out, err
}

func (c *Client) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/veiculos/"+id.String()+"/", nil, nil)
}

// ---- drivers ----

func (c *Client) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	var out []domain.Driver
	err := c.do(ctx, http.MethodGet, "/api/motoristas/", nil, &out)
	return out, err
}

func (c *Client) GetDriver(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	var out domain.Driver
	err := c.do(ctx, http.MethodGet, "/api/motoristas/"+id.String()+"/", nil, &out)
	return out, err
}

func (c *Client) CreateDriver(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	err := c.do(ctx, http.MethodPost, "/api/motoristas/", d, &out)
	return out, err
}

func (c *Client) UpdateDriver(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	var out domain.Driver
	err := c.do(ctx, http.MethodPut, "/api/motoristas/"+d.ID.String()+"/", d, &out)
	return out, err
}

func (c *Client) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/motoristas/"+id.String()+"/", nil, nil)
}

// ---- maintenance ----

func (c *Client) ListMaintenance(ctx context.Context) ([]domain.Maintenance, error) {
	var out []domain.Maintenance
	err := c.do(ctx, http.MethodGet, "/api/manutencoes/", nil, &out)
	return out, err
}

func (c *Client) CreateMaintenance(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	var out domain.Maintenance
	err := c.do(ctx, http.MethodPost, "/api/manutencoes/", m, &out)
	return out, err
}

func (c *Client) UpdateMaintenance(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	var out domain.Maintenance
	err := c.do(ctx, http.MethodPut, "/api/manutencoes/"+m.ID.String()+"/", m, &out)
	return out, err
}

func (c *Client) DeleteMaintenance(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/manutencoes/"+id.String()+"/", nil, nil)
}

// ---- fuel logs ----

func (c *Client) ListFuelLogs(ctx context.Context) ([]domain.FuelLog, error) {
	var out []domain.FuelLog
	err := c.do(ctx, http.MethodGet, "/api/abastecimentos/", nil, &out)
	return out, err
}

func (c *Client) CreateFuelLog(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	var out domain.FuelLog
	err := c.do(ctx, http.MethodPost, "/api/abastecimentos/", l, &out)
	return out, err
}

func (c *Client) UpdateFuelLog(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	var out domain.FuelLog
	err := c.do(ctx, http.MethodPut, "/api/abastecimentos/"+l.ID.String()+"/", l, &out)
	return out, err
}

func (c *Client) DeleteFuelLog(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/abastecimentos/"+id.String()+"/", nil, nil)
}
