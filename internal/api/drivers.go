package api

import (
	"context"
	"net/url"

	"github.com/kagwathi/movenow-dashboard/internal/models"
)

type LocationUpdate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type AvailabilityUpdate struct {
	Available bool `json:"available"`
}

type JobStatusUpdate struct {
	Status string `json:"status"`
}

func (c *Client) ListJobs(ctx context.Context, status string) ([]models.DriverJob, error) {
	path := "/drivers/jobs"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []models.DriverJob
	if err := c.get(ctx, "drivers", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AcceptJob(ctx context.Context, id string) (*models.DriverJob, error) {
	var out models.DriverJob
	if err := c.post(ctx, "drivers", "/drivers/jobs/"+url.PathEscape(id)+"/accept", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, id, status string) (*models.DriverJob, error) {
	var out models.DriverJob
	if err := c.put(ctx, "drivers", "/drivers/jobs/"+url.PathEscape(id)+"/status", JobStatusUpdate{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddVehicle submits the driver's vehicle. One-shot from this side; the
// API owns any further lifecycle.
func (c *Client) AddVehicle(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	var out models.Vehicle
	if err := c.post(ctx, "drivers", "/drivers/vehicles", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLocation(ctx context.Context, loc LocationUpdate) error {
	return c.put(ctx, "drivers", "/drivers/location", loc, nil)
}

func (c *Client) GetEarnings(ctx context.Context) (*models.Earnings, error) {
	var out models.Earnings
	if err := c.get(ctx, "drivers", "/drivers/earnings", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetAvailability(ctx context.Context, available bool) error {
	return c.put(ctx, "drivers", "/drivers/availability", AvailabilityUpdate{Available: available}, nil)
}
