package api

import (
	"context"
	"net/url"

	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/observability"
)

type BookingRequest struct {
	Pickup      models.Location `json:"pickup"`
	Dropoff     models.Location `json:"dropoff"`
	VehicleType string          `json:"vehicle_type"`
	ScheduledAt string          `json:"scheduled_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

type EstimateRequest struct {
	Pickup      models.Location `json:"pickup"`
	Dropoff     models.Location `json:"dropoff"`
	VehicleType string          `json:"vehicle_type"`
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := c.post(ctx, "bookings", "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBookings returns the caller's bookings, optionally filtered by
// status. Filtering also happens upstream; the parameter just trims the
// payload.
func (c *Client) ListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	path := "/bookings"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []models.Booking
	if err := c.get(ctx, "bookings", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var out models.Booking
	if err := c.get(ctx, "bookings", "/bookings/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	var out models.Booking
	if err := c.put(ctx, "bookings", "/bookings/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackBooking fetches the live status and driver position for an active
// booking. The websocket relay polls this.
func (c *Client) TrackBooking(ctx context.Context, id string) (*models.TrackingUpdate, error) {
	var out models.TrackingUpdate
	if err := c.get(ctx, "bookings", "/bookings/"+url.PathEscape(id)+"/track", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EstimatePrice quotes a route. Identical requests within the cache TTL
// are answered locally.
func (c *Client) EstimatePrice(ctx context.Context, req EstimateRequest) (*models.PriceEstimate, error) {
	if c.estimates != nil {
		if v, ok := c.estimates.get(req); ok {
			observability.EstimateCacheHits.Inc()
			return &v, nil
		}
	}
	var out models.PriceEstimate
	if err := c.post(ctx, "pricing", "/pricing/estimate", req, &out); err != nil {
		return nil, err
	}
	if c.estimates != nil {
		c.estimates.set(req, out)
	}
	return &out, nil
}
