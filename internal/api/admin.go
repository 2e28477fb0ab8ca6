package api

import (
	"context"
	"net/url"

	"github.com/kagwathi/movenow-dashboard/internal/models"
)

type UserStatusUpdate struct {
	Status string `json:"status"`
}

func (c *Client) AdminStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.get(ctx, "admin", "/admin/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminListUsers(ctx context.Context, role string) ([]models.User, error) {
	path := "/admin/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}
	var out []models.User
	if err := c.get(ctx, "admin", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminSetUserStatus(ctx context.Context, id, status string) (*models.User, error) {
	var out models.User
	if err := c.put(ctx, "admin", "/admin/users/"+url.PathEscape(id)+"/status", UserStatusUpdate{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "admin", "/admin/users/"+url.PathEscape(id))
}

func (c *Client) AdminListDrivers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "admin", "/admin/drivers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminVerifyDriver(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.put(ctx, "admin", "/admin/drivers/"+url.PathEscape(id)+"/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	path := "/admin/bookings"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []models.Booking
	if err := c.get(ctx, "admin", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminGetPricing(ctx context.Context) (*models.PricingConfig, error) {
	var out models.PricingConfig
	if err := c.get(ctx, "admin", "/admin/pricing", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUpdatePricing(ctx context.Context, cfg models.PricingConfig) (*models.PricingConfig, error) {
	var out models.PricingConfig
	if err := c.put(ctx, "admin", "/admin/pricing", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminGetSettings(ctx context.Context) (*models.SystemSettings, error) {
	var out models.SystemSettings
	if err := c.get(ctx, "admin", "/admin/settings", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUpdateSettings(ctx context.Context, s models.SystemSettings) (*models.SystemSettings, error) {
	var out models.SystemSettings
	if err := c.put(ctx, "admin", "/admin/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminSystemAction triggers a named maintenance action, e.g. cache flush
// or report rebuild. The action vocabulary is owned by the API.
func (c *Client) AdminSystemAction(ctx context.Context, action string) error {
	return c.post(ctx, "admin", "/admin/system/"+url.PathEscape(action), nil, nil)
}
