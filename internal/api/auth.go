package api

import (
	"context"

	"github.com/kagwathi/movenow-dashboard/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type DriverRegistration struct {
	LicenseNumber   string `json:"license_number"`
	ExperienceYears int    `json:"experience_years"`
	IDNumber        string `json:"id_number"`
}

// AuthResponse is the login/register payload: an opaque bearer token plus
// the user record it authenticates.
type AuthResponse struct {
	Token string       `json:"access_token"`
	User  *models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "auth", "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "auth", "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "auth", "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, u models.User) (*models.User, error) {
	var out models.User
	if err := c.put(ctx, "auth", "/auth/profile", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterDriver attaches a driver profile to the current account.
func (c *Client) RegisterDriver(ctx context.Context, reg DriverRegistration) (*models.User, error) {
	var out models.User
	if err := c.post(ctx, "auth", "/auth/register-driver", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side. Callers treat failures as
// non-fatal; local state is cleared either way.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "auth", "/auth/logout", nil, nil)
}
