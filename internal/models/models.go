package models

import "time"

// Roles as reported by the MoveNow API. The dashboard never decides a
// user's role; it only routes them to the matching views.
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

// Booking lifecycle tags. Owned by the API; mirrored here so views can
// filter and badge them.
const (
	BookingPending        = "pending"
	BookingConfirmed      = "confirmed"
	BookingDriverAssigned = "driver_assigned"
	BookingInProgress     = "in_progress"
	BookingCompleted      = "completed"
	BookingCancelled      = "cancelled"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u *User) IsDriver() bool { return u.Role == RoleDriver }

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type Booking struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	DriverID    string    `json:"driver_id,omitempty"`
	Status      string    `json:"status"`
	Pickup      Location  `json:"pickup"`
	Dropoff     Location  `json:"dropoff"`
	VehicleType string    `json:"vehicle_type"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanCancel reports whether a cancel transition is still allowed.
// Completed and cancelled bookings are terminal.
func (b *Booking) CanCancel() bool {
	switch b.Status {
	case BookingPending, BookingConfirmed, BookingDriverAssigned, BookingInProgress:
		return true
	}
	return false
}

// TrackingUpdate is the live view of an active booking: its current
// status plus the assigned driver's last reported position.
type TrackingUpdate struct {
	BookingID      string    `json:"booking_id"`
	Status         string    `json:"status"`
	DriverLocation *Location `json:"driver_location,omitempty"`
	ETAMinutes     float64   `json:"eta_minutes,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Vehicle struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Plate      string `json:"plate"`
	CapacityKG int    `json:"capacity_kg"`
	Year       int    `json:"year,omitempty"`
}

type DriverJob struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	Pickup    Location  `json:"pickup"`
	Dropoff   Location  `json:"dropoff"`
	Payout    float64   `json:"payout"`
	Customer  string    `json:"customer_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Earnings struct {
	TotalPaid   float64 `json:"total_paid"`
	Pending     float64 `json:"pending"`
	JobsDone    int     `json:"jobs_done"`
	Currency    string  `json:"currency"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
}

type PriceEstimate struct {
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	DistanceKM  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	VehicleType string  `json:"vehicle_type"`
}

// DashboardStats is the admin overview aggregate, computed upstream and
// rendered as-is.
type DashboardStats struct {
	TotalUsers     int     `json:"total_users"`
	TotalDrivers   int     `json:"total_drivers"`
	ActiveBookings int     `json:"active_bookings"`
	CompletedToday int     `json:"completed_today"`
	RevenueToday   float64 `json:"revenue_today"`
	RevenueMonth   float64 `json:"revenue_month"`
	PendingPayouts float64 `json:"pending_payouts"`
	Currency       string  `json:"currency"`
}

type PricingConfig struct {
	BaseFare     float64 `json:"base_fare"`
	PerKM        float64 `json:"per_km"`
	PerMinute    float64 `json:"per_minute"`
	SurgeEnabled bool    `json:"surge_enabled"`
	Currency     string  `json:"currency"`
}

type SystemSettings struct {
	BookingRadiusKM  float64 `json:"booking_radius_km"`
	DriverAutoAssign bool    `json:"driver_auto_assign"`
	MaintenanceMode  bool    `json:"maintenance_mode"`
	SupportEmail     string  `json:"support_email"`
}
