package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/validate"
)

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.AdminStats(r.Context())
	if err != nil {
		s.renderOrRedirect(w, r, "admin_dashboard", err, viewData{Title: "Admin", Data: &models.DashboardStats{}})
		return
	}
	s.render(w, r, "admin_dashboard", viewData{Title: "Admin", Data: stats})
}

type adminUsersData struct {
	Users  []models.User
	Filter string
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	users, err := s.api.AdminListUsers(r.Context(), role)
	data := adminUsersData{Users: users, Filter: role}
	if err != nil {
		s.renderOrRedirect(w, r, "admin_users", err, viewData{Title: "Users", Data: data})
		return
	}
	s.render(w, r, "admin_users", viewData{Title: "Users", Data: data})
}

func (s *Server) handleAdminUserStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := r.PostFormValue("status")
	if _, err := s.api.AdminSetUserStatus(r.Context(), id, status); err != nil {
		s.redirectError(w, r, "/admin/users", err)
		return
	}
	s.flash(w, "User status updated.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.api.AdminDeleteUser(r.Context(), id); err != nil {
		s.redirectError(w, r, "/admin/users", err)
		return
	}
	s.flash(w, "User deleted.")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) handleAdminDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.api.AdminListDrivers(r.Context())
	if err != nil {
		s.renderOrRedirect(w, r, "admin_drivers", err, viewData{Title: "Drivers", Data: []models.User{}})
		return
	}
	s.render(w, r, "admin_drivers", viewData{Title: "Drivers", Data: drivers})
}

func (s *Server) handleAdminDriverVerify(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.api.AdminVerifyDriver(r.Context(), id); err != nil {
		s.redirectError(w, r, "/admin/drivers", err)
		return
	}
	s.flash(w, "Driver verified.")
	http.Redirect(w, r, "/admin/drivers", http.StatusSeeOther)
}

func (s *Server) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	bookings, err := s.api.AdminListBookings(r.Context(), status)
	data := bookingsListData{
		Bookings: bookings,
		Filter:   status,
		Statuses: []string{
			models.BookingPending, models.BookingConfirmed, models.BookingDriverAssigned,
			models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
		},
	}
	if err != nil {
		s.renderOrRedirect(w, r, "admin_bookings", err, viewData{Title: "All bookings", Data: data})
		return
	}
	s.render(w, r, "admin_bookings", viewData{Title: "All bookings", Data: data})
}

var pricingRules = map[string]validate.Rules{
	"base_fare":  {Required: true, Label: "Base fare", Custom: positiveNumber("Base fare")},
	"per_km":     {Required: true, Label: "Per km rate", Custom: positiveNumber("Per km rate")},
	"per_minute": {Required: true, Label: "Per minute rate", Custom: positiveNumber("Per minute rate")},
}

func positiveNumber(label string) func(string) string {
	return func(v string) string {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return label + " must be a non-negative number"
		}
		return ""
	}
}

func (s *Server) handleAdminPricingPage(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.api.AdminGetPricing(r.Context())
	if err != nil {
		s.renderOrRedirect(w, r, "admin_pricing", err, viewData{Title: "Pricing", Data: &models.PricingConfig{}})
		return
	}
	s.render(w, r, "admin_pricing", viewData{Title: "Pricing", Data: cfg})
}

func (s *Server) handleAdminPricingUpdate(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "base_fare", "per_km", "per_minute", "surge_enabled")
	if errs := validate.Form(values, pricingRules); len(errs) > 0 {
		s.render(w, r, "admin_pricing", viewData{Title: "Pricing", Errors: errs, Form: values, Data: &models.PricingConfig{}})
		return
	}
	baseFare, _ := strconv.ParseFloat(values["base_fare"], 64)
	perKM, _ := strconv.ParseFloat(values["per_km"], 64)
	perMinute, _ := strconv.ParseFloat(values["per_minute"], 64)
	if _, err := s.api.AdminUpdatePricing(r.Context(), models.PricingConfig{
		BaseFare:     baseFare,
		PerKM:        perKM,
		PerMinute:    perMinute,
		SurgeEnabled: values["surge_enabled"] == "on",
	}); err != nil {
		s.redirectError(w, r, "/admin/pricing", err)
		return
	}
	s.flash(w, "Pricing updated.")
	http.Redirect(w, r, "/admin/pricing", http.StatusSeeOther)
}

func (s *Server) handleAdminSettingsPage(w http.ResponseWriter, r *http.Request) {
	settings, err := s.api.AdminGetSettings(r.Context())
	if err != nil {
		s.renderOrRedirect(w, r, "admin_settings", err, viewData{Title: "Settings", Data: &models.SystemSettings{}})
		return
	}
	s.render(w, r, "admin_settings", viewData{Title: "Settings", Data: settings})
}

var settingsRules = map[string]validate.Rules{
	"booking_radius_km": {Required: true, Label: "Booking radius", Custom: positiveNumber("Booking radius")},
	"support_email":     {Required: true, Email: true, Label: "Support email"},
}

func (s *Server) handleAdminSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "booking_radius_km", "support_email", "driver_auto_assign", "maintenance_mode")
	if errs := validate.Form(values, settingsRules); len(errs) > 0 {
		s.render(w, r, "admin_settings", viewData{Title: "Settings", Errors: errs, Form: values, Data: &models.SystemSettings{}})
		return
	}
	radius, _ := strconv.ParseFloat(values["booking_radius_km"], 64)
	if _, err := s.api.AdminUpdateSettings(r.Context(), models.SystemSettings{
		BookingRadiusKM:  radius,
		SupportEmail:     values["support_email"],
		DriverAutoAssign: values["driver_auto_assign"] == "on",
		MaintenanceMode:  values["maintenance_mode"] == "on",
	}); err != nil {
		s.redirectError(w, r, "/admin/settings", err)
		return
	}
	s.flash(w, "Settings saved.")
	http.Redirect(w, r, "/admin/settings", http.StatusSeeOther)
}

func (s *Server) handleAdminSystemAction(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	if err := s.api.AdminSystemAction(r.Context(), action); err != nil {
		s.redirectError(w, r, "/admin", err)
		return
	}
	s.flash(w, "Action triggered: "+action)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
