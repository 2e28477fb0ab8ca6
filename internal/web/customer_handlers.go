package web

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/validate"
)

var bookingRules = map[string]validate.Rules{
	"pickup_address":  {Required: true, MinLength: 5, MaxLength: 200, Label: "Pickup address"},
	"dropoff_address": {Required: true, MinLength: 5, MaxLength: 200, Label: "Dropoff address"},
	"vehicle_type":    {Required: true, Label: "Vehicle type"},
}

type customerDashboardData struct {
	Active []models.Booking
	Recent []models.Booking
}

func (s *Server) handleCustomerDashboard(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.api.ListBookings(r.Context(), "")
	if err != nil {
		s.renderOrRedirect(w, r, "customer_dashboard", err, viewData{Title: "Dashboard", Data: customerDashboardData{}})
		return
	}
	var data customerDashboardData
	for _, b := range bookings {
		if b.Status == models.BookingCompleted || b.Status == models.BookingCancelled {
			data.Recent = append(data.Recent, b)
		} else {
			data.Active = append(data.Active, b)
		}
	}
	// Newest first; the API does not promise an order.
	sort.Slice(data.Recent, func(i, j int) bool { return data.Recent[i].CreatedAt.After(data.Recent[j].CreatedAt) })
	if len(data.Recent) > 5 {
		data.Recent = data.Recent[:5]
	}
	s.render(w, r, "customer_dashboard", viewData{Title: "Dashboard", Data: data})
}

type bookingsListData struct {
	Bookings []models.Booking
	Filter   string
	Statuses []string
}

func (s *Server) handleBookingsList(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	bookings, err := s.api.ListBookings(r.Context(), filter)
	data := bookingsListData{
		Bookings: bookings,
		Filter:   filter,
		Statuses: []string{
			models.BookingPending, models.BookingConfirmed, models.BookingDriverAssigned,
			models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
		},
	}
	if err != nil {
		s.renderOrRedirect(w, r, "bookings", err, viewData{Title: "My bookings", Data: data})
		return
	}
	sort.Slice(data.Bookings, func(i, j int) bool { return data.Bookings[i].CreatedAt.After(data.Bookings[j].CreatedAt) })
	s.render(w, r, "bookings", viewData{Title: "My bookings", Data: data})
}

type bookingNewData struct {
	Estimate     *models.PriceEstimate
	VehicleTypes []string
}

func newBookingData(est *models.PriceEstimate) bookingNewData {
	return bookingNewData{
		Estimate:     est,
		VehicleTypes: []string{"pickup", "van", "truck"},
	}
}

func (s *Server) handleBookingNewPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "booking_new", viewData{Title: "New booking", Data: newBookingData(nil)})
}

// handleBookingEstimate runs the quote step: same form, price shown, not
// yet committed.
func (s *Server) handleBookingEstimate(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "pickup_address", "dropoff_address", "vehicle_type",
		"pickup_lat", "pickup_lon", "dropoff_lat", "dropoff_lon")
	if errs := validate.Form(values, bookingRules); len(errs) > 0 {
		s.render(w, r, "booking_new", viewData{Title: "New booking", Errors: errs, Form: values, Data: newBookingData(nil)})
		return
	}

	est, err := s.api.EstimatePrice(r.Context(), api.EstimateRequest{
		Pickup:      locationFromForm(values, "pickup"),
		Dropoff:     locationFromForm(values, "dropoff"),
		VehicleType: values["vehicle_type"],
	})
	if err != nil {
		s.renderOrRedirect(w, r, "booking_new", err, viewData{Title: "New booking", Form: values, Data: newBookingData(nil)})
		return
	}
	s.render(w, r, "booking_new", viewData{Title: "New booking", Form: values, Data: newBookingData(est)})
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "pickup_address", "dropoff_address", "vehicle_type",
		"pickup_lat", "pickup_lon", "dropoff_lat", "dropoff_lon", "scheduled_at", "notes")
	if errs := validate.Form(values, bookingRules); len(errs) > 0 {
		s.render(w, r, "booking_new", viewData{Title: "New booking", Errors: errs, Form: values, Data: newBookingData(nil)})
		return
	}

	booking, err := s.api.CreateBooking(r.Context(), api.BookingRequest{
		Pickup:      locationFromForm(values, "pickup"),
		Dropoff:     locationFromForm(values, "dropoff"),
		VehicleType: values["vehicle_type"],
		ScheduledAt: values["scheduled_at"],
		Notes:       values["notes"],
	})
	if err != nil {
		s.renderOrRedirect(w, r, "booking_new", err, viewData{Title: "New booking", Form: values, Data: newBookingData(nil)})
		return
	}
	s.flash(w, "Booking created. We are finding you a driver.")
	http.Redirect(w, r, "/customer/bookings/"+booking.ID, http.StatusSeeOther)
}

func (s *Server) handleBookingDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	booking, err := s.api.GetBooking(r.Context(), id)
	if err != nil {
		s.redirectError(w, r, "/customer/bookings", err)
		return
	}
	s.render(w, r, "booking_detail", viewData{Title: "Booking " + booking.ID, Data: booking})
}

func (s *Server) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.api.CancelBooking(r.Context(), id); err != nil {
		s.redirectError(w, r, "/customer/bookings/"+id, err)
		return
	}
	s.flash(w, "Booking cancelled.")
	http.Redirect(w, r, "/customer/bookings", http.StatusSeeOther)
}

var profileRules = map[string]validate.Rules{
	"name": {Required: true, Label: "Name", Custom: func(v string) string {
		if !validate.Name(v) {
			return "Name must be 2-50 characters, letters and spaces only"
		}
		return ""
	}},
	"phone": {Required: true, Phone: true, Label: "Phone"},
}

func (s *Server) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	user, err := s.api.Profile(r.Context())
	if err != nil {
		s.redirectError(w, r, "/customer", err)
		return
	}
	s.render(w, r, "profile", viewData{
		Title: "Profile",
		Form:  map[string]string{"name": user.Name, "phone": user.Phone, "email": user.Email},
		Data:  user,
	})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "name", "phone")
	if errs := validate.Form(values, profileRules); len(errs) > 0 {
		s.render(w, r, "profile", viewData{Title: "Profile", Errors: errs, Form: values})
		return
	}
	// The session can be force-cleared by a concurrent 401 between the
	// route guard and here.
	current := s.session(r).Peek(r.Context())
	if current == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	updated := *current
	updated.Name = values["name"]
	updated.Phone = values["phone"]
	if _, err := s.api.UpdateProfile(r.Context(), updated); err != nil {
		s.render(w, r, "profile", viewData{Title: "Profile", Error: err.Error(), Errors: api.FieldErrors(err), Form: values})
		return
	}
	s.flash(w, "Profile updated.")
	http.Redirect(w, r, "/customer/profile", http.StatusSeeOther)
}

func locationFromForm(values map[string]string, prefix string) models.Location {
	lat, _ := strconv.ParseFloat(values[prefix+"_lat"], 64)
	lon, _ := strconv.ParseFloat(values[prefix+"_lon"], 64)
	return models.Location{Address: values[prefix+"_address"], Lat: lat, Lon: lon}
}

// renderOrRedirect shows the page with the upstream error unless the
// session was force-logged-out by a 401, which always lands on /login.
func (s *Server) renderOrRedirect(w http.ResponseWriter, r *http.Request, page string, err error, data viewData) {
	if api.IsUnauthorized(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	data.Error = err.Error()
	s.render(w, r, page, data)
}

// redirectError is for actions with no form to re-render: flash and go.
func (s *Server) redirectError(w http.ResponseWriter, r *http.Request, to string, err error) {
	if api.IsUnauthorized(err) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.flash(w, err.Error())
	http.Redirect(w, r, to, http.StatusSeeOther)
}
