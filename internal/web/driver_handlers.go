package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/validate"
)

var vehicleRules = map[string]validate.Rules{
	"vehicle_type": {Required: true, Label: "Vehicle type"},
	"make":         {Required: true, MinLength: 2, MaxLength: 50, Label: "Make"},
	"model":        {Required: true, MinLength: 1, MaxLength: 50, Label: "Model"},
	"plate":        {Required: true, MinLength: 4, MaxLength: 10, Label: "Plate number"},
	"capacity_kg": {Required: true, Label: "Capacity", Custom: func(v string) string {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return "Capacity must be a positive number of kilograms"
		}
		return ""
	}},
	"license_number": {Required: true, MinLength: 5, MaxLength: 20, Label: "License number"},
}

type driverJobsData struct {
	Jobs   []models.DriverJob
	Filter string
}

func (s *Server) handleDriverJobs(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	jobs, err := s.api.ListJobs(r.Context(), filter)
	data := driverJobsData{Jobs: jobs, Filter: filter}
	if err != nil {
		s.renderOrRedirect(w, r, "driver_jobs", err, viewData{Title: "Jobs", Data: data})
		return
	}
	s.render(w, r, "driver_jobs", viewData{Title: "Jobs", Data: data})
}

func (s *Server) handleJobAccept(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.api.AcceptJob(r.Context(), id); err != nil {
		s.redirectError(w, r, "/driver", err)
		return
	}
	s.flash(w, "Job accepted. Head to the pickup point.")
	http.Redirect(w, r, "/driver", http.StatusSeeOther)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := r.PostFormValue("status")
	if _, err := s.api.UpdateJobStatus(r.Context(), id, status); err != nil {
		s.redirectError(w, r, "/driver", err)
		return
	}
	http.Redirect(w, r, "/driver", http.StatusSeeOther)
}

func (s *Server) handleDriverSetupPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "driver_setup", viewData{Title: "Driver setup"})
}

// handleDriverSetupSubmit attaches the driver profile and submits the
// vehicle in one step, mirroring the original onboarding form.
func (s *Server) handleDriverSetupSubmit(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "vehicle_type", "make", "model", "plate", "capacity_kg",
		"license_number", "experience_years", "id_number")
	if errs := validate.Form(values, vehicleRules); len(errs) > 0 {
		s.render(w, r, "driver_setup", viewData{Title: "Driver setup", Errors: errs, Form: values})
		return
	}

	years, _ := strconv.Atoi(values["experience_years"])
	if _, err := s.api.RegisterDriver(r.Context(), api.DriverRegistration{
		LicenseNumber:   values["license_number"],
		ExperienceYears: years,
		IDNumber:        values["id_number"],
	}); err != nil {
		s.renderOrRedirect(w, r, "driver_setup", err, viewData{Title: "Driver setup", Form: values})
		return
	}

	capacity, _ := strconv.Atoi(values["capacity_kg"])
	if _, err := s.api.AddVehicle(r.Context(), models.Vehicle{
		Type:       values["vehicle_type"],
		Make:       values["make"],
		Model:      values["model"],
		Plate:      values["plate"],
		CapacityKG: capacity,
	}); err != nil {
		s.renderOrRedirect(w, r, "driver_setup", err, viewData{Title: "Driver setup", Form: values})
		return
	}

	s.flash(w, "Driver profile complete. You can now receive jobs.")
	http.Redirect(w, r, "/driver", http.StatusSeeOther)
}

func (s *Server) handleDriverEarnings(w http.ResponseWriter, r *http.Request) {
	earnings, err := s.api.GetEarnings(r.Context())
	if err != nil {
		s.renderOrRedirect(w, r, "driver_earnings", err, viewData{Title: "Earnings", Data: &models.Earnings{}})
		return
	}
	s.render(w, r, "driver_earnings", viewData{Title: "Earnings", Data: earnings})
}

func (s *Server) handleDriverAvailability(w http.ResponseWriter, r *http.Request) {
	available := r.PostFormValue("available") == "true"
	if err := s.api.SetAvailability(r.Context(), available); err != nil {
		s.redirectError(w, r, "/driver", err)
		return
	}
	if available {
		s.flash(w, "You are now online.")
	} else {
		s.flash(w, "You are now offline.")
	}
	http.Redirect(w, r, "/driver", http.StatusSeeOther)
}

// handleDriverLocation takes periodic position pings from the driver
// page and forwards them. Responds 204 so the page script stays quiet.
func (s *Server) handleDriverLocation(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.PostFormValue("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.PostFormValue("lon"), 64)
	if errLat != nil || errLon != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	if err := s.api.UpdateLocation(r.Context(), api.LocationUpdate{Lat: lat, Lon: lon}); err != nil {
		if api.IsUnauthorized(err) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
