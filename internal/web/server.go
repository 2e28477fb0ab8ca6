package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/config"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/session"
)

// Server renders the role-specific dashboard views and proxies every
// business operation to the MoveNow API. It owns no business logic: a
// request is parsed, validated locally, forwarded, and the upstream
// answer rendered verbatim.
type Server struct {
	api     *api.Client
	store   session.Store
	cfg     config.Config
	logger  *slog.Logger
	mux     *mux.Router
	tracker *trackRelay
}

func NewServer(cfg config.Config, client *api.Client, store session.Store, logger *slog.Logger) *Server {
	s := &Server{
		api:    client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		mux:    mux.NewRouter(),
	}
	s.tracker = newTrackRelay(client, cfg.TrackPollInterval, logger)
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.mux

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	s.registerStatic()

	r.HandleFunc("/", s.handleRoot).Methods("GET")
	r.HandleFunc("/login", s.handleLoginPage).Methods("GET")
	r.HandleFunc("/login", s.handleLoginSubmit).Methods("POST")
	r.HandleFunc("/register", s.handleRegisterPage).Methods("GET")
	r.HandleFunc("/register", s.handleRegisterSubmit).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")

	// Customer views.
	r.HandleFunc("/customer", s.guard(models.RoleCustomer, s.handleCustomerDashboard)).Methods("GET")
	r.HandleFunc("/customer/bookings", s.guard(models.RoleCustomer, s.handleBookingsList)).Methods("GET")
	r.HandleFunc("/customer/bookings/new", s.guard(models.RoleCustomer, s.handleBookingNewPage)).Methods("GET")
	r.HandleFunc("/customer/bookings/estimate", s.guard(models.RoleCustomer, s.handleBookingEstimate)).Methods("POST")
	r.HandleFunc("/customer/bookings/new", s.guard(models.RoleCustomer, s.handleBookingCreate)).Methods("POST")
	r.HandleFunc("/customer/bookings/{id}", s.guard(models.RoleCustomer, s.handleBookingDetail)).Methods("GET")
	r.HandleFunc("/customer/bookings/{id}/cancel", s.guard(models.RoleCustomer, s.handleBookingCancel)).Methods("POST")
	r.HandleFunc("/customer/profile", s.guard(models.RoleCustomer, s.handleProfilePage)).Methods("GET")
	r.HandleFunc("/customer/profile", s.guard(models.RoleCustomer, s.handleProfileUpdate)).Methods("POST")

	// Live tracking stream; the page opens this after render.
	r.HandleFunc("/ws/bookings/{id}", s.guardAny(s.handleTrackSocket)).Methods("GET")

	// Driver views.
	r.HandleFunc("/driver", s.guard(models.RoleDriver, s.handleDriverJobs)).Methods("GET")
	r.HandleFunc("/driver/jobs/{id}/accept", s.guard(models.RoleDriver, s.handleJobAccept)).Methods("POST")
	r.HandleFunc("/driver/jobs/{id}/status", s.guard(models.RoleDriver, s.handleJobStatus)).Methods("POST")
	r.HandleFunc("/driver/setup", s.guard(models.RoleDriver, s.handleDriverSetupPage)).Methods("GET")
	r.HandleFunc("/driver/setup", s.guard(models.RoleDriver, s.handleDriverSetupSubmit)).Methods("POST")
	r.HandleFunc("/driver/earnings", s.guard(models.RoleDriver, s.handleDriverEarnings)).Methods("GET")
	r.HandleFunc("/driver/availability", s.guard(models.RoleDriver, s.handleDriverAvailability)).Methods("POST")
	r.HandleFunc("/driver/location", s.guard(models.RoleDriver, s.handleDriverLocation)).Methods("POST")

	// Admin views.
	r.HandleFunc("/admin", s.guard(models.RoleAdmin, s.handleAdminDashboard)).Methods("GET")
	r.HandleFunc("/admin/users", s.guard(models.RoleAdmin, s.handleAdminUsers)).Methods("GET")
	r.HandleFunc("/admin/users/{id}/status", s.guard(models.RoleAdmin, s.handleAdminUserStatus)).Methods("POST")
	r.HandleFunc("/admin/users/{id}/delete", s.guard(models.RoleAdmin, s.handleAdminUserDelete)).Methods("POST")
	r.HandleFunc("/admin/drivers", s.guard(models.RoleAdmin, s.handleAdminDrivers)).Methods("GET")
	r.HandleFunc("/admin/drivers/{id}/verify", s.guard(models.RoleAdmin, s.handleAdminDriverVerify)).Methods("POST")
	r.HandleFunc("/admin/bookings", s.guard(models.RoleAdmin, s.handleAdminBookings)).Methods("GET")
	r.HandleFunc("/admin/pricing", s.guard(models.RoleAdmin, s.handleAdminPricingPage)).Methods("GET")
	r.HandleFunc("/admin/pricing", s.guard(models.RoleAdmin, s.handleAdminPricingUpdate)).Methods("POST")
	r.HandleFunc("/admin/settings", s.guard(models.RoleAdmin, s.handleAdminSettingsPage)).Methods("GET")
	r.HandleFunc("/admin/settings", s.guard(models.RoleAdmin, s.handleAdminSettingsUpdate)).Methods("POST")
	r.HandleFunc("/admin/system/{action}", s.guard(models.RoleAdmin, s.handleAdminSystemAction)).Methods("POST")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

// Close tears down the long-lived tracking sockets that Shutdown leaves
// behind.
func (s *Server) Close() { s.tracker.closeAll() }

// handleRoot sends an authenticated user to their role's home and
// everyone else to the login view. This is where the two-phase session
// restore runs: cached credentials are confirmed upstream before the
// redirect commits.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	mgr := s.session(r)
	if err := mgr.Initialize(r.Context()); err != nil {
		s.logger.Error("session init failed", "error", err)
	}
	if user := mgr.CurrentUser(); user != nil {
		http.Redirect(w, r, roleHome(user.Role), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func roleHome(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleDriver:
		return "/driver"
	default:
		return "/customer"
	}
}
