package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/kagwathi/movenow-dashboard/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "movenow_flash"

var templateFuncs = template.FuncMap{
	"badgeClass": badgeClass,
	"money": func(amount float64, currency string) string {
		if currency == "" {
			currency = "KES"
		}
		return fmt.Sprintf("%s %.2f", currency, amount)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006 15:04")
	},
	"title": titleCase,
}

// pages maps a view name to its parsed template set (layout + page).
// Parsed once at startup; a broken template is a deploy-time failure.
var pages = func() map[string]*template.Template {
	names := []string{
		"login", "register",
		"customer_dashboard", "bookings", "booking_new", "booking_detail", "profile",
		"driver_jobs", "driver_setup", "driver_earnings",
		"admin_dashboard", "admin_users", "admin_drivers", "admin_bookings",
		"admin_pricing", "admin_settings",
	}
	m := make(map[string]*template.Template, len(names))
	for _, n := range names {
		m[n] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).
				ParseFS(templateFS, "templates/layout.html", "templates/"+n+".html"),
		)
	}
	return m
}()

// viewData is what every page template receives.
type viewData struct {
	Title  string
	User   *models.User
	Flash  string
	Errors map[string]string // field name -> message
	Form   map[string]string // submitted values, echoed back on failure
	Error  string            // banner error, e.g. an upstream rejection
	Data   any               // page-specific payload
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data viewData) {
	tmpl, ok := pages[page]
	if !ok {
		s.logger.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data.User == nil {
		data.User = s.session(r).CurrentUser()
	}
	if data.Flash == "" {
		data.Flash = s.popFlash(w, r)
	}
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	if data.Form == nil {
		data.Form = map[string]string{}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("render failed", "page", page, "error", err)
	}
}

// flash stores a one-shot notice shown on the next page load.
func (s *Server) flash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

func badgeClass(status string) string {
	switch status {
	case models.BookingPending:
		return "badge badge-pending"
	case models.BookingConfirmed, models.BookingDriverAssigned:
		return "badge badge-active"
	case models.BookingInProgress:
		return "badge badge-progress"
	case models.BookingCompleted:
		return "badge badge-done"
	case models.BookingCancelled:
		return "badge badge-cancelled"
	default:
		return "badge"
	}
}

func titleCase(s string) string {
	out := []rune(s)
	prevSpace := true
	for i, r := range out {
		if r == '_' {
			out[i] = ' '
			prevSpace = true
			continue
		}
		if prevSpace && r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
		prevSpace = r == ' '
	}
	return string(out)
}
