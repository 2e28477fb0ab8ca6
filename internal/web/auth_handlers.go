package web

import (
	"net/http"
	"strings"

	"github.com/kagwathi/movenow-dashboard/internal/api"
	"github.com/kagwathi/movenow-dashboard/internal/models"
	"github.com/kagwathi/movenow-dashboard/internal/validate"
)

var loginRules = map[string]validate.Rules{
	"email":    {Required: true, Email: true, Label: "Email"},
	"password": {Required: true, MinLength: 6, Label: "Password"},
}

var registerRules = map[string]validate.Rules{
	"name": {Required: true, Label: "Name", Custom: func(v string) string {
		if !validate.Name(v) {
			return "Name must be 2-50 characters, letters and spaces only"
		}
		return ""
	}},
	"email": {Required: true, Email: true, Label: "Email"},
	"phone": {Required: true, Phone: true, Label: "Phone"},
	"password": {Required: true, Label: "Password", Custom: func(v string) string {
		if !validate.Password(v).IsValid() {
			return "Password must be at least 8 characters with uppercase, lowercase, a digit and a special character"
		}
		return ""
	}},
	"confirm_password": {Required: true, Match: "password", Label: "Confirm password"},
	"role": {Required: true, Label: "Role", Custom: func(v string) string {
		if v != models.RoleCustomer && v != models.RoleDriver {
			return "Please choose a valid account type"
		}
		return ""
	}},
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.session(r).Peek(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login", viewData{Title: "Log in"})
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "email", "password")
	if errs := validate.Form(values, loginRules); len(errs) > 0 {
		s.render(w, r, "login", viewData{Title: "Log in", Errors: errs, Form: values})
		return
	}

	mgr := s.session(r)
	user, err := mgr.Login(r.Context(), values["email"], values["password"])
	if err != nil {
		s.render(w, r, "login", viewData{
			Title:  "Log in",
			Error:  err.Error(),
			Errors: api.FieldErrors(err),
			Form:   values,
		})
		return
	}
	http.Redirect(w, r, roleHome(user.Role), http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if s.session(r).Peek(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "register", viewData{Title: "Create account"})
}

func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	values := formValues(r, "name", "email", "phone", "password", "confirm_password", "role")
	if errs := validate.Form(values, registerRules); len(errs) > 0 {
		s.render(w, r, "register", viewData{Title: "Create account", Errors: errs, Form: values})
		return
	}

	mgr := s.session(r)
	user, err := mgr.Register(r.Context(), api.Registration{
		Name:     values["name"],
		Email:    values["email"],
		Phone:    values["phone"],
		Password: values["password"],
		Role:     values["role"],
	})
	if err != nil {
		// Upstream field errors map back onto the form where possible,
		// e.g. a duplicate email lands on the email field.
		s.render(w, r, "register", viewData{
			Title:  "Create account",
			Error:  err.Error(),
			Errors: api.FieldErrors(err),
			Form:   values,
		})
		return
	}
	if user.Role == models.RoleDriver {
		s.flash(w, "Welcome! Finish setting up your driver profile to start receiving jobs.")
		http.Redirect(w, r, "/driver/setup", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, roleHome(user.Role), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session(r).Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func formValues(r *http.Request, fields ...string) map[string]string {
	_ = r.ParseForm()
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		v := r.PostFormValue(f)
		// Passwords keep their whitespace; everything else is trimmed.
		if !strings.Contains(f, "password") {
			v = strings.TrimSpace(v)
		}
		values[f] = v
	}
	return values
}
