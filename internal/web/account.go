package web

import (
	"errors"
	"net/http"
	"strings"

	"condo/internal/authz"
	"condo/internal/identity"
	"condo/internal/metrics"
	"condo/internal/models"
)

type loginView struct {
	Page
	Email     string
	Error     string
	ReturnURL string
}

type registerView struct {
	Page
	Email string
	Role  string
	Roles []models.Role
	Error string
}

func destinationPath(d authz.Destination) string {
	switch d {
	case authz.FinancialIndex:
		return "/financial"
	case authz.ContractsIndex:
		return "/contracts"
	default:
		return "/"
	}
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.tmpl", loginView{Page: h.page(w, r, "Login"), ReturnURL: r.URL.Query().Get("returnUrl")})
}

// Login: после входа пользователь уходит на страницу своей роли; учётка
// без ролей в сессию не попадает.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	view := loginView{Page: h.page(w, r, "Login"), Email: email, ReturnURL: r.PostFormValue("returnUrl")}

	if email == "" || password == "" {
		view.Error = "Fill in all fields."
		h.renderStatus(w, http.StatusUnprocessableEntity, "login.tmpl", view)
		return
	}

	acc, roles, err := h.d.Identity.Authenticate(r.Context(), email, password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		metrics.LoginCounter.WithLabelValues("invalid_credentials").Inc()
		h.log(r).WithField("email", email).Warn("login failed")
		view.Error = "Invalid email or password."
		h.renderStatus(w, http.StatusUnauthorized, "login.tmpl", view)
		return
	}
	if err != nil {
		metrics.LoginCounter.WithLabelValues("error").Inc()
		h.serverError(w, r, err)
		return
	}

	dest, err := authz.RouteAfterLogin(roles)
	if errors.Is(err, authz.ErrNoRoleAssigned) {
		metrics.LoginCounter.WithLabelValues("no_role").Inc()
		h.log(r).WithField("account", acc.ID).Warn("login refused: no role assigned")
		h.d.Sessions.SignOut(w)
		view.Error = "User has no role assigned. Contact the administrator."
		h.renderStatus(w, http.StatusForbidden, "login.tmpl", view)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.d.Sessions.SignIn(w, acc); err != nil {
		metrics.LoginCounter.WithLabelValues("error").Inc()
		h.serverError(w, r, err)
		return
	}
	metrics.LoginCounter.WithLabelValues("success").Inc()
	h.log(r).WithField("account", acc.ID).WithField("destination", dest.String()).Info("signed in")
	h.redirect(w, r, destinationPath(dest))
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.tmpl", registerView{Page: h.page(w, r, "Register"), Roles: models.Roles})
}

// Register: новый Tenant просто создаётся, администратор остаётся в своей сессии;
// для остальных ролей сессия переключается на созданную учётку.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in := identity.RegisterInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
	}
	acc, role, err := h.d.Identity.Register(r.Context(), in)
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		h.renderStatus(w, http.StatusUnprocessableEntity, "register.tmpl", registerView{
			Page:  h.page(w, r, "Register"),
			Email: in.Email,
			Role:  in.Role,
			Roles: models.Roles,
			Error: ve.Message,
		})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	metrics.RegistrationCounter.WithLabelValues(role.String()).Inc()

	if role == models.RoleTenant {
		setFlash(w, "Tenant created successfully!")
		h.redirect(w, r, "/")
		return
	}
	if err := h.d.Sessions.SignIn(w, acc); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.redirect(w, r, "/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.d.Sessions.SignOut(w)
	h.log(r).Info("signed out")
	h.redirect(w, r, "/account/login")
}

func (h *Handler) AccessDenied(w http.ResponseWriter, r *http.Request) {
	h.render(w, "access_denied.tmpl", h.page(w, r, "Access denied"))
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.tmpl", h.page(w, r, "Home"))
}
