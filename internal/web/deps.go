package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"condo/internal/authz"
	"condo/internal/identity"
	"condo/internal/repo"
)

type Dependencies struct {
	Identity *identity.Service
	Sessions *identity.Sessions
	Stores   repo.Stores
}

// Attach вешает страницы приложения на роутер. Сессия разбирается для всех
// маршрутов подроутера; права проверяются на уровне каждого маршрута.
func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates()}
	sub := r.NewRoute().Subrouter()
	sub.Use(h.authenticate)

	sub.HandleFunc("/", h.requireAuth(h.Home)).Methods(http.MethodGet)
	sub.HandleFunc("/static/style.css", serveCSS).Methods(http.MethodGet)

	// account
	acc := sub.PathPrefix("/account").Subrouter()
	acc.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	acc.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	acc.HandleFunc("/register", h.requireRole(authz.CanRegister, h.RegisterPage)).Methods(http.MethodGet)
	acc.HandleFunc("/register", h.requireRole(authz.CanRegister, h.Register)).Methods(http.MethodPost)
	acc.HandleFunc("/logout", h.requireAuth(h.Logout)).Methods(http.MethodPost)
	acc.HandleFunc("/access-denied", h.AccessDenied).Methods(http.MethodGet)

	// contracts
	c := sub.PathPrefix("/contracts").Subrouter()
	c.HandleFunc("", h.requireAuth(h.ContractsIndex)).Methods(http.MethodGet)
	c.HandleFunc("/create", h.requireRole(authz.CanManageContracts, h.ContractCreatePage)).Methods(http.MethodGet)
	c.HandleFunc("/create", h.requireRole(authz.CanManageContracts, h.ContractCreate)).Methods(http.MethodPost)
	c.HandleFunc("/{id:[0-9]+}", h.requireAuth(h.ContractDetails)).Methods(http.MethodGet)
	c.HandleFunc("/{id:[0-9]+}/edit", h.requireRole(authz.CanManageContracts, h.ContractEditPage)).Methods(http.MethodGet)
	c.HandleFunc("/{id:[0-9]+}/edit", h.requireRole(authz.CanManageContracts, h.ContractEdit)).Methods(http.MethodPost)
	c.HandleFunc("/{id:[0-9]+}/delete", h.requireRole(authz.CanManageContracts, h.ContractDelete)).Methods(http.MethodPost)

	// financial
	f := sub.PathPrefix("/financial").Subrouter()
	f.HandleFunc("", h.requireAuth(h.FinancialIndex)).Methods(http.MethodGet)
	f.HandleFunc("/create", h.requireRole(authz.CanManageFinancials, h.PaymentCreatePage)).Methods(http.MethodGet)
	f.HandleFunc("/create", h.requireRole(authz.CanManageFinancials, h.PaymentCreate)).Methods(http.MethodPost)
	f.HandleFunc("/report", h.requireRole(authz.CanViewFinancialReport, h.FinancialReport)).Methods(http.MethodGet)
}
