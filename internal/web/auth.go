package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"condo/internal/authz"
	"condo/internal/metrics"
	"condo/internal/repo"
)

// Principal — вошедший пользователь. Роли читаются из хранилища на каждом запросе.
type Principal struct {
	AccountID string
	Email     string
	Roles     authz.RoleSet
}

// RoleNames — роли через запятую для шапки страницы.
func (p *Principal) RoleNames() string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles.Slice() {
		names = append(names, r.String())
	}
	return strings.Join(names, ", ")
}

func (p *Principal) CanRegister() bool            { return authz.CanRegister(p.Roles) }
func (p *Principal) CanManageContracts() bool     { return authz.CanManageContracts(p.Roles) }
func (p *Principal) CanManageFinancials() bool    { return authz.CanManageFinancials(p.Roles) }
func (p *Principal) CanViewFinancialReport() bool { return authz.CanViewFinancialReport(p.Roles) }

type principalKey struct{}

func withPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// authenticate разбирает cookie сессии. Битая сессия или удалённая учётка —
// запрос идёт дальше анонимным, cookie стирается.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.d.Sessions.FromRequest(r)
		if err != nil {
			if _, cerr := r.Cookie(h.d.Sessions.CookieName()); cerr == nil {
				h.d.Sessions.SignOut(w)
			}
			next.ServeHTTP(w, r)
			return
		}
		acc, err := h.d.Identity.FindByID(r.Context(), claims.AccountID)
		if errors.Is(err, repo.ErrNotFound) {
			h.d.Sessions.SignOut(w)
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		roles, err := h.d.Identity.RolesOf(r.Context(), acc.ID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		p := &Principal{AccountID: acc.ID, Email: acc.Email, Roles: roles}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if principalFrom(r.Context()) == nil {
			h.redirect(w, r, "/account/login?returnUrl="+url.QueryEscape(r.URL.RequestURI()))
			return
		}
		next(w, r)
	}
}

// requireRole — вход обязателен, плюс предикат политики над ролями.
func (h *Handler) requireRole(allowed func(authz.RoleSet) bool, next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !allowed(principalFrom(r.Context()).Roles) {
			h.forbidden(w, r)
			return
		}
		next(w, r)
	})
}

func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request) {
	route := "unmatched"
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			route = tpl
		}
	}
	metrics.AccessDenied.WithLabelValues(route).Inc()
	h.log(r).WithField("route", route).Warn("access denied")
	h.renderStatus(w, http.StatusForbidden, "access_denied.tmpl", h.page(w, r, "Access denied"))
}
