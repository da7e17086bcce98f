// Package web — HTML-интерфейс: вход, регистрация, договоры и финансы.
package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"condo/internal/logs"
	"condo/internal/middleware"
)

type Handler struct {
	d Dependencies
	t pageTemplates
}

const flashCookie = "condo_flash"

// Page — общая часть всех view-моделей.
type Page struct {
	Title string
	User  *Principal
	Flash string
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, title string) Page {
	return Page{Title: title, User: principalFrom(r.Context()), Flash: popFlash(w, r)}
}

func (h *Handler) log(r *http.Request) *logrus.Entry {
	e := logs.Logger.WithField("reqid", middleware.GetRequestID(r))
	if p := principalFrom(r.Context()); p != nil {
		e = e.WithField("account", p.AccountID)
	}
	return e
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	h.renderStatus(w, http.StatusOK, page, data)
}

// renderStatus исполняет шаблон в буфер: при ошибке клиент не получит полстраницы.
func (h *Handler) renderStatus(w http.ResponseWriter, status int, page string, data any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logs.Logger.WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorView struct {
	Page
	Status  int
	Message string
}

func (h *Handler) errorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.renderStatus(w, status, "error.tmpl", errorView{
		Page:    h.page(w, r, http.StatusText(status)),
		Status:  status,
		Message: msg,
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "The requested record does not exist.")
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).WithError(err).Error("request failed")
	h.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Try again later.")
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

// routeID — числовой {id} из пути; маршруты ограничены [0-9]+, переполнение даёт 404.
func routeID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ---------- flash ----------

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает сообщение один раз и сразу гасит cookie.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
