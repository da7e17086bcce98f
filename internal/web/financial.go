package web

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"condo/internal/authz"
	"condo/internal/metrics"
	"condo/internal/models"
	"condo/internal/repo"
)

type financialIndexView struct {
	Page
	Rows      []models.PaymentRecord
	CanCreate bool
	CanReport bool
}

type paymentFormView struct {
	Page
	Form      paymentForm
	Contracts []models.Contract
	Errors    *models.ValidationError
}

type financialReportView struct {
	Page
	Rows  []models.PaymentRecord
	Total decimal.Decimal
}

// FinancialIndex: Tenant видит только платежи по своим договорам.
func (h *Handler) FinancialIndex(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var (
		contracts []models.Contract
		rows      []models.PaymentRecord
		err       error
	)
	if p.Roles.Elevated() {
		rows, err = h.d.Stores.Payments.ListAll(r.Context())
	} else {
		contracts, err = h.d.Stores.Contracts.List(r.Context(), authz.ListingScope(p.Roles, p.AccountID))
		if err == nil {
			owned := authz.OwnedContractIDs(p.AccountID, contracts)
			ids := make([]uint, 0, len(owned))
			for id := range owned {
				ids = append(ids, id)
			}
			rows, err = h.d.Stores.Payments.List(r.Context(), ids)
		}
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, "financial_index.tmpl", financialIndexView{
		Page:      h.page(w, r, "Financial"),
		Rows:      authz.VisiblePayments(p.Roles, p.AccountID, contracts, rows),
		CanCreate: authz.CanManageFinancials(p.Roles),
		CanReport: authz.CanViewFinancialReport(p.Roles),
	})
}

func (h *Handler) PaymentCreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderPaymentForm(w, r, http.StatusOK, paymentFormView{Form: paymentForm{Status: models.PaymentStatusPending}})
}

func (h *Handler) PaymentCreate(w http.ResponseWriter, r *http.Request) {
	form := paymentFormFromRequest(r)
	ve := &models.ValidationError{}
	pay := form.payment(ve)
	if pay.ContractID != 0 {
		if _, err := h.d.Stores.Contracts.Get(r.Context(), pay.ContractID); errors.Is(err, repo.ErrNotFound) {
			ve.Add("contract_id", "Select a valid contract.")
		} else if err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	if !ve.Empty() {
		h.renderPaymentForm(w, r, http.StatusUnprocessableEntity, paymentFormView{Form: form, Errors: ve})
		return
	}

	err := h.d.Stores.Payments.Create(r.Context(), &pay)
	metrics.PaymentOperations.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if errors.Is(err, repo.ErrContractNotFound) {
		ve.Add("contract_id", "Select a valid contract.")
		h.renderPaymentForm(w, r, http.StatusUnprocessableEntity, paymentFormView{Form: form, Errors: ve})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log(r).WithField("payment", pay.ID).WithField("contract", pay.ContractID).Info("payment recorded")
	setFlash(w, "Payment recorded.")
	h.redirect(w, r, "/financial")
}

// FinancialReport — все платежи, новые сверху, с итоговой суммой.
func (h *Handler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Stores.Payments.ListByPaymentDateDesc(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.TotalValue)
	}
	h.render(w, "financial_report.tmpl", financialReportView{
		Page:  h.page(w, r, "Financial report"),
		Rows:  rows,
		Total: total,
	})
}

func (h *Handler) renderPaymentForm(w http.ResponseWriter, r *http.Request, status int, v paymentFormView) {
	contracts, err := h.d.Stores.Contracts.List(r.Context(), authz.Scope{All: true})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	v.Page = h.page(w, r, "New payment")
	v.Contracts = contracts
	if v.Errors == nil {
		v.Errors = &models.ValidationError{}
	}
	h.renderStatus(w, status, "financial_form.tmpl", v)
}
