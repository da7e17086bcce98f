package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"condo/internal/authz"
	"condo/internal/metrics"
	"condo/internal/models"
	"condo/internal/repo"
)

type contractsIndexView struct {
	Page
	Rows      []models.Contract
	CanManage bool
}

type contractFormView struct {
	Page
	IsNew   bool
	Action  string
	Form    contractForm
	Tenants []models.Account
	Errors  *models.ValidationError
}

type contractDetailsView struct {
	Page
	Contract  models.Contract
	CanManage bool
}

func (h *Handler) ContractsIndex(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	rows, err := h.d.Stores.Contracts.List(r.Context(), authz.ListingScope(p.Roles, p.AccountID))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, "contracts_index.tmpl", contractsIndexView{
		Page:      h.page(w, r, "Contracts"),
		Rows:      authz.VisibleContracts(p.Roles, p.AccountID, rows),
		CanManage: authz.CanManageContracts(p.Roles),
	})
}

func (h *Handler) ContractDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.d.Stores.Contracts.Get(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	p := principalFrom(r.Context())
	if err := authz.AuthorizeContractDetail(p.Roles, p.AccountID, *c); err != nil {
		h.forbidden(w, r)
		return
	}
	h.render(w, "contract_details.tmpl", contractDetailsView{
		Page:      h.page(w, r, c.Name),
		Contract:  *c,
		CanManage: authz.CanManageContracts(p.Roles),
	})
}

func (h *Handler) ContractCreatePage(w http.ResponseWriter, r *http.Request) {
	h.renderContractForm(w, r, http.StatusOK, contractFormView{
		IsNew:  true,
		Action: "/contracts/create",
		Form:   contractForm{Status: models.ContractStatusActive},
	})
}

func (h *Handler) ContractCreate(w http.ResponseWriter, r *http.Request) {
	form := contractFormFromRequest(r)
	ve := &models.ValidationError{}
	c := form.contract(ve)
	h.checkTenant(r.Context(), ve, c.TenantAccountID)
	if !ve.Empty() {
		h.renderContractForm(w, r, http.StatusUnprocessableEntity, contractFormView{
			IsNew: true, Action: "/contracts/create", Form: form, Errors: ve,
		})
		return
	}

	err := h.d.Stores.Contracts.Create(r.Context(), &c)
	metrics.ContractOperations.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if errors.Is(err, repo.ErrTenantNotFound) {
		ve.Add("tenant_account_id", "Select a valid tenant.")
		h.renderContractForm(w, r, http.StatusUnprocessableEntity, contractFormView{
			IsNew: true, Action: "/contracts/create", Form: form, Errors: ve,
		})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log(r).WithField("contract", c.ID).Info("contract created")
	setFlash(w, "Contract created.")
	h.redirect(w, r, "/contracts")
}

func (h *Handler) ContractEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.d.Stores.Contracts.Get(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.renderContractForm(w, r, http.StatusOK, contractFormView{
		Action: editAction(id),
		Form:   contractFormFrom(*c),
	})
}

// ContractEdit: id формы обязан совпадать с id маршрута; договор, удалённый
// между загрузкой формы и сохранением, даёт 404.
func (h *Handler) ContractEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	form := contractFormFromRequest(r)
	if form.ID != "" && form.ID != strconv.FormatUint(uint64(id), 10) {
		h.notFound(w, r)
		return
	}
	form.ID = strconv.FormatUint(uint64(id), 10)

	ve := &models.ValidationError{}
	c := form.contract(ve)
	h.checkTenant(r.Context(), ve, c.TenantAccountID)
	if !ve.Empty() {
		h.renderContractForm(w, r, http.StatusUnprocessableEntity, contractFormView{
			Action: editAction(id), Form: form, Errors: ve,
		})
		return
	}

	c.ID = id
	err := h.d.Stores.Contracts.Update(r.Context(), &c)
	metrics.ContractOperations.WithLabelValues("update", metrics.Outcome(err)).Inc()
	switch {
	case errors.Is(err, repo.ErrNotFound):
		h.log(r).WithFields(logrus.Fields{"contract": id, "error": err}).Warn("contract vanished during edit")
		h.notFound(w, r)
		return
	case errors.Is(err, repo.ErrTenantNotFound):
		ve.Add("tenant_account_id", "Select a valid tenant.")
		h.renderContractForm(w, r, http.StatusUnprocessableEntity, contractFormView{
			Action: editAction(id), Form: form, Errors: ve,
		})
		return
	case err != nil:
		h.serverError(w, r, err)
		return
	}
	h.log(r).WithField("contract", id).Info("contract updated")
	setFlash(w, "Contract updated.")
	h.redirect(w, r, "/contracts")
}

func (h *Handler) ContractDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := routeID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	err := h.d.Stores.Contracts.Delete(r.Context(), id)
	metrics.ContractOperations.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if errors.Is(err, repo.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.log(r).WithField("contract", id).Info("contract deleted")
	setFlash(w, "Contract deleted.")
	h.redirect(w, r, "/contracts")
}

// checkTenant: арендатором договора может быть только учётка с ролью Tenant.
func (h *Handler) checkTenant(ctx context.Context, ve *models.ValidationError, accountID string) {
	if accountID == "" {
		return
	}
	ok, err := h.d.Identity.IsInRole(ctx, accountID, models.RoleTenant)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		ve.Add("tenant_account_id", "Could not verify the tenant. Try again.")
		return
	}
	if !ok {
		ve.Add("tenant_account_id", "Select a valid tenant.")
	}
}

func (h *Handler) renderContractForm(w http.ResponseWriter, r *http.Request, status int, v contractFormView) {
	tenants, err := h.d.Identity.ListAccountsByRole(r.Context(), models.RoleTenant)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	title := "Edit contract"
	if v.IsNew {
		title = "New contract"
	}
	v.Page = h.page(w, r, title)
	v.Tenants = tenants
	if v.Errors == nil {
		v.Errors = &models.ValidationError{}
	}
	h.renderStatus(w, status, "contract_form.tmpl", v)
}

func editAction(id uint) string {
	return "/contracts/" + strconv.FormatUint(uint64(id), 10) + "/edit"
}
