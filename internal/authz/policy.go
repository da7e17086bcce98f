// Package authz решает, кто что может видеть и делать. Никакого I/O: только
// набор ролей принципала, его id и уже загруженные записи.
package authz

import (
	"errors"

	"condo/internal/models"
)

var (
	ErrNoRoleAssigned = errors.New("no role assigned")
	ErrForbidden      = errors.New("forbidden")
)

// RoleSet — роли принципала, загруженные один раз на запрос.
type RoleSet map[models.Role]struct{}

func NewRoleSet(roles ...models.Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Has(r models.Role) bool {
	_, ok := s[r]
	return ok
}

// Elevated — Administrator или Manager: видят все записи.
func (s RoleSet) Elevated() bool {
	return s.Has(models.RoleAdministrator) || s.Has(models.RoleManager)
}

// Slice — роли в каноническом порядке каталога.
func (s RoleSet) Slice() []models.Role {
	out := make([]models.Role, 0, len(s))
	for _, r := range models.Roles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Destination — куда отправить пользователя после входа.
type Destination int

const (
	Home Destination = iota + 1
	FinancialIndex
	ContractsIndex
)

func (d Destination) String() string {
	switch d {
	case Home:
		return "Home"
	case FinancialIndex:
		return "FinancialIndex"
	case ContractsIndex:
		return "ContractsIndex"
	default:
		return "Unknown"
	}
}

// RouteAfterLogin: Administrator > Manager > Tenant, первое совпадение выигрывает.
func RouteAfterLogin(roles RoleSet) (Destination, error) {
	switch {
	case roles.Has(models.RoleAdministrator):
		return Home, nil
	case roles.Has(models.RoleManager):
		return FinancialIndex, nil
	case roles.Has(models.RoleTenant):
		return ContractsIndex, nil
	default:
		return 0, ErrNoRoleAssigned
	}
}

func CanRegister(roles RoleSet) bool { return roles.Has(models.RoleAdministrator) }

func CanManageContracts(roles RoleSet) bool { return roles.Elevated() }

// CanManageFinancials — создание платежей только администратором.
func CanManageFinancials(roles RoleSet) bool { return roles.Has(models.RoleAdministrator) }

func CanViewFinancialReport(roles RoleSet) bool { return roles.Elevated() }

// VisibleContracts сохраняет порядок входного списка.
func VisibleContracts(roles RoleSet, accountID string, all []models.Contract) []models.Contract {
	if roles.Elevated() {
		return all
	}
	out := make([]models.Contract, 0, len(all))
	for _, c := range all {
		if c.TenantAccountID == accountID {
			out = append(out, c)
		}
	}
	return out
}

// VisiblePayments: для Tenant — только платежи по его договорам.
func VisiblePayments(roles RoleSet, accountID string, contracts []models.Contract, all []models.PaymentRecord) []models.PaymentRecord {
	if roles.Elevated() {
		return all
	}
	owned := OwnedContractIDs(accountID, contracts)
	out := make([]models.PaymentRecord, 0, len(all))
	for _, p := range all {
		if _, ok := owned[p.ContractID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// OwnedContractIDs — id договоров, где accountID указан арендатором.
func OwnedContractIDs(accountID string, contracts []models.Contract) map[uint]struct{} {
	ids := make(map[uint]struct{})
	for _, c := range contracts {
		if c.TenantAccountID == accountID {
			ids[c.ID] = struct{}{}
		}
	}
	return ids
}

func CanViewContractDetail(roles RoleSet, accountID string, c models.Contract) bool {
	if roles.Elevated() {
		return true
	}
	return c.TenantAccountID == accountID
}

// AuthorizeContractDetail — то же, что CanViewContractDetail, но в виде ошибки.
func AuthorizeContractDetail(roles RoleSet, accountID string, c models.Contract) error {
	if !CanViewContractDetail(roles, accountID, c) {
		return ErrForbidden
	}
	return nil
}

// Scope — фильтр выборки для репозитория.
type Scope struct {
	All     bool
	OwnerID string
}

// ListingScope сужает запрос к хранилищу до того, что потом пропустит Visible*.
func ListingScope(roles RoleSet, accountID string) Scope {
	if roles.Elevated() {
		return Scope{All: true}
	}
	return Scope{OwnerID: accountID}
}
