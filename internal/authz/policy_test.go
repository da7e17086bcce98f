package authz

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/models"
)

const (
	admin   = models.RoleAdministrator
	manager = models.RoleManager
	tenant  = models.RoleTenant
)

// allSubsets перебирает все 8 комбинаций трёх ролей, плюс посторонняя метка.
func allSubsets() []RoleSet {
	var out []RoleSet
	for mask := 0; mask < 8; mask++ {
		var rs []models.Role
		for i, r := range models.Roles {
			if mask&(1<<i) != 0 {
				rs = append(rs, r)
			}
		}
		out = append(out, NewRoleSet(rs...))
		out = append(out, NewRoleSet(append(rs, models.Role("Auditor"))...))
	}
	return out
}

func TestRouteAfterLoginPriority(t *testing.T) {
	for _, rs := range allSubsets() {
		dest, err := RouteAfterLogin(rs)
		switch {
		case rs.Has(admin):
			require.NoError(t, err)
			assert.Equal(t, Home, dest, "roles=%v", rs.Slice())
		case rs.Has(manager):
			require.NoError(t, err)
			assert.Equal(t, FinancialIndex, dest, "roles=%v", rs.Slice())
		case rs.Has(tenant):
			require.NoError(t, err)
			assert.Equal(t, ContractsIndex, dest, "roles=%v", rs.Slice())
		default:
			assert.ErrorIs(t, err, ErrNoRoleAssigned, "roles=%v", rs.Slice())
		}
	}
}

func TestRouteAfterLoginUnknownRoleOnly(t *testing.T) {
	_, err := RouteAfterLogin(NewRoleSet(models.Role("Sindico")))
	assert.ErrorIs(t, err, ErrNoRoleAssigned)
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name                               string
		roles                              RoleSet
		register, contracts, fin, reportOK bool
	}{
		{"admin", NewRoleSet(admin), true, true, true, true},
		{"manager", NewRoleSet(manager), false, true, false, true},
		{"tenant", NewRoleSet(tenant), false, false, false, false},
		{"none", NewRoleSet(), false, false, false, false},
		{"manager+tenant", NewRoleSet(manager, tenant), false, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.register, CanRegister(tt.roles))
			assert.Equal(t, tt.contracts, CanManageContracts(tt.roles))
			assert.Equal(t, tt.fin, CanManageFinancials(tt.roles))
			assert.Equal(t, tt.reportOK, CanViewFinancialReport(tt.roles))
		})
	}
}

func contract(id uint, owner string) models.Contract {
	return models.Contract{ID: id, TenantAccountID: owner, MonthlyValue: decimal.RequireFromString("1000.00")}
}

func TestVisibleContracts(t *testing.T) {
	c5 := contract(5, "t1")
	other := contract(6, "t2")
	c7 := contract(7, "t1")
	all := []models.Contract{c5, other, c7}

	got := VisibleContracts(NewRoleSet(tenant), "t1", []models.Contract{c5, other})
	require.Len(t, got, 1)
	assert.Equal(t, uint(5), got[0].ID)

	got = VisibleContracts(NewRoleSet(tenant), "t1", all)
	assert.Equal(t, []uint{5, 7}, ids(got))

	for _, rs := range []RoleSet{NewRoleSet(admin), NewRoleSet(manager), NewRoleSet(manager, tenant)} {
		assert.Equal(t, []uint{5, 6, 7}, ids(VisibleContracts(rs, "t1", all)))
	}

	assert.Empty(t, VisibleContracts(NewRoleSet(tenant), "t3", all))
}

func TestVisiblePaymentsNeverLeaksOtherTenants(t *testing.T) {
	contracts := []models.Contract{contract(1, "t1"), contract(2, "t2"), contract(3, "t1")}
	payments := []models.PaymentRecord{
		{ID: 10, ContractID: 1},
		{ID: 11, ContractID: 2},
		{ID: 12, ContractID: 3},
		{ID: 13, ContractID: 99},
	}

	got := VisiblePayments(NewRoleSet(tenant), "t1", contracts, payments)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.NotEqual(t, uint(2), p.ContractID)
		assert.NotEqual(t, uint(99), p.ContractID)
	}

	got = VisiblePayments(NewRoleSet(tenant), "t2", contracts, payments)
	require.Len(t, got, 1)
	assert.Equal(t, uint(11), got[0].ID)

	assert.Len(t, VisiblePayments(NewRoleSet(manager), "t1", contracts, payments), 4)
	assert.Len(t, VisiblePayments(NewRoleSet(admin), "", nil, payments), 4)
}

func TestCanViewContractDetail(t *testing.T) {
	own := contract(1, "t1")
	foreign := contract(2, "t2")

	assert.True(t, CanViewContractDetail(NewRoleSet(tenant), "t1", own))
	assert.False(t, CanViewContractDetail(NewRoleSet(tenant), "t1", foreign))
	assert.ErrorIs(t, AuthorizeContractDetail(NewRoleSet(tenant), "t1", foreign), ErrForbidden)
	assert.NoError(t, AuthorizeContractDetail(NewRoleSet(tenant), "t1", own))

	for _, rs := range []RoleSet{NewRoleSet(admin), NewRoleSet(manager), NewRoleSet(admin, tenant)} {
		assert.True(t, CanViewContractDetail(rs, "x", foreign))
	}
}

func TestListingScope(t *testing.T) {
	assert.Equal(t, Scope{All: true}, ListingScope(NewRoleSet(manager), "m1"))
	assert.Equal(t, Scope{OwnerID: "t1"}, ListingScope(NewRoleSet(tenant), "t1"))
	assert.False(t, ListingScope(NewRoleSet(tenant), "").All)
}

func TestRoleSetSliceIsCanonical(t *testing.T) {
	rs := NewRoleSet(tenant, admin)
	assert.Equal(t, []models.Role{admin, tenant}, rs.Slice())
}

func ids(cs []models.Contract) []uint {
	out := make([]uint, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}
