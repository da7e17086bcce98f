package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"condo/internal/authz"
	"condo/internal/models"
)

// runStoreSuite — общие проверки для in-memory и gorm реализаций.
func runStoreSuite(t *testing.T, newStores func(t *testing.T) Stores) {
	t.Run("account roles and listing", func(t *testing.T) { testAccounts(t, newStores(t)) })
	t.Run("contract round trip", func(t *testing.T) { testContractRoundTrip(t, newStores(t)) })
	t.Run("contract foreign key", func(t *testing.T) { testContractForeignKey(t, newStores(t)) })
	t.Run("contract scope", func(t *testing.T) { testContractScope(t, newStores(t)) })
	t.Run("edit after delete", func(t *testing.T) { testEditAfterDelete(t, newStores(t)) })
	t.Run("concurrent edit and delete", func(t *testing.T) { testConcurrentEditDelete(t, newStores(t)) })
	t.Run("delete cascades payments", func(t *testing.T) { testDeleteCascades(t, newStores(t)) })
	t.Run("payments", func(t *testing.T) { testPayments(t, newStores(t)) })
}

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func dateString(d datatypes.Date) string { return time.Time(d).Format("2006-01-02") }

func mustAccount(t *testing.T, s Stores, email string, roles ...models.Role) *models.Account {
	t.Helper()
	a := &models.Account{Email: email, PasswordHash: []byte("x")}
	require.NoError(t, s.Accounts.Create(context.Background(), a, roles...))
	return a
}

func mustContract(t *testing.T, s Stores, tenantID, name string) *models.Contract {
	t.Helper()
	c := &models.Contract{
		Name:              name,
		MonthlyValue:      decimal.RequireFromString("1000.00"),
		AdjustmentPercent: decimal.RequireFromString("4.50"),
		StartDate:         day(2024, 1, 1),
		EndDate:           day(2025, 1, 1),
		TenantAccountID:   tenantID,
	}
	require.NoError(t, s.Contracts.Create(context.Background(), c))
	return c
}

func testAccounts(t *testing.T, s Stores) {
	ctx := context.Background()
	t1 := mustAccount(t, s, "B.tenant@example.com", models.RoleTenant)
	mustAccount(t, s, "a.tenant@example.com", models.RoleTenant)
	mgr := mustAccount(t, s, "manager@example.com", models.RoleManager)

	assert.NotEmpty(t, t1.ID)
	assert.Equal(t, "b.tenant@example.com", t1.Email)

	err := s.Accounts.Create(ctx, &models.Account{Email: "MANAGER@example.com", PasswordHash: []byte("x")})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := s.Accounts.FindByEmail(ctx, " b.Tenant@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, t1.ID, got.ID)

	_, err = s.Accounts.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	roles, err := s.Accounts.Roles(ctx, mgr.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleManager}, roles)

	tenants, err := s.Accounts.ListByRole(ctx, models.RoleTenant)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "a.tenant@example.com", tenants[0].Email)

	n, err := s.Accounts.CountByRole(ctx, models.RoleAdministrator)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testContractRoundTrip(t *testing.T, s Stores) {
	ctx := context.Background()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	in := &models.Contract{
		Name:              "Apto 101",
		MonthlyValue:      decimal.RequireFromString("1234.567"),
		AdjustmentPercent: decimal.RequireFromString("3.456"),
		StartDate:         day(2024, 3, 1),
		EndDate:           day(2026, 2, 28),
		TenantAccountID:   tenant.ID,
		Notes:             "garage included",
	}
	require.NoError(t, s.Contracts.Create(ctx, in))
	require.NotZero(t, in.ID)

	got, err := s.Contracts.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apto 101", got.Name)
	assert.Equal(t, "1234.57", got.MonthlyValue.StringFixed(2))
	assert.True(t, got.MonthlyValue.Equal(decimal.RequireFromString("1234.57")))
	assert.True(t, got.AdjustmentPercent.Equal(decimal.RequireFromString("3.46")))
	assert.Equal(t, "2024-03-01", dateString(got.StartDate))
	assert.Equal(t, "2026-02-28", dateString(got.EndDate))
	assert.Equal(t, tenant.ID, got.TenantAccountID)
	assert.Equal(t, models.ContractStatusActive, got.Status)
	assert.Equal(t, "garage included", got.Notes)
	require.NotNil(t, got.Tenant)
	assert.Equal(t, "t1@example.com", got.Tenant.Email)

	_, err = s.Contracts.Get(ctx, in.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testContractForeignKey(t *testing.T, s Stores) {
	c := &models.Contract{
		Name:            "orphan",
		StartDate:       day(2024, 1, 1),
		EndDate:         day(2024, 12, 31),
		TenantAccountID: "00000000-0000-0000-0000-000000000000",
	}
	assert.ErrorIs(t, s.Contracts.Create(context.Background(), c), ErrTenantNotFound)

	all, err := s.Contracts.List(context.Background(), authz.Scope{All: true})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testContractScope(t *testing.T, s Stores) {
	ctx := context.Background()
	t1 := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	t2 := mustAccount(t, s, "t2@example.com", models.RoleTenant)
	a := mustContract(t, s, t1.ID, "A")
	mustContract(t, s, t2.ID, "B")
	c := mustContract(t, s, t1.ID, "C")

	all, err := s.Contracts.List(ctx, authz.Scope{All: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := s.Contracts.List(ctx, authz.Scope{OwnerID: t1.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, c.ID, mine[1].ID)

	none, err := s.Contracts.List(ctx, authz.Scope{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testEditAfterDelete(t *testing.T, s Stores) {
	ctx := context.Background()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	c := mustContract(t, s, tenant.ID, "to delete")

	edited := *c
	edited.Name = "edited"
	require.NoError(t, s.Contracts.Delete(ctx, c.ID))

	err := s.Contracts.Update(ctx, &edited)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	_, err = s.Contracts.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Contracts.Delete(ctx, c.ID), ErrNotFound)
}

func testConcurrentEditDelete(t *testing.T, s Stores) {
	ctx := context.Background()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	c := mustContract(t, s, tenant.ID, "contested")

	edited := *c
	edited.Name = "edited"
	edited.MonthlyValue = decimal.RequireFromString("2000")

	var wg sync.WaitGroup
	var updErr, delErr error
	wg.Add(2)
	go func() { defer wg.Done(); updErr = s.Contracts.Update(ctx, &edited) }()
	go func() { defer wg.Done(); delErr = s.Contracts.Delete(ctx, c.ID) }()
	wg.Wait()

	require.NoError(t, delErr)
	if updErr != nil {
		assert.True(t, errors.Is(updErr, ErrNotFound), "unexpected update error: %v", updErr)
	}
	// кто бы ни победил, договор удалён и полузаписей нет
	_, err := s.Contracts.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDeleteCascades(t *testing.T, s Stores) {
	ctx := context.Background()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	keep := mustContract(t, s, tenant.ID, "keep")
	drop := mustContract(t, s, tenant.ID, "drop")

	for _, cid := range []uint{keep.ID, drop.ID, drop.ID} {
		require.NoError(t, s.Payments.Create(ctx, &models.PaymentRecord{
			TotalValue: decimal.RequireFromString("10"), PaymentDate: day(2024, 2, 1), ContractID: cid,
		}))
	}
	require.NoError(t, s.Contracts.Delete(ctx, drop.ID))

	rows, err := s.Payments.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keep.ID, rows[0].ContractID)
}

func testPayments(t *testing.T, s Stores) {
	ctx := context.Background()
	t1 := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	t2 := mustAccount(t, s, "t2@example.com", models.RoleTenant)
	c1 := mustContract(t, s, t1.ID, "c1")
	c2 := mustContract(t, s, t2.ID, "c2")

	p1 := &models.PaymentRecord{TotalValue: decimal.RequireFromString("100.499"), PaymentDate: day(2024, 1, 10), ContractID: c1.ID}
	p2 := &models.PaymentRecord{TotalValue: decimal.RequireFromString("200"), PaymentDate: day(2024, 3, 10), ContractID: c2.ID, Status: "Paid"}
	p3 := &models.PaymentRecord{TotalValue: decimal.RequireFromString("300"), PaymentDate: day(2024, 2, 10), ContractID: c1.ID}
	for _, p := range []*models.PaymentRecord{p1, p2, p3} {
		require.NoError(t, s.Payments.Create(ctx, p))
	}
	assert.Equal(t, models.PaymentStatusPending, p1.Status)
	assert.Equal(t, "Paid", p2.Status)

	err := s.Payments.Create(ctx, &models.PaymentRecord{TotalValue: decimal.NewFromInt(1), PaymentDate: day(2024, 1, 1), ContractID: 9999})
	assert.ErrorIs(t, err, ErrContractNotFound)

	mine, err := s.Payments.List(ctx, []uint{c1.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].TotalValue.Equal(decimal.RequireFromString("100.50")))
	require.NotNil(t, mine[0].Contract)
	assert.Equal(t, "c1", mine[0].Contract.Name)

	empty, err := s.Payments.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	report, err := s.Payments.ListByPaymentDateDesc(ctx)
	require.NoError(t, err)
	require.Len(t, report, 3)
	assert.Equal(t, []string{"2024-03-10", "2024-02-10", "2024-01-10"},
		[]string{dateString(report[0].PaymentDate), dateString(report[1].PaymentDate), dateString(report[2].PaymentDate)})
}
