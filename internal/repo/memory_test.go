package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/models"
)

func TestMemoryStores(t *testing.T) {
	runStoreSuite(t, func(*testing.T) Stores { return NewMemoryStores() })
}

func TestMemoryUpdateRejectsUnknownTenant(t *testing.T) {
	s := NewMemoryStores()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	c := mustContract(t, s, tenant.ID, "c")

	c.TenantAccountID = "nobody"
	assert.ErrorIs(t, s.Contracts.Update(context.Background(), c), ErrTenantNotFound)

	got, err := s.Contracts.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, got.TenantAccountID)
}

func TestMemoryReadsAreCopies(t *testing.T) {
	s := NewMemoryStores()
	tenant := mustAccount(t, s, "t1@example.com", models.RoleTenant)
	c := mustContract(t, s, tenant.ID, "original")

	got, err := s.Contracts.Get(context.Background(), c.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.Contracts.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}
