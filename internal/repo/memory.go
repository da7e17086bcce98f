package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"condo/internal/authz"
	"condo/internal/models"
)

// memDB — in-memory режим (database.driver пустой). Держит те же ограничения
// внешних ключей, что и схема в БД: договор ссылается на существующую учётку,
// платёж — на существующий договор, удаление договора уносит его платежи.
type memDB struct {
	mu sync.RWMutex

	accounts  map[string]models.Account
	roles     map[string]map[models.Role]struct{}
	contracts map[uint]models.Contract
	payments  map[uint]models.PaymentRecord

	nextContractID uint
	nextPaymentID  uint
}

// NewMemoryStores — хранилища без БД, для локального запуска и тестов.
func NewMemoryStores() Stores {
	m := &memDB{
		accounts:  make(map[string]models.Account),
		roles:     make(map[string]map[models.Role]struct{}),
		contracts: make(map[uint]models.Contract),
		payments:  make(map[uint]models.PaymentRecord),
	}
	return Stores{
		Accounts:  &memAccounts{m},
		Contracts: &memContracts{m},
		Payments:  &memPayments{m},
	}
}

/* ───── accounts ───── */

type memAccounts struct{ m *memDB }

func (s *memAccounts) Create(_ context.Context, a *models.Account, roles ...models.Role) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = normalizeEmail(a.Email)
	for _, ex := range s.m.accounts {
		if ex.Email == a.Email {
			return ErrEmailTaken
		}
	}
	if _, ok := s.m.accounts[a.ID]; ok {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	s.m.accounts[a.ID] = *a
	set := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	s.m.roles[a.ID] = set
	return nil
}

func (s *memAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	email = normalizeEmail(email)
	for _, a := range s.m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memAccounts) FindByID(_ context.Context, id string) (*models.Account, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	a, ok := s.m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *memAccounts) Roles(_ context.Context, accountID string) ([]models.Role, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.Role, 0, len(s.m.roles[accountID]))
	for r := range s.m.roles[accountID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memAccounts) ListByRole(_ context.Context, role models.Role) ([]models.Account, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []models.Account
	for id, set := range s.m.roles {
		if _, ok := set[role]; ok {
			out = append(out, s.m.accounts[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *memAccounts) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	rows, err := s.ListByRole(ctx, role)
	return int64(len(rows)), err
}

/* ───── contracts ───── */

type memContracts struct{ m *memDB }

// withTenant возвращает копию договора с подгруженным Tenant. Вызывать под локом.
func (m *memDB) withTenant(c models.Contract) models.Contract {
	c.Tenant = nil
	if a, ok := m.accounts[c.TenantAccountID]; ok {
		c.Tenant = &a
	}
	return c
}

func (s *memContracts) List(_ context.Context, scope authz.Scope) ([]models.Contract, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.Contract, 0, len(s.m.contracts))
	for _, c := range s.m.contracts {
		if !scope.All && c.TenantAccountID != scope.OwnerID {
			continue
		}
		out = append(out, s.m.withTenant(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memContracts) Get(_ context.Context, id uint) (*models.Contract, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	c, ok := s.m.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = s.m.withTenant(c)
	return &c, nil
}

func (s *memContracts) Create(_ context.Context, c *models.Contract) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.accounts[c.TenantAccountID]; !ok {
		return ErrTenantNotFound
	}
	c.Normalize()
	s.m.nextContractID++
	c.ID = s.m.nextContractID
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	row := *c
	row.Tenant = nil
	s.m.contracts[c.ID] = row
	return nil
}

func (s *memContracts) Update(_ context.Context, c *models.Contract) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	old, ok := s.m.contracts[c.ID]
	if !ok {
		return fmt.Errorf("%w: contract %d: %w", ErrConcurrencyConflict, c.ID, ErrNotFound)
	}
	if _, ok := s.m.accounts[c.TenantAccountID]; !ok {
		return ErrTenantNotFound
	}
	c.Normalize()
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	row := *c
	row.Tenant = nil
	s.m.contracts[c.ID] = row
	return nil
}

func (s *memContracts) Delete(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.contracts, id)
	for pid, p := range s.m.payments {
		if p.ContractID == id {
			delete(s.m.payments, pid)
		}
	}
	return nil
}

/* ───── payments ───── */

type memPayments struct{ m *memDB }

func (m *memDB) withContract(p models.PaymentRecord) models.PaymentRecord {
	p.Contract = nil
	if c, ok := m.contracts[p.ContractID]; ok {
		p.Contract = &c
	}
	return p
}

func (s *memPayments) collect(keep func(models.PaymentRecord) bool) []models.PaymentRecord {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]models.PaymentRecord, 0, len(s.m.payments))
	for _, p := range s.m.payments {
		if keep(p) {
			out = append(out, s.m.withContract(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memPayments) List(_ context.Context, contractIDs []uint) ([]models.PaymentRecord, error) {
	want := make(map[uint]struct{}, len(contractIDs))
	for _, id := range contractIDs {
		want[id] = struct{}{}
	}
	return s.collect(func(p models.PaymentRecord) bool {
		_, ok := want[p.ContractID]
		return ok
	}), nil
}

func (s *memPayments) ListAll(context.Context) ([]models.PaymentRecord, error) {
	return s.collect(func(models.PaymentRecord) bool { return true }), nil
}

func (s *memPayments) ListByPaymentDateDesc(ctx context.Context) ([]models.PaymentRecord, error) {
	rows, _ := s.ListAll(ctx)
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := time.Time(rows[i].PaymentDate), time.Time(rows[j].PaymentDate)
		if ti.Equal(tj) {
			return rows[i].ID > rows[j].ID
		}
		return ti.After(tj)
	})
	return rows, nil
}

func (s *memPayments) Create(_ context.Context, p *models.PaymentRecord) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.contracts[p.ContractID]; !ok {
		return ErrContractNotFound
	}
	p.Normalize()
	s.m.nextPaymentID++
	p.ID = s.m.nextPaymentID
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	row := *p
	row.Contract = nil
	s.m.payments[p.ID] = row
	return nil
}
