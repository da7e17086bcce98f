package repo

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"condo/internal/authz"
	"condo/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrEmailTaken          = errors.New("email already registered")
	ErrTenantNotFound      = errors.New("tenant account not found")
	ErrContractNotFound    = errors.New("contract not found")
)

// Accounts — хранилище учётных записей и их ролей.
type Accounts interface {
	Create(ctx context.Context, a *models.Account, roles ...models.Role) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Roles(ctx context.Context, accountID string) ([]models.Role, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// Contracts — договоры. Чтение подгружает Tenant.
type Contracts interface {
	List(ctx context.Context, scope authz.Scope) ([]models.Contract, error)
	Get(ctx context.Context, id uint) (*models.Contract, error)
	Create(ctx context.Context, c *models.Contract) error
	Update(ctx context.Context, c *models.Contract) error
	Delete(ctx context.Context, id uint) error
}

// Payments — платежи. Чтение подгружает Contract.
type Payments interface {
	List(ctx context.Context, contractIDs []uint) ([]models.PaymentRecord, error)
	ListAll(ctx context.Context) ([]models.PaymentRecord, error)
	ListByPaymentDateDesc(ctx context.Context) ([]models.PaymentRecord, error)
	Create(ctx context.Context, p *models.PaymentRecord) error
}

// Stores — набор хранилищ, который получает веб-слой.
type Stores struct {
	Accounts  Accounts
	Contracts Contracts
	Payments  Payments
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452 || myErr.Number == 1451
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
