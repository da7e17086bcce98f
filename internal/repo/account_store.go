package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"condo/internal/models"
)

type AccountStore struct{ db *gorm.DB }

func NewAccountStore(db *gorm.DB) *AccountStore { return &AccountStore{db: db} }

// Create сохраняет учётку и её роли одной транзакцией. Пустой ID заполняется uuid.
func (s *AccountStore) Create(ctx context.Context, a *models.Account, roles ...models.Role) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = normalizeEmail(a.Email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(a).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		for _, r := range roles {
			if err := tx.Create(&models.AccountRole{AccountID: a.ID, Role: r}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var a models.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountStore) Roles(ctx context.Context, accountID string) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.WithContext(ctx).Model(&models.AccountRole{}).
		Where("account_id = ?", accountID).
		Order("role asc").
		Pluck("role", &roles).Error
	return roles, err
}

// ListByRole — одним запросом, без перебора учёток с проверкой роли по одной.
func (s *AccountStore) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.WithContext(ctx).
		Joins("JOIN account_roles ON account_roles.account_id = accounts.id").
		Where("account_roles.role = ?", role).
		Order("accounts.email asc").
		Find(&rows).Error
	return rows, err
}

func (s *AccountStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.AccountRole{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
