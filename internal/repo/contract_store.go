package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"condo/internal/authz"
	"condo/internal/models"
)

// колонки, которые переписывает Edit; id и created_at не трогаем
var contractUpdateColumns = []string{
	"name", "monthly_value", "adjustment_percent", "start_date", "end_date",
	"tenant_account_id", "status", "notes", "updated_at",
}

type ContractStore struct{ db *gorm.DB }

func NewContractStore(db *gorm.DB) *ContractStore { return &ContractStore{db: db} }

func (s *ContractStore) List(ctx context.Context, scope authz.Scope) ([]models.Contract, error) {
	q := s.db.WithContext(ctx).Preload("Tenant").Order("id asc")
	if !scope.All {
		q = q.Where("tenant_account_id = ?", scope.OwnerID)
	}
	var rows []models.Contract
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ContractStore) Get(ctx context.Context, id uint) (*models.Contract, error) {
	var c models.Contract
	err := s.db.WithContext(ctx).Preload("Tenant").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContractStore) Create(ctx context.Context, c *models.Contract) error {
	c.Normalize()
	err := s.db.WithContext(ctx).Omit("Tenant").Create(c).Error
	if isForeignKeyViolation(err) {
		return ErrTenantNotFound
	}
	return err
}

// Update — last-writer-wins. Если строка исчезла между чтением и записью
// (удалили параллельно), возвращается ErrConcurrencyConflict, обёрнутый в ErrNotFound.
func (s *ContractStore) Update(ctx context.Context, c *models.Contract) error {
	c.Normalize()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Contract{}).
			Where("id = ?", c.ID).
			Select(contractUpdateColumns).
			Omit("Tenant").
			Updates(c)
		if res.Error != nil {
			if isForeignKeyViolation(res.Error) {
				return ErrTenantNotFound
			}
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// mysql отдаёт 0 и для «ничего не поменялось» — проверяем существование
		var n int64
		if err := tx.Model(&models.Contract{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: contract %d: %w", ErrConcurrencyConflict, c.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete удаляет договор вместе с его платежами.
func (s *ContractStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id = ?", id).Delete(&models.PaymentRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Contract{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
