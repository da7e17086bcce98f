package repo

import (
	"context"

	"gorm.io/gorm"

	"condo/internal/models"
)

type PaymentStore struct{ db *gorm.DB }

func NewPaymentStore(db *gorm.DB) *PaymentStore { return &PaymentStore{db: db} }

// List — платежи по указанным договорам; пустой список даёт пустой результат.
func (s *PaymentStore) List(ctx context.Context, contractIDs []uint) ([]models.PaymentRecord, error) {
	if len(contractIDs) == 0 {
		return []models.PaymentRecord{}, nil
	}
	var rows []models.PaymentRecord
	err := s.db.WithContext(ctx).Preload("Contract").
		Where("contract_id IN ?", contractIDs).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func (s *PaymentStore) ListAll(ctx context.Context) ([]models.PaymentRecord, error) {
	var rows []models.PaymentRecord
	err := s.db.WithContext(ctx).Preload("Contract").Order("id asc").Find(&rows).Error
	return rows, err
}

func (s *PaymentStore) ListByPaymentDateDesc(ctx context.Context) ([]models.PaymentRecord, error) {
	var rows []models.PaymentRecord
	err := s.db.WithContext(ctx).Preload("Contract").
		Order("payment_date desc, id desc").
		Find(&rows).Error
	return rows, err
}

func (s *PaymentStore) Create(ctx context.Context, p *models.PaymentRecord) error {
	p.Normalize()
	err := s.db.WithContext(ctx).Omit("Contract").Create(p).Error
	if isForeignKeyViolation(err) {
		return ErrContractNotFound
	}
	return err
}

// NewGormStores собирает хранилища поверх одного *gorm.DB.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Accounts:  NewAccountStore(db),
		Contracts: NewContractStore(db),
		Payments:  NewPaymentStore(db),
	}
}
