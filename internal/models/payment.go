package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const PaymentStatusPending = "Pending"

// PaymentRecord — один зафиксированный платёж по договору.
type PaymentRecord struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TotalValue  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_value"`
	PaymentDate datatypes.Date  `gorm:"not null;index" json:"payment_date"`
	ContractID  uint            `gorm:"not null;index" json:"contract_id"`
	Status      string          `gorm:"size:64;not null;default:Pending" json:"status"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Связь обязательная: платежи уходят вместе с договором.
	Contract *Contract `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"contract,omitempty"`
}

func (p *PaymentRecord) Normalize() {
	p.TotalValue = p.TotalValue.Round(2)
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
}
