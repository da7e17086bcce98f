package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const ContractStatusActive = "Active"

// Contract — договор аренды: один Tenant и условия оплаты.
type Contract struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	MonthlyValue      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"monthly_value"`
	AdjustmentPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"adjustment_percent"`
	StartDate         datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate           datatypes.Date  `gorm:"not null" json:"end_date"`
	TenantAccountID   string          `gorm:"size:36;not null;index" json:"tenant_account_id"`
	Status            string          `gorm:"size:64;not null;default:Active" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Удаление учётки при живых договорах запрещено (restrict).
	Tenant *Account `gorm:"foreignKey:TenantAccountID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"tenant,omitempty"`
}

// Normalize приводит денежные поля к 2 знакам и подставляет статус по умолчанию.
func (c *Contract) Normalize() {
	c.MonthlyValue = c.MonthlyValue.Round(2)
	c.AdjustmentPercent = c.AdjustmentPercent.Round(2)
	if c.Status == "" {
		c.Status = ContractStatusActive
	}
}
