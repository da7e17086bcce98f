package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" tenant ")
	assert.True(t, ok)
	assert.Equal(t, RoleTenant, r)

	_, ok = ParseRole("Invalid")
	assert.False(t, ok)
	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	var ve ValidationError
	assert.NoError(t, ve.OrNil())

	ve.Add("name", "required")
	ve.Add("name", "ignored")
	ve.Add("end_date", "before start")
	err := ve.OrNil()
	assert.Error(t, err)
	assert.Equal(t, "required", ve.Field("name"))
	assert.Equal(t, "end_date: before start; name: required", err.Error())
}

func TestNormalizeRoundsAndDefaults(t *testing.T) {
	c := Contract{
		MonthlyValue:      decimal.RequireFromString("1000.005"),
		AdjustmentPercent: decimal.RequireFromString("4.444"),
	}
	c.Normalize()
	assert.Equal(t, "1000.01", c.MonthlyValue.StringFixed(2))
	assert.Equal(t, "4.44", c.AdjustmentPercent.StringFixed(2))
	assert.Equal(t, ContractStatusActive, c.Status)

	p := PaymentRecord{TotalValue: decimal.RequireFromString("10.499")}
	p.Normalize()
	assert.Equal(t, "10.50", p.TotalValue.StringFixed(2))
	assert.Equal(t, PaymentStatusPending, p.Status)
}
