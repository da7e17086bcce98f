package web

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/models"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1234.56", "1234.56", true},
		{"1.234,56", "1234.56", true},
		{"12,5", "12.5", true},
		{" 7 ", "7", true},
		{"", "", false},
		{"abc", "", false},
		{"1,234.56", "", false},
		{"1,000", "", false},
		{"1.23,45", "", false},
		{"1,2,3", "", false},
		{"12.345.678,9", "12345678.9", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDecimal(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), got.String())
		})
	}
}

func TestContractFormValidation(t *testing.T) {
	ve := &models.ValidationError{}
	contractForm{
		MonthlyValue:      "-1",
		AdjustmentPercent: "1000",
		StartDate:         "2024-13-01",
		EndDate:           "2024-01-01",
	}.contract(ve)

	assert.NotEmpty(t, ve.Field("name"))
	assert.Contains(t, ve.Field("monthly_value"), "negative")
	assert.Contains(t, ve.Field("adjustment_percent"), "too large")
	assert.NotEmpty(t, ve.Field("start_date"))
	assert.Empty(t, ve.Field("end_date"))
	assert.NotEmpty(t, ve.Field("tenant_account_id"))
}

func TestContractFormRejectsAmbiguousGrouping(t *testing.T) {
	ve := &models.ValidationError{}
	c := contractForm{
		Name:              "Flat",
		MonthlyValue:      "1,234.56",
		AdjustmentPercent: "2",
		StartDate:         "2024-01-01",
		EndDate:           "2024-12-31",
		TenantAccountID:   "t-1",
	}.contract(ve)

	assert.Equal(t, "The field Monthly Value must be a number.", ve.Field("monthly_value"))
	assert.True(t, c.MonthlyValue.IsZero())
}

func TestContractFormRoundsAndDefaults(t *testing.T) {
	ve := &models.ValidationError{}
	c := contractForm{
		Name:              "Flat",
		MonthlyValue:      "100.005",
		AdjustmentPercent: "2",
		StartDate:         "2024-01-01",
		EndDate:           "2024-01-01",
		TenantAccountID:   "t-1",
	}.contract(ve)

	require.True(t, ve.Empty(), ve.Error())
	assert.Equal(t, "100.01", c.MonthlyValue.StringFixed(2))
	assert.Equal(t, models.ContractStatusActive, c.Status)
	assert.Equal(t, "2024-01-01", formatDate(c.EndDate))
}

func TestPaymentFormValidation(t *testing.T) {
	ve := &models.ValidationError{}
	p := paymentForm{TotalValue: "50", PaymentDate: "2024-05-01", ContractID: "x"}.payment(ve)
	assert.Equal(t, "Select a valid contract.", ve.Field("contract_id"))
	assert.Equal(t, uint(0), p.ContractID)

	ve = &models.ValidationError{}
	p = paymentForm{TotalValue: "50", PaymentDate: "2024-05-01", ContractID: "3"}.payment(ve)
	assert.True(t, ve.Empty())
	assert.Equal(t, uint(3), p.ContractID)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
}
