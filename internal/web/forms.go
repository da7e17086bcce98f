package web

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"condo/internal/models"
)

// Пределы колонок numeric(18,2) и numeric(5,2).
var (
	maxMoney   = decimal.New(1, 16)
	maxPercent = decimal.New(1, 3)
)

var errBadNumber = errors.New("not a number")

// С запятой принимается только запись "1.234,56" / "12,5": группы по три цифры
// через точку и не больше двух знаков после запятой. "1,234.56" и "1,000"
// неоднозначны и отклоняются.
var commaDecimal = regexp.MustCompile(`^[+-]?(\d+|\d{1,3}(\.\d{3})+),\d{1,2}$`)

// parseDecimal принимает "1234.56" и "1.234,56".
func parseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return decimal.Decimal{}, errBadNumber
	}
	if strings.Contains(s, ",") {
		if !commaDecimal.MatchString(s) {
			return decimal.Decimal{}, errBadNumber
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errBadNumber
	}
	return d, nil
}

func parseDate(raw string) (datatypes.Date, bool) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return datatypes.Date{}, false
	}
	return datatypes.Date(t), true
}

func formatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// moneyField разбирает сумму; ошибки копятся в ve.
func moneyField(ve *models.ValidationError, field, label, raw string, limit decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		ve.Add(field, "The "+label+" field is required.")
		return decimal.Decimal{}
	}
	d, err := parseDecimal(raw)
	if err != nil {
		ve.Add(field, "The field "+label+" must be a number.")
		return decimal.Decimal{}
	}
	if d.IsNegative() {
		ve.Add(field, "The field "+label+" must not be negative.")
	}
	if d.Round(2).Abs().GreaterThanOrEqual(limit) {
		ve.Add(field, "The field "+label+" is too large.")
	}
	return d
}

func dateField(ve *models.ValidationError, field, label, raw string) datatypes.Date {
	if strings.TrimSpace(raw) == "" {
		ve.Add(field, "The "+label+" field is required.")
		return datatypes.Date{}
	}
	d, ok := parseDate(raw)
	if !ok {
		ve.Add(field, "The field "+label+" must be a date (YYYY-MM-DD).")
	}
	return d
}

// ---------- contract ----------

type contractForm struct {
	ID                string
	Name              string
	MonthlyValue      string
	AdjustmentPercent string
	StartDate         string
	EndDate           string
	TenantAccountID   string
	Status            string
	Notes             string
}

func contractFormFromRequest(r *http.Request) contractForm {
	return contractForm{
		ID:                strings.TrimSpace(r.PostFormValue("id")),
		Name:              strings.TrimSpace(r.PostFormValue("name")),
		MonthlyValue:      r.PostFormValue("monthly_value"),
		AdjustmentPercent: r.PostFormValue("adjustment_percent"),
		StartDate:         r.PostFormValue("start_date"),
		EndDate:           r.PostFormValue("end_date"),
		TenantAccountID:   strings.TrimSpace(r.PostFormValue("tenant_account_id")),
		Status:            strings.TrimSpace(r.PostFormValue("status")),
		Notes:             strings.TrimSpace(r.PostFormValue("notes")),
	}
}

func contractFormFrom(c models.Contract) contractForm {
	return contractForm{
		ID:                strconv.FormatUint(uint64(c.ID), 10),
		Name:              c.Name,
		MonthlyValue:      c.MonthlyValue.StringFixed(2),
		AdjustmentPercent: c.AdjustmentPercent.StringFixed(2),
		StartDate:         formatDate(c.StartDate),
		EndDate:           formatDate(c.EndDate),
		TenantAccountID:   c.TenantAccountID,
		Status:            c.Status,
		Notes:             c.Notes,
	}
}

// contract проверяет поля формы. Существование и роль арендатора проверяет вызывающий.
func (f contractForm) contract(ve *models.ValidationError) models.Contract {
	c := models.Contract{
		Name:            f.Name,
		TenantAccountID: f.TenantAccountID,
		Status:          f.Status,
		Notes:           f.Notes,
	}
	if c.Name == "" {
		ve.Add("name", "The Name field is required.")
	} else if len([]rune(c.Name)) > 200 {
		ve.Add("name", "The field Name must be at most 200 characters.")
	}
	if len([]rune(c.Status)) > 64 {
		ve.Add("status", "The field Status must be at most 64 characters.")
	}
	c.MonthlyValue = moneyField(ve, "monthly_value", "Monthly Value", f.MonthlyValue, maxMoney)
	c.AdjustmentPercent = moneyField(ve, "adjustment_percent", "Adjustment Percent", f.AdjustmentPercent, maxPercent)
	c.StartDate = dateField(ve, "start_date", "Start Date", f.StartDate)
	c.EndDate = dateField(ve, "end_date", "End Date", f.EndDate)
	if ve.Field("start_date") == "" && ve.Field("end_date") == "" &&
		time.Time(c.EndDate).Before(time.Time(c.StartDate)) {
		ve.Add("end_date", "End Date must not be earlier than Start Date.")
	}
	if c.TenantAccountID == "" {
		ve.Add("tenant_account_id", "The Tenant field is required.")
	}
	c.Normalize()
	return c
}

// ---------- payment ----------

type paymentForm struct {
	TotalValue  string
	PaymentDate string
	ContractID  string
	Status      string
	Description string
}

func paymentFormFromRequest(r *http.Request) paymentForm {
	return paymentForm{
		TotalValue:  r.PostFormValue("total_value"),
		PaymentDate: r.PostFormValue("payment_date"),
		ContractID:  strings.TrimSpace(r.PostFormValue("contract_id")),
		Status:      strings.TrimSpace(r.PostFormValue("status")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

func (f paymentForm) payment(ve *models.ValidationError) models.PaymentRecord {
	p := models.PaymentRecord{Status: f.Status, Description: f.Description}
	p.TotalValue = moneyField(ve, "total_value", "Total Value", f.TotalValue, maxMoney)
	p.PaymentDate = dateField(ve, "payment_date", "Payment Date", f.PaymentDate)
	if f.ContractID == "" {
		ve.Add("contract_id", "The Contract field is required.")
	} else if id, err := strconv.ParseUint(f.ContractID, 10, 64); err != nil || id == 0 {
		ve.Add("contract_id", "Select a valid contract.")
	} else {
		p.ContractID = uint(id)
	}
	if len([]rune(p.Status)) > 64 {
		ve.Add("status", "The field Status must be at most 64 characters.")
	}
	p.Normalize()
	return p
}
