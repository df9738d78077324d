package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sentrihq/erp-backend-go/internal/pkg/validator"
)

// ========== GENERATION DTOs ==========

type GeneratePayrollRequest struct {
	// ReferenceDate overrides "today" as the payment date and period
	// anchor, mainly for backfills and tests. Format YYYY-MM-DD.
	ReferenceDate *string `json:"reference_date,omitempty"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ReferenceDate != nil {
		if _, ok := validator.IsValidDate(*r.ReferenceDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Reference returns the run's reference date, defaulting to now.
func (r *GeneratePayrollRequest) Reference(now time.Time) time.Time {
	if r.ReferenceDate != nil {
		if d, ok := validator.IsValidDate(*r.ReferenceDate); ok {
			return d
		}
	}
	return now
}

type GeneratePayrollResponse struct {
	Message  string                `json:"message"`
	Records  []RecordResponse      `json:"records"`
	Skipped  int                   `json:"skipped"`
	Failures []GenerationFailureDT `json:"failures,omitempty"`
}

type GenerationFailureDT struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Reason       string `json:"reason"`
}

// ========== RECORD DTOs ==========

type RecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code,omitempty"`
	Department   string          `json:"department,omitempty"`
	Position     string          `json:"position,omitempty"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	PaymentDate  string          `json:"payment_date"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreateRecordRequest struct {
	EmployeeID  string           `json:"employee_id"`
	BaseSalary  decimal.Decimal  `json:"base_salary"`
	Allowances  decimal.Decimal  `json:"allowances"`
	Deductions  decimal.Decimal  `json:"deductions"`
	PaymentDate string           `json:"payment_date"`
	Status      *string          `json:"status,omitempty"`
}

func (r *CreateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.Allowances.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowances", Message: "must be non-negative"})
	}
	if r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}
	if validator.IsEmpty(r.PaymentDate) {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.Status != nil && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be Pending, Paid or Failed"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRecordRequest struct {
	ID          string           `json:"-"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	Allowances  *decimal.Decimal `json:"allowances,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	PaymentDate *string          `json:"payment_date,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.Allowances != nil && r.Allowances.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowances", Message: "must be non-negative"})
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	if r.Status != nil && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be Pending, Paid or Failed"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== LIST / SUMMARY DTOs ==========

type ListFilter struct {
	Page        int
	Limit       int
	PeriodMonth *int
	PeriodYear  *int
	Status      *string
	EmployeeID  *string
}

type ListRecordsResponse struct {
	Data       []RecordResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

type SummaryResponse struct {
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	TotalRecords    int64           `json:"total_records"`
	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetSalary  decimal.Decimal `json:"total_net_salary"`
	StatusCounts    map[string]int64 `json:"status_counts"`
}
