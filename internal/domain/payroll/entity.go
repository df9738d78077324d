package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. New records always start out Pending; the update endpoint
// moves them to Paid or Failed and neither of those is ever left again.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusFailed  Status = "Failed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusFailed
}

// Final reports whether a record in this status accepts no further changes.
func (s Status) Final() bool {
	return s == StatusPaid || s == StatusFailed
}

// PayrollRecord is one employee's pay computation for one payment date.
// BaseSalary is a snapshot taken at generation time, not a live reference,
// so historical records stay stable when the employee's salary changes.
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	BaseSalary  decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal
	PaymentDate time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeCode *string
	Department   *string
	Position     *string
}

// Period is the calendar-month deduplication window of a generation run.
// Both bounds are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodOf derives the calendar-month window containing ref.
func PeriodOf(ref time.Time) Period {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, -1)
	return Period{Start: start, End: end}
}

// Contains reports whether t's date falls inside the period.
func (p Period) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.Start.Location())
	return !day.Before(p.Start) && !day.After(p.End)
}

// GenerationFailure is one employee's failed insert within a run. Failures
// are collected, not raised: a single bad employee never aborts the run.
type GenerationFailure struct {
	EmployeeID   string
	EmployeeCode string
	Err          error
}

// GenerationResult summarizes one run: what was created, who was skipped by
// the idempotency guard, and which inserts failed.
type GenerationResult struct {
	Created []PayrollRecord
	Failed  []GenerationFailure
	Skipped int
}
