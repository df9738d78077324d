package database

import (
	"context"
	"fmt"
)

// Statements are idempotent so the bootstrap can run on every start.
//
// There is intentionally no unique constraint on (employee_id, payment month):
// the generation workflow owns the one-record-per-employee-per-month rule and
// performs the check itself. Rows must not be inserted around the workflow.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		employee_code TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		department TEXT NOT NULL,
		position TEXT NOT NULL,
		hire_date DATE NOT NULL,
		salary NUMERIC(15,2) NOT NULL CHECK (salary >= 0),
		status TEXT NOT NULL DEFAULT 'Active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payroll_records (
		id UUID PRIMARY KEY,
		employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		base_salary NUMERIC(15,2) NOT NULL,
		allowances NUMERIC(15,2) NOT NULL,
		deductions NUMERIC(15,2) NOT NULL,
		net_salary NUMERIC(15,2) NOT NULL,
		payment_date DATE NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_records_employee_period
		ON payroll_records (employee_id, payment_date)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_records_payment_date
		ON payroll_records (payment_date)`,
}

// Migrate applies the schema bootstrap.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
