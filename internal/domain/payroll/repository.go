package payroll

import "context"

// PayrollRepository defines data access for payroll records. Methods run
// against the transaction carried in ctx when one is present, so the
// generation loop observes its own uncommitted inserts.
type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	// ExistsInPeriod is the idempotency guard's read: does this employee
	// already have a record with payment_date inside the period?
	ExistsInPeriod(ctx context.Context, employeeID string, period Period) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]PayrollRecord, int64, error)
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, month, year int) (SummaryResponse, error)
}
