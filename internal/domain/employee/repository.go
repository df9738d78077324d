package employee

import "context"

// EligibilityFilter selects which employees a payroll run considers.
type EligibilityFilter string

const (
	// EligibilityAll pays every employee on record regardless of status.
	EligibilityAll EligibilityFilter = "all"
	// EligibilityActive restricts a run to employees with status Active.
	EligibilityActive EligibilityFilter = "active"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListEligible returns employees matching the filter, ordered by
	// employee code so run output is deterministic.
	ListEligible(ctx context.Context, filter EligibilityFilter) ([]Employee, error)
}
