package cron

import (
	"context"
	"errors"
	"time"

	"github.com/sentrihq/erp-backend-go/internal/domain/payroll"
)

// PayrollJobs holds the scheduled payroll work. The generation service
// stays trigger-agnostic; this job is just one caller of it.
type PayrollJobs struct {
	payrollService payroll.PayrollService
}

func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{payrollService: payrollService}
}

// RegisterJobs wires the monthly auto-generation: checked daily, fired only
// on the first day of the month.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "generate_monthly_payroll",
		Interval: 24 * time.Hour,
		When: func(t time.Time) bool {
			return t.Day() == 1
		},
		Fn: j.GenerateMonthlyPayroll,
	})
}

// GenerateMonthlyPayroll runs a generation for the current period. A run
// that produces nothing because every employee already has this month's
// record is a normal outcome here, not a job failure: the job may fire on a
// month the operator already generated by hand, and re-invocation is safe.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	_, err := j.payrollService.Generate(ctx, payroll.GeneratePayrollRequest{})
	if errors.Is(err, payroll.ErrNoNewRecords) {
		return nil
	}
	return err
}
