package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sentrihq/erp-backend-go/internal/domain/employee"
	"github.com/sentrihq/erp-backend-go/internal/domain/payroll"
)

// TxRunner is the transaction boundary the service runs generation inside.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	// InTxSerializable must provide serializable isolation: the duplicate
	// check and insert race against concurrent runs of the same period.
	InTxSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	// InSavepoint scopes fn to a nested transaction so one failed insert
	// can be rolled back without poisoning the surrounding run.
	InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}

type PayrollServiceImpl struct {
	tx           TxRunner
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	eligibility  employee.EligibilityFilter
	logger       *slog.Logger
	now          func() time.Time
}

func NewPayrollService(
	tx TxRunner,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	eligibility employee.EligibilityFilter,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		eligibility:  eligibility,
		logger:       logger,
		now:          time.Now,
	}
}

// ========== GENERATION ==========

// Generate creates one payroll record per eligible employee that does not
// already have one in the reference date's calendar month. The run is
// all-or-nothing only at the whole-run level: individual insert failures are
// logged and collected while the loop continues, but nothing commits unless
// at least one record was inserted.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	ref := req.Reference(s.now())
	paymentDate := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	period := payroll.PeriodOf(paymentDate)

	var result payroll.GenerationResult
	err := s.tx.InTxSerializable(ctx, func(ctx context.Context) error {
		// Reset on entry: serialization failures may retry the closure.
		result = payroll.GenerationResult{}

		employees, err := s.employeeRepo.ListEligible(ctx, s.eligibility)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		if len(employees) == 0 {
			return payroll.ErrNoEmployees
		}

		for _, emp := range employees {
			exists, err := s.payrollRepo.ExistsInPeriod(ctx, emp.ID, period)
			if err != nil {
				return fmt.Errorf("failed to check existing payroll record: %w", err)
			}
			if exists {
				result.Skipped++
				s.logger.DebugContext(ctx, "payroll record already exists for period, skipping",
					slog.String("employee_code", emp.EmployeeCode),
					slog.Time("period_start", period.Start))
				continue
			}

			allowances, deductions, net := payroll.Calculate(emp.Salary)
			record := payroll.PayrollRecord{
				EmployeeID:  emp.ID,
				BaseSalary:  emp.Salary,
				Allowances:  allowances,
				Deductions:  deductions,
				NetSalary:   net,
				PaymentDate: paymentDate,
				Status:      payroll.StatusPending,
			}

			var created payroll.PayrollRecord
			insertErr := s.tx.InSavepoint(ctx, func(ctx context.Context) error {
				var err error
				created, err = s.payrollRepo.Create(ctx, record)
				return err
			})
			if insertErr != nil {
				s.logger.ErrorContext(ctx, "payroll insert failed, continuing with remaining employees",
					slog.String("employee_id", emp.ID),
					slog.String("employee_code", emp.EmployeeCode),
					slog.Any("error", insertErr))
				result.Failed = append(result.Failed, payroll.GenerationFailure{
					EmployeeID:   emp.ID,
					EmployeeCode: emp.EmployeeCode,
					Err:          insertErr,
				})
				continue
			}

			code := emp.EmployeeCode
			dept := emp.Department
			pos := emp.Position
			created.EmployeeCode = &code
			created.Department = &dept
			created.Position = &pos
			result.Created = append(result.Created, created)
		}

		if len(result.Created) == 0 {
			return payroll.ErrNoNewRecords
		}
		return nil
	})
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll generation run committed",
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", len(result.Failed)))

	return payroll.GeneratePayrollResponse{
		Message:  fmt.Sprintf("Successfully generated payroll for %d employees", len(result.Created)),
		Records:  mapToRecordResponses(result.Created),
		Skipped:  result.Skipped,
		Failures: mapFailures(result.Failed),
	}, nil
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.ListFilter) (payroll.ListRecordsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListRecordsResponse{}, err
	}

	return payroll.ListRecordsResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// CreateRecord is the manual single-record path. It performs no duplicate
// check against the payment month, matching the behavior this endpoint has
// always had; an existing record for the same month is only logged.
func (s *PayrollServiceImpl) CreateRecord(ctx context.Context, req payroll.CreateRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.RecordResponse{}, err
	}

	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)

	if exists, err := s.payrollRepo.ExistsInPeriod(ctx, req.EmployeeID, payroll.PeriodOf(paymentDate)); err == nil && exists {
		s.logger.DebugContext(ctx, "manual payroll record duplicates an existing period record",
			slog.String("employee_id", req.EmployeeID),
			slog.String("payment_date", req.PaymentDate))
	}

	status := payroll.StatusPending
	if req.Status != nil {
		status = payroll.Status(*req.Status)
	}

	record := payroll.PayrollRecord{
		EmployeeID:  req.EmployeeID,
		BaseSalary:  req.BaseSalary,
		Allowances:  req.Allowances,
		Deductions:  req.Deductions,
		NetSalary:   payroll.RecomputeNet(req.BaseSalary, req.Allowances, req.Deductions),
		PaymentDate: paymentDate,
		Status:      status,
	}

	created, err := s.payrollRepo.Create(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapToRecordResponse(created), nil
}

// UpdateRecord applies value corrections and status transitions. The net
// salary is always recomputed from the resulting components. Records that
// reached Paid or Failed accept no further changes.
func (s *PayrollServiceImpl) UpdateRecord(ctx context.Context, req payroll.UpdateRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if record.Status.Final() {
		return payroll.RecordResponse{}, payroll.ErrRecordFinalized
	}

	if req.BaseSalary != nil {
		record.BaseSalary = *req.BaseSalary
	}
	if req.Allowances != nil {
		record.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		record.Deductions = *req.Deductions
	}
	if req.PaymentDate != nil {
		d, _ := time.Parse("2006-01-02", *req.PaymentDate)
		record.PaymentDate = d
	}
	if req.Status != nil {
		record.Status = payroll.Status(*req.Status)
	}
	record.NetSalary = payroll.RecomputeNet(record.BaseSalary, record.Allowances, record.Deductions)

	updated, err := s.payrollRepo.Update(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapToRecordResponse(updated), nil
}

func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	return s.payrollRepo.Delete(ctx, id)
}

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) Summary(ctx context.Context, month, year int) (payroll.SummaryResponse, error) {
	if month < 1 || month > 12 || year < 2000 {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}
	return s.payrollRepo.Summary(ctx, month, year)
}

// ========== HELPERS ==========

func mapToRecordResponse(r payroll.PayrollRecord) payroll.RecordResponse {
	resp := payroll.RecordResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		BaseSalary:  r.BaseSalary,
		Allowances:  r.Allowances,
		Deductions:  r.Deductions,
		NetSalary:   r.NetSalary,
		PaymentDate: r.PaymentDate.Format("2006-01-02"),
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.EmployeeCode != nil {
		resp.EmployeeCode = *r.EmployeeCode
	}
	if r.Department != nil {
		resp.Department = *r.Department
	}
	if r.Position != nil {
		resp.Position = *r.Position
	}
	return resp
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.RecordResponse {
	result := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}

func mapFailures(failures []payroll.GenerationFailure) []payroll.GenerationFailureDT {
	if len(failures) == 0 {
		return nil
	}
	result := make([]payroll.GenerationFailureDT, 0, len(failures))
	for _, f := range failures {
		reason := "insert failed"
		if f.Err != nil {
			reason = f.Err.Error()
		}
		result = append(result, payroll.GenerationFailureDT{
			EmployeeID:   f.EmployeeID,
			EmployeeCode: f.EmployeeCode,
			Reason:       reason,
		})
	}
	return result
}
