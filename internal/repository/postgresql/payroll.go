package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sentrihq/erp-backend-go/internal/domain/payroll"
	"github.com/sentrihq/erp-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payroll_records (id, employee_id, base_salary, allowances, deductions, net_salary, payment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, employee_id, base_salary, allowances, deductions, net_salary, payment_date, status, created_at, updated_at
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.BaseSalary, record.Allowances,
		record.Deductions, record.NetSalary, record.PaymentDate, record.Status,
	).Scan(
		&rec.ID, &rec.EmployeeID, &rec.BaseSalary, &rec.Allowances,
		&rec.Deductions, &rec.NetSalary, &rec.PaymentDate, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.base_salary, p.allowances, p.deductions, p.net_salary,
			   p.payment_date, p.status, p.created_at, p.updated_at,
			   e.employee_code, e.department, e.position
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EmployeeID, &rec.BaseSalary, &rec.Allowances,
		&rec.Deductions, &rec.NetSalary, &rec.PaymentDate, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeCode, &rec.Department, &rec.Position,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ExistsInPeriod(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_records
			WHERE employee_id = $1 AND payment_date BETWEEN $2 AND $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, period.Start, period.End).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll record existence: %w", err)
	}

	return exists, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	var args []interface{}
	argIdx := 1

	if filter.PeriodMonth != nil && filter.PeriodYear != nil {
		period := payroll.PeriodOf(time.Date(*filter.PeriodYear, time.Month(*filter.PeriodMonth), 1, 0, 0, 0, 0, time.UTC))
		where = append(where, fmt.Sprintf("p.payment_date BETWEEN $%d AND $%d", argIdx, argIdx+1))
		args = append(args, period.Start, period.End)
		argIdx += 2
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where = append(where, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM payroll_records p WHERE %s`, whereClause)
	var totalCount int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.employee_id, p.base_salary, p.allowances, p.deductions, p.net_salary,
			   p.payment_date, p.status, p.created_at, p.updated_at,
			   e.employee_code, e.department, e.position
		FROM payroll_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.payment_date DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.BaseSalary, &rec.Allowances,
			&rec.Deductions, &rec.NetSalary, &rec.PaymentDate, &rec.Status,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeCode, &rec.Department, &rec.Position,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET base_salary = $2, allowances = $3, deductions = $4, net_salary = $5,
			payment_date = $6, status = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING id, employee_id, base_salary, allowances, deductions, net_salary, payment_date, status, created_at, updated_at
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query,
		record.ID, record.BaseSalary, record.Allowances, record.Deductions,
		record.NetSalary, record.PaymentDate, record.Status,
	).Scan(
		&rec.ID, &rec.EmployeeID, &rec.BaseSalary, &rec.Allowances,
		&rec.Deductions, &rec.NetSalary, &rec.PaymentDate, &rec.Status,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_records WHERE id = $1 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

func (r *payrollRepository) Summary(ctx context.Context, month, year int) (payroll.SummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	period := payroll.PeriodOf(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))

	query := `
		SELECT COUNT(*),
			   COALESCE(SUM(base_salary), 0),
			   COALESCE(SUM(allowances), 0),
			   COALESCE(SUM(deductions), 0),
			   COALESCE(SUM(net_salary), 0)
		FROM payroll_records
		WHERE payment_date BETWEEN $1 AND $2
	`

	summary := payroll.SummaryResponse{
		PeriodMonth:  month,
		PeriodYear:   year,
		StatusCounts: make(map[string]int64),
	}
	err := q.QueryRow(ctx, query, period.Start, period.End).Scan(
		&summary.TotalRecords, &summary.TotalBaseSalary, &summary.TotalAllowances,
		&summary.TotalDeductions, &summary.TotalNetSalary,
	)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	statusQuery := `
		SELECT status, COUNT(*)
		FROM payroll_records
		WHERE payment_date BETWEEN $1 AND $2
		GROUP BY status
	`
	rows, err := q.Query(ctx, statusQuery, period.Start, period.End)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to get payroll status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return payroll.SummaryResponse{}, fmt.Errorf("failed to scan payroll status count: %w", err)
		}
		summary.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to read payroll status counts: %w", err)
	}

	return summary, nil
}
