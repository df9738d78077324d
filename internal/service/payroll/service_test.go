package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentrihq/erp-backend-go/internal/domain/employee"
	"github.com/sentrihq/erp-backend-go/internal/domain/payroll"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ===== FAKES =====

type fakeStore struct {
	records []payroll.PayrollRecord
	nextID  int
	// failEmployees simulates per-employee insert faults.
	failEmployees map[string]error
}

func (s *fakeStore) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if err, ok := s.failEmployees[record.EmployeeID]; ok {
		return payroll.PayrollRecord{}, err
	}
	s.nextID++
	record.ID = fmt.Sprintf("rec-%d", s.nextID)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	s.records = append(s.records, record)
	return record, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
}

func (s *fakeStore) ExistsInPeriod(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	for _, r := range s.records {
		if r.EmployeeID == employeeID && period.Contains(r.PaymentDate) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.PayrollRecord, int64, error) {
	return s.records, int64(len(s.records)), nil
}

func (s *fakeStore) Update(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	for i, r := range s.records {
		if r.ID == record.ID {
			record.EmployeeID = r.EmployeeID
			record.CreatedAt = r.CreatedAt
			record.UpdatedAt = time.Now()
			s.records[i] = record
			return record, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return payroll.ErrRecordNotFound
}

func (s *fakeStore) Summary(ctx context.Context, month, year int) (payroll.SummaryResponse, error) {
	return payroll.SummaryResponse{PeriodMonth: month, PeriodYear: year}, nil
}

// fakeTx mimics transactional semantics over the fake store: any error from
// the closure restores the store to its pre-transaction state.
type fakeTx struct {
	store            *fakeStore
	serializableRuns int
	rollbacks        int
}

func (t *fakeTx) run(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := append([]payroll.PayrollRecord(nil), t.store.records...)
	if err := fn(ctx); err != nil {
		t.store.records = snapshot
		t.rollbacks++
		return err
	}
	return nil
}

func (t *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *fakeTx) InTxSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	t.serializableRuns++
	return t.run(ctx, fn)
}

func (t *fakeTx) InSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := append([]payroll.PayrollRecord(nil), t.store.records...)
	if err := fn(ctx); err != nil {
		t.store.records = snapshot
		return err
	}
	return nil
}

type fakeEmployees struct {
	employees []employee.Employee
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) ListEligible(ctx context.Context, filter employee.EligibilityFilter) ([]employee.Employee, error) {
	if filter == employee.EligibilityAll {
		return f.employees, nil
	}
	var active []employee.Employee
	for _, e := range f.employees {
		if e.Status == employee.StatusActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func testEmployee(id, code, salary string) employee.Employee {
	return employee.Employee{
		ID:           id,
		EmployeeCode: code,
		FullName:     "Guard " + code,
		Department:   "Security",
		Position:     "Security Guard",
		HireDate:     time.Date(2023, time.January, 9, 0, 0, 0, 0, time.UTC),
		Salary:       d(salary),
		Status:       employee.StatusActive,
	}
}

func newTestService(emps []employee.Employee, filter employee.EligibilityFilter) (payroll.PayrollService, *fakeStore, *fakeTx) {
	store := &fakeStore{failEmployees: map[string]error{}}
	tx := &fakeTx{store: store}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPayrollService(tx, store, &fakeEmployees{employees: emps}, filter, logger)
	return svc, store, tx
}

func genReq(refDate string) payroll.GeneratePayrollRequest {
	return payroll.GeneratePayrollRequest{ReferenceDate: &refDate}
}

// ===== GENERATION =====

func TestGenerate_CreatesOneRecordPerEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, tx := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
		testEmployee("e2", "0001-0002", "3000000"),
	}, employee.EligibilityAll)

	result, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)

	assert.Equal(t, "Successfully generated payroll for 2 employees", result.Message)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 1, tx.serializableRuns)
	assert.Len(t, store.records, 2)

	a := result.Records[0]
	assert.Equal(t, "e1", a.EmployeeID)
	assert.True(t, a.BaseSalary.Equal(d("2000000")))
	assert.True(t, a.Allowances.Equal(d("200000")))
	assert.True(t, a.Deductions.Equal(d("300000")))
	assert.True(t, a.NetSalary.Equal(d("1900000")))
	assert.Equal(t, "Pending", a.Status)
	assert.Equal(t, "2025-06-15", a.PaymentDate)

	b := result.Records[1]
	assert.Equal(t, "e2", b.EmployeeID)
	assert.True(t, b.Allowances.Equal(d("300000")))
	assert.True(t, b.Deductions.Equal(d("450000")))
	assert.True(t, b.NetSalary.Equal(d("2850000")))
	assert.Equal(t, "Pending", b.Status)
}

func TestGenerate_SecondRunInSameMonthCreatesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, tx := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
		testEmployee("e2", "0001-0002", "3000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-01"))
	require.NoError(t, err)
	require.Len(t, store.records, 2)

	// Re-running within the same month must not duplicate anyone; the run
	// fails as a whole and rolls back.
	_, err = svc.Generate(ctx, genReq("2025-06-28"))
	require.ErrorIs(t, err, payroll.ErrNoNewRecords)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Len(t, store.records, 2)
}

func TestGenerate_NextMonthGeneratesAgain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-30"))
	require.NoError(t, err)

	// The dedup window is the calendar month, so July 1st is a fresh period.
	result, err := svc.Generate(ctx, genReq("2025-07-01"))
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.Len(t, store.records, 2)
}

func TestGenerate_MixOfNewAndExistingEmployees(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
		testEmployee("e2", "0001-0002", "3000000"),
		testEmployee("e3", "0001-0003", "2500000"),
	}, employee.EligibilityAll)

	// Seed a record for e2 this month via the manual path.
	_, err := svc.CreateRecord(ctx, payroll.CreateRecordRequest{
		EmployeeID:  "e2",
		BaseSalary:  d("3000000"),
		Allowances:  d("300000"),
		Deductions:  d("450000"),
		PaymentDate: "2025-06-05",
	})
	require.NoError(t, err)

	result, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)

	assert.Equal(t, "Successfully generated payroll for 2 employees", result.Message)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, store.records, 3)
}

func TestGenerate_NoEmployeesFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, tx := newTestService(nil, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.ErrorIs(t, err, payroll.ErrNoEmployees)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Empty(t, store.records)
}

func TestGenerate_OneInsertFailureDoesNotAbortRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	emps := []employee.Employee{
		testEmployee("e1", "0001-0001", "1000000"),
		testEmployee("e2", "0001-0002", "1000000"),
		testEmployee("e3", "0001-0003", "1000000"),
		testEmployee("e4", "0001-0004", "1000000"),
		testEmployee("e5", "0001-0005", "1000000"),
	}
	svc, store, tx := newTestService(emps, employee.EligibilityAll)
	store.failEmployees["e3"] = errors.New("value too long for type character varying")

	result, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)

	// The four good inserts commit; the bad one is reported, not fatal.
	assert.Equal(t, "Successfully generated payroll for 4 employees", result.Message)
	assert.Len(t, result.Records, 4)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "e3", result.Failures[0].EmployeeID)
	assert.Equal(t, "0001-0003", result.Failures[0].EmployeeCode)
	assert.Contains(t, result.Failures[0].Reason, "value too long")
	assert.Equal(t, 0, tx.rollbacks)
	assert.Len(t, store.records, 4)
}

func TestGenerate_AllInsertsFailRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	emps := []employee.Employee{
		testEmployee("e1", "0001-0001", "1000000"),
		testEmployee("e2", "0001-0002", "1000000"),
	}
	svc, store, tx := newTestService(emps, employee.EligibilityAll)
	store.failEmployees["e1"] = errors.New("boom")
	store.failEmployees["e2"] = errors.New("boom")

	_, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.ErrorIs(t, err, payroll.ErrNoNewRecords)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Empty(t, store.records)
}

func TestGenerate_ActiveEligibilityFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inactive := testEmployee("e2", "0001-0002", "3000000")
	inactive.Status = employee.StatusInactive

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
		inactive,
	}, employee.EligibilityActive)

	result, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "e1", result.Records[0].EmployeeID)
	assert.Len(t, store.records, 1)
}

func TestGenerate_PreservesEmployeeOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "1000000"),
		testEmployee("e2", "0001-0002", "1000000"),
		testEmployee("e3", "0001-0003", "1000000"),
	}, employee.EligibilityAll)

	result, err := svc.Generate(context.Background(), genReq("2025-06-15"))
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "0001-0001", result.Records[0].EmployeeCode)
	assert.Equal(t, "0001-0002", result.Records[1].EmployeeCode)
	assert.Equal(t, "0001-0003", result.Records[2].EmployeeCode)
}

func TestGenerate_InvalidReferenceDate(t *testing.T) {
	t.Parallel()

	svc, _, tx := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(context.Background(), genReq("June 2025"))
	require.Error(t, err)
	assert.Equal(t, 0, tx.serializableRuns)
}

func TestGenerate_RecordsCarryEmployeeDetails(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	result, err := svc.Generate(context.Background(), genReq("2025-06-15"))
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "0001-0001", result.Records[0].EmployeeCode)
	assert.Equal(t, "Security", result.Records[0].Department)
	assert.Equal(t, "Security Guard", result.Records[0].Position)
}

// ===== RECORD LIFECYCLE =====

func TestCreateRecord_RecomputesNetAndDefaultsToPending(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	result, err := svc.CreateRecord(context.Background(), payroll.CreateRecordRequest{
		EmployeeID:  "e1",
		BaseSalary:  d("2000000"),
		Allowances:  d("500000"),
		Deductions:  d("100000"),
		PaymentDate: "2025-06-10",
	})
	require.NoError(t, err)

	assert.True(t, result.NetSalary.Equal(d("2400000")))
	assert.Equal(t, "Pending", result.Status)
}

func TestCreateRecord_UnknownEmployee(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil, employee.EligibilityAll)

	_, err := svc.CreateRecord(context.Background(), payroll.CreateRecordRequest{
		EmployeeID:  "missing",
		BaseSalary:  d("1000"),
		PaymentDate: "2025-06-10",
	})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateRecord_RecomputesNet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)
	recordID := store.records[0].ID

	newDeductions := d("0")
	result, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:         recordID,
		Deductions: &newDeductions,
	})
	require.NoError(t, err)

	// base 2,000,000 + allowances 200,000 - deductions 0
	assert.True(t, result.NetSalary.Equal(d("2200000")), "got %s", result.NetSalary)
}

func TestUpdateRecord_StatusTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)
	recordID := store.records[0].ID

	paid := string(payroll.StatusPaid)
	result, err := svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{ID: recordID, Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, "Paid", result.Status)

	// Paid is terminal: no further edits of any kind.
	pending := string(payroll.StatusPending)
	_, err = svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{ID: recordID, Status: &pending})
	require.ErrorIs(t, err, payroll.ErrRecordFinalized)

	amount := d("1")
	_, err = svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{ID: recordID, BaseSalary: &amount})
	require.ErrorIs(t, err, payroll.ErrRecordFinalized)
}

func TestDeleteRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store, _ := newTestService([]employee.Employee{
		testEmployee("e1", "0001-0001", "2000000"),
	}, employee.EligibilityAll)

	_, err := svc.Generate(ctx, genReq("2025-06-15"))
	require.NoError(t, err)
	recordID := store.records[0].ID

	require.NoError(t, svc.DeleteRecord(ctx, recordID))
	assert.Empty(t, store.records)

	require.ErrorIs(t, svc.DeleteRecord(ctx, recordID), payroll.ErrRecordNotFound)
}

func TestSummary_RejectsInvalidPeriod(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil, employee.EligibilityAll)

	_, err := svc.Summary(context.Background(), 13, 2025)
	require.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	_, err = svc.Summary(context.Background(), 0, 2025)
	require.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	_, err = svc.Summary(context.Background(), 6, 1999)
	require.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}
