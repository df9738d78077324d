package payroll

import "context"

type PayrollService interface {
	// Generate runs one payroll generation for the period containing the
	// request's reference date, inside a single transaction. It commits
	// only when at least one record was inserted.
	Generate(ctx context.Context, req GeneratePayrollRequest) (GeneratePayrollResponse, error)

	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context, filter ListFilter) (ListRecordsResponse, error)
	CreateRecord(ctx context.Context, req CreateRecordRequest) (RecordResponse, error)
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)
	DeleteRecord(ctx context.Context, id string) error
	Summary(ctx context.Context, month, year int) (SummaryResponse, error)
}
