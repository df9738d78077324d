package payroll

import "errors"

var (
	ErrNoEmployees     = errors.New("no employees found in the database")
	ErrNoNewRecords    = errors.New("no new payroll records were generated")
	ErrRecordNotFound  = errors.New("payroll record not found")
	ErrRecordFinalized = errors.New("payroll record already finalized, cannot modify")
	ErrInvalidStatus   = errors.New("invalid payroll status")
	ErrInvalidPeriod   = errors.New("invalid payroll period")
)
