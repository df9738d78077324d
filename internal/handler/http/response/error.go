package response

import (
	"errors"
	"net/http"

	"github.com/sentrihq/erp-backend-go/internal/domain/employee"
	"github.com/sentrihq/erp-backend-go/internal/domain/payroll"
	"github.com/sentrihq/erp-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrNoEmployees):
		NotFound(w, "No employees found in the database")
	case errors.Is(err, payroll.ErrNoNewRecords):
		InternalServerError(w, "No new payroll records were generated. This could be because payroll records already exist for all employees this month.")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payment record not found")
	case errors.Is(err, payroll.ErrRecordFinalized):
		Conflict(w, "Payment record is already finalized and cannot be modified")
	case errors.Is(err, payroll.ErrInvalidStatus):
		BadRequest(w, "Invalid payroll status")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
