package payroll

import "github.com/shopspring/decimal"

// Default rates applied at generation time: 10% of base salary as
// allowances, 15% as tax deductions.
var (
	allowanceRate = decimal.NewFromFloat(0.10)
	deductionRate = decimal.NewFromFloat(0.15)
)

// AllowancesFor returns the default allowances for a base salary, rounded
// to 2 decimal places.
func AllowancesFor(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Mul(allowanceRate).Round(2)
}

// DeductionsFor returns the default deductions for a base salary, rounded
// to 2 decimal places.
func DeductionsFor(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Mul(deductionRate).Round(2)
}

// RecomputeNet is the single net-pay formula, shared by generation and by
// manual record edits so the two paths cannot drift apart.
func RecomputeNet(baseSalary, allowances, deductions decimal.Decimal) decimal.Decimal {
	return baseSalary.Add(allowances).Sub(deductions)
}

// Calculate derives the full component set for a base salary.
func Calculate(baseSalary decimal.Decimal) (allowances, deductions, net decimal.Decimal) {
	allowances = AllowancesFor(baseSalary)
	deductions = DeductionsFor(baseSalary)
	net = RecomputeNet(baseSalary, allowances, deductions)
	return allowances, deductions, net
}
