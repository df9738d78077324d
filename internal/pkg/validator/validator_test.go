package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123", "12.5"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2025-02-29", "01-01-2023", "2023/01/01", "yesterday", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}

	date, ok := IsValidDate("2025-06-15")
	if !ok {
		t.Fatal("IsValidDate(2025-06-15) = false, want true")
	}
	want := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("IsValidDate(2025-06-15) = %v, want %v", date, want)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"123E4567-E89B-12D3-A456-426614174000",
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
	}
	invalid := []string{
		"123e4567e89b12d3a456426614174000",     // missing dashes
		"g23e4567-e89b-12d3-a456-426614174000", // invalid hex
		"123e4567-e89b-12d3-c456-426614174000", // invalid variant
		"123e4567-e89b-12d3-a456-42661417400",  // too short
		"",
	}
	for _, u := range valid {
		if !IsValidUUID(u) {
			t.Errorf("IsValidUUID(%q) = false, want true", u)
		}
	}
	for _, u := range invalid {
		if IsValidUUID(u) {
			t.Errorf("IsValidUUID(%q) = true, want false", u)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"Pending", "Paid", "Failed"}
	if !IsInSlice("Paid", slice) {
		t.Error("IsInSlice(Paid) = false, want true")
	}
	if IsInSlice("paid", slice) {
		t.Error("IsInSlice(paid) = true, want false")
	}
	if IsInSlice("Paid", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "is required"},
		{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"},
	}

	if got, want := errs.Error(), "employee_id: is required; payment_date: must be a valid date (YYYY-MM-DD)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() has %d entries, want 2", len(m))
	}
	if m["employee_id"] != "is required" {
		t.Errorf("ToMap()[employee_id] = %q", m["employee_id"])
	}
}
