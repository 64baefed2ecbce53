//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// DotationLine is one employee's weekly activity counts and computed pay.
type DotationLine struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Runs         int    `json:"runs"`
	Sales        int    `json:"sales"`
	Invoices     int    `json:"invoices"`
	// Salary is computed by the dotation calculator, never supplied by clients.
	Salary int64 `json:"salary"`
}

// Validate checks the line's counts.
func (l *DotationLine) Validate() error {
	if strings.TrimSpace(l.EmployeeID) == "" {
		return errors.New("employee_id is required")
	}
	if l.Runs < 0 || l.Sales < 0 || l.Invoices < 0 {
		return errors.New("activity counts must not be negative")
	}
	return nil
}

// DotationReport is one enterprise's weekly dotation sheet.
type DotationReport struct {
	ID           string         `json:"id"            db:"id"`
	EnterpriseID string         `json:"enterprise_id" db:"enterprise_id"`
	WeekStart    time.Time      `json:"week_start"    db:"week_start"`
	Lines        []DotationLine `json:"lines"         db:"lines"`
	TotalSalary  int64          `json:"total_salary"  db:"total_salary"`
	CreatedBy    string         `json:"created_by"    db:"created_by"`
	CreatedAt    time.Time      `json:"created_at"    db:"created_at"`
}

// CreateDotationReportRequest represents parameters to record a weekly sheet.
type CreateDotationReportRequest struct {
	EnterpriseID string         `json:"enterprise_id"`
	WeekStart    time.Time      `json:"week_start"`
	Lines        []DotationLine `json:"lines"`
}

// Validate checks required fields and each line.
func (r *CreateDotationReportRequest) Validate() error {
	if strings.TrimSpace(r.EnterpriseID) == "" {
		return errors.New("enterprise_id is required")
	}
	if r.WeekStart.IsZero() {
		return errors.New("week_start is required")
	}
	if len(r.Lines) == 0 {
		return errors.New("at least one line is required")
	}
	for i := range r.Lines {
		if err := r.Lines[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
