package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
)

// DotationRepository persists weekly dotation reports.
type DotationRepository interface {
	Create(ctx context.Context, report *model.DotationReport) (*model.DotationReport, error)
	GetByID(ctx context.Context, id string) (*model.DotationReport, error)
	ListByEnterprise(ctx context.Context, enterpriseID string, limit, offset int) ([]model.DotationReport, error)
}

// EnterpriseReader provides read access to enterprise settings.
type EnterpriseReader interface {
	GetByID(ctx context.Context, id string) (*model.Enterprise, error)
}

// DotationServiceOptions groups dependencies for DotationService.
type DotationServiceOptions struct {
	Reports     DotationRepository
	Enterprises EnterpriseReader
}

// DotationService computes and records weekly dotation sheets.
type DotationService struct {
	reports     DotationRepository
	enterprises EnterpriseReader
}

// NewDotationService constructs a new DotationService.
func NewDotationService(opts DotationServiceOptions) *DotationService {
	return &DotationService{reports: opts.Reports, enterprises: opts.Enterprises}
}

// ComputeLine returns the salary for one employee line under the enterprise's
// rates: base plus per-unit pay for runs, sales, and invoices.
func ComputeLine(e *model.Enterprise, line model.DotationLine) int64 {
	return e.SalaryBase +
		int64(line.Runs)*e.RunRate +
		int64(line.Sales)*e.SaleRate +
		int64(line.Invoices)*e.InvoiceRate
}

// CreateReport validates the request, fills in computed salaries, and
// persists the sheet. Client-supplied salary values are ignored.
func (s *DotationService) CreateReport(
	ctx context.Context,
	req *model.CreateDotationReportRequest,
	createdBy string,
) (*model.DotationReport, error) {
	if req == nil {
		return nil, errors.New("create dotation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	enterprise, err := s.enterprises.GetByID(ctx, req.EnterpriseID)
	if err != nil {
		return nil, fmt.Errorf("load enterprise: %w", err)
	}

	report := &model.DotationReport{
		EnterpriseID: req.EnterpriseID,
		WeekStart:    req.WeekStart,
		Lines:        make([]model.DotationLine, len(req.Lines)),
		CreatedBy:    createdBy,
	}
	for i, line := range req.Lines {
		line.Salary = ComputeLine(enterprise, line)
		report.Lines[i] = line
		report.TotalSalary += line.Salary
	}

	created, err := s.reports.Create(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("save dotation report: %w", err)
	}
	return created, nil
}

// GetReport fetches one report by ID.
func (s *DotationService) GetReport(ctx context.Context, id string) (*model.DotationReport, error) {
	if id == "" {
		return nil, errors.New("report ID is required")
	}
	return s.reports.GetByID(ctx, id)
}

// ListReports pages through an enterprise's reports, newest first.
func (s *DotationService) ListReports(
	ctx context.Context,
	enterpriseID string,
	limit, offset int,
) ([]model.DotationReport, error) {
	if enterpriseID == "" {
		return nil, errors.New("enterprise ID is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.reports.ListByEnterprise(ctx, enterpriseID, limit, offset)
}

// EmployeeLines extracts one employee's lines from a report, for the
// salaires view where employees may only read their own pay.
func EmployeeLines(report *model.DotationReport, employeeID string) []model.DotationLine {
	var out []model.DotationLine
	for _, line := range report.Lines {
		if line.EmployeeID == employeeID {
			out = append(out, line)
		}
	}
	return out
}
