//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// BlanchimentStatus tracks the review state of one blanchiment operation.
type BlanchimentStatus string

const (
	BlanchimentPending   BlanchimentStatus = "pending"
	BlanchimentValidated BlanchimentStatus = "validated"
	BlanchimentRejected  BlanchimentStatus = "rejected"
)

// Valid reports whether the status is supported.
func (s BlanchimentStatus) Valid() bool {
	switch s {
	case BlanchimentPending, BlanchimentValidated, BlanchimentRejected:
		return true
	default:
		return false
	}
}

// ParseBlanchimentStatus normalizes a status string and reports whether it is supported.
func ParseBlanchimentStatus(value string) (BlanchimentStatus, bool) {
	s := BlanchimentStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// BlanchimentOperation is one tracked money-cleaning operation.
type BlanchimentOperation struct {
	ID           string `json:"id"            db:"id"`
	EnterpriseID string `json:"enterprise_id" db:"enterprise_id"`
	EmployeeID   string `json:"employee_id"   db:"employee_id"`
	EmployeeName string `json:"employee_name" db:"employee_name"`
	Amount       int64  `json:"amount"        db:"amount"`
	// PercEnterprise and PercGroup split the amount between the enterprise
	// and the supplying group, in whole percents.
	PercEnterprise int               `json:"perc_enterprise" db:"perc_enterprise"`
	PercGroup      int               `json:"perc_group"      db:"perc_group"`
	Status         BlanchimentStatus `json:"status"          db:"status"`
	CreatedAt      time.Time         `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"      db:"updated_at"`
}

// EnterpriseShare returns the enterprise's cut of the amount.
func (o BlanchimentOperation) EnterpriseShare() int64 {
	return o.Amount * int64(o.PercEnterprise) / 100
}

// GroupShare returns the supplying group's cut of the amount.
func (o BlanchimentOperation) GroupShare() int64 {
	return o.Amount * int64(o.PercGroup) / 100
}

// CreateBlanchimentRequest represents parameters to record an operation.
type CreateBlanchimentRequest struct {
	EnterpriseID   string `json:"enterprise_id"`
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name,omitempty"`
	Amount         int64  `json:"amount"`
	PercEnterprise int    `json:"perc_enterprise"`
	PercGroup      int    `json:"perc_group"`
}

// Validate checks required fields and the percentage split.
func (r *CreateBlanchimentRequest) Validate() error {
	if strings.TrimSpace(r.EnterpriseID) == "" {
		return errors.New("enterprise_id is required")
	}
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("employee_id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if r.PercEnterprise < 0 || r.PercGroup < 0 || r.PercEnterprise+r.PercGroup > 100 {
		return errors.New("percentage split must be within [0,100]")
	}
	return nil
}

// BlanchimentTotals aggregates validated operations for one enterprise.
type BlanchimentTotals struct {
	EnterpriseID    string `json:"enterprise_id"`
	Operations      int    `json:"operations"`
	TotalAmount     int64  `json:"total_amount"`
	EnterpriseShare int64  `json:"enterprise_share"`
	GroupShare      int64  `json:"group_share"`
}
