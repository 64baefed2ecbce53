//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxEnterpriseNameLen = 255

// Enterprise represents one managed business attached to a guild.
type Enterprise struct {
	ID      string `json:"id"       db:"id"`
	GuildID string `json:"guild_id" db:"guild_id"`
	Name    string `json:"name"     db:"name"`
	Type    string `json:"type"     db:"type"`
	// SalaryBase is the per-employee weekly base salary in game currency.
	SalaryBase int64 `json:"salary_base" db:"salary_base"`
	// RunRate and SaleRate are the per-unit dotation rates.
	RunRate  int64 `json:"run_rate"  db:"run_rate"`
	SaleRate int64 `json:"sale_rate" db:"sale_rate"`
	// InvoiceRate pays per processed invoice.
	InvoiceRate int64 `json:"invoice_rate" db:"invoice_rate"`
	// BlanchimentEnabled toggles the blanchiment tracking scope for the guild.
	BlanchimentEnabled bool      `json:"blanchiment_enabled" db:"blanchiment_enabled"`
	CreatedAt          time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"          db:"updated_at"`
}

// CreateEnterpriseRequest represents parameters to create an Enterprise.
type CreateEnterpriseRequest struct {
	GuildID     string `json:"guild_id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	SalaryBase  int64  `json:"salary_base,omitempty"`
	RunRate     int64  `json:"run_rate,omitempty"`
	SaleRate    int64  `json:"sale_rate,omitempty"`
	InvoiceRate int64  `json:"invoice_rate,omitempty"`
}

// Validate checks required fields and bounds.
func (r *CreateEnterpriseRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxEnterpriseNameLen {
		return errors.New("name is too long")
	}
	if strings.TrimSpace(r.GuildID) == "" {
		return errors.New("guild_id is required")
	}
	if r.SalaryBase < 0 || r.RunRate < 0 || r.SaleRate < 0 || r.InvoiceRate < 0 {
		return errors.New("rates must not be negative")
	}
	return nil
}

// UpdateEnterpriseRequest represents parameters to update an Enterprise.
// Nil fields are left unchanged.
type UpdateEnterpriseRequest struct {
	Name               *string `json:"name,omitempty"`
	Type               *string `json:"type,omitempty"`
	SalaryBase         *int64  `json:"salary_base,omitempty"`
	RunRate            *int64  `json:"run_rate,omitempty"`
	SaleRate           *int64  `json:"sale_rate,omitempty"`
	InvoiceRate        *int64  `json:"invoice_rate,omitempty"`
	BlanchimentEnabled *bool   `json:"blanchiment_enabled,omitempty"`
}

// Validate checks bounds on the provided fields.
func (r *UpdateEnterpriseRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name must not be empty")
		}
		if utf8.RuneCountInString(name) > maxEnterpriseNameLen {
			return errors.New("name is too long")
		}
	}
	for _, v := range []*int64{r.SalaryBase, r.RunRate, r.SaleRate, r.InvoiceRate} {
		if v != nil && *v < 0 {
			return errors.New("rates must not be negative")
		}
	}
	return nil
}
