package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrIDRequired           = errors.New("id is required")
	ErrEnterpriseIDRequired = errors.New("enterprise_id is required")
)
