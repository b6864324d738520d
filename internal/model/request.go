package model

// List limits for payment history queries.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ListRequest defines list parameters.
type ListRequest struct {
	Limit int `json:"limit" form:"limit"`
}

// NormalizeLimit applies the default and the upper bound to a requested limit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
