package model

// ListResponse defines a list response structure.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
	Limit int `json:"limit"`
}

// NewListResponse creates a list response.
func NewListResponse[T any](data []T, limit int) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &ListResponse[T]{
		Data:  data,
		Count: len(data),
		Limit: limit,
	}
}

// SuccessResponse defines success response structure.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
