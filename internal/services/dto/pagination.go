package dto

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest - page/limit из query
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize подставляет значения по умолчанию
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Pagination - блок pagination в ответе списков
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination: totalPages = ceil(total/limit)
func NewPagination(p PageRequest, total int64) Pagination {
	p = p.Normalize()
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

// ListResponse - общий формат ответа со списком
type ListResponse[T any] struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Page - результат сервиса для списков
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// MessageResponse - {success, message}
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse - {success, message, data}
type DataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}
