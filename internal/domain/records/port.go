package records

import (
	"context"
	"math"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *SearchRecord) error
	Latest(ctx context.Context, limit int) ([]*SearchRecord, error)
	Paginate(ctx context.Context, page, pageSize int) (PaginatedResult, error)
}

// Publisher port for the record-created notification channel
type Publisher interface {
	PublishRecordCreated(ev *Event) error
}

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*SearchRecord `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

// NewPaginatedResult assembles a page with its totals. Data is never nil so
// empty pages serialize as [] rather than null.
func NewPaginatedResult(data []*SearchRecord, page, pageSize int, total int64) PaginatedResult {
	if data == nil {
		data = []*SearchRecord{}
	}
	return PaginatedResult{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
