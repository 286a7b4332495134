package pagination

import "gorm.io/gorm"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params is an offset window over an ordered result set.
type Params struct {
	Limit  int
	Offset int
}

// Page is one window of results plus the unpaged total.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize clamps limit and offset into range.
func (p Params) Normalize() Params {
	p.Limit = NormalizeLimit(p.Limit)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// FromRange converts an inclusive row range [from, to] into Params.
func FromRange(from, to int) Params {
	if from < 0 {
		from = 0
	}
	if to < from {
		return Params{Offset: from}.Normalize()
	}
	return Params{Offset: from, Limit: to - from + 1}.Normalize()
}

// Apply adds LIMIT/OFFSET to q.
func (p Params) Apply(q *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return q.Limit(p.Limit).Offset(p.Offset)
}

// NewPage assembles a Page, never returning a nil Items slice.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}
