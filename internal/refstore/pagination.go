package refstore

// Pagination mirrors §4.6: page is 1-based and clamped to [1, ∞); page_size
// defaults to 1 and is clamped to [1, 1000].
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if p.PageSize > 1000 {
		p.PageSize = 1000
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.Normalize().PageSize
}
