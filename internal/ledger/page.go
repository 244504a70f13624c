package ledger

import "strconv"

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Page is a limit/skip window over a newest-first list.
type Page struct {
	Limit int
	Skip  int
}

// ParsePage reads limit and skip query values. Missing, malformed or
// non-positive limits fall back to DefaultLimit; negative skips become 0.
func ParsePage(limit, skip string) Page {
	p := Page{Limit: DefaultLimit}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = min(n, MaxLimit)
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		p.Skip = n
	}
	return p
}

type Pagination struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
	Pages int `json:"pages"`
}

func newPagination(total int, p Page) Pagination {
	return Pagination{
		Total: total,
		Limit: p.Limit,
		Skip:  p.Skip,
		Pages: (total + p.Limit - 1) / p.Limit,
	}
}
