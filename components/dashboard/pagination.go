package dashboard

import "fmt"

const (
	defaultPerPage  = 10
	maxVisiblePages = 5
)

// PageSizes are the page sizes offered by list pages.
var PageSizes = []int{10, 25, 50, 100}

// PageLink is one entry of the page-number strip. Ellipsis entries carry no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Pagination describes the controls rendered under a paginated list.
type Pagination struct {
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Links      []PageLink `json:"links,omitempty"`
	Sizes      []int      `json:"sizes,omitempty"`
	Label      string     `json:"label,omitempty"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
}

// Visible reports whether controls should be rendered at all.
func (p Pagination) Visible() bool {
	return p.TotalItems > 0
}

// Request returns the backend page request for the current state.
func (p Pagination) Request() PageRequest {
	return PageRequest{Page: p.Page, Limit: p.PerPage}
}

// NormalizePage clamps a requested page and size to usable values before
// the total is known.
func NormalizePage(req PageRequest) PageRequest {
	if req.Limit <= 0 {
		req.Limit = defaultPerPage
	}
	if req.Page < 1 {
		req.Page = 1
	}
	return req
}

// Paginate computes the controls for total items split into perPage pages.
// The page is clamped into range. No controls are produced for an empty list.
func Paginate(total, perPage, page int) Pagination {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	p := Pagination{Page: 1, PerPage: perPage, TotalItems: total}
	if total <= 0 {
		p.TotalItems = 0
		return p
	}
	p.TotalPages = (total + perPage - 1) / perPage
	switch {
	case page < 1:
		page = 1
	case page > p.TotalPages:
		page = p.TotalPages
	}
	p.Page = page
	p.Start = (page-1)*perPage + 1
	p.End = min(page*perPage, total)
	p.HasPrev = page > 1
	p.HasNext = page < p.TotalPages
	p.Sizes = append([]int(nil), PageSizes...)
	p.Label = fmt.Sprintf("Показано %d-%d из %d", p.Start, p.End, total)
	p.Links = pageLinks(page, p.TotalPages)
	return p
}

func pageLinks(page, totalPages int) []PageLink {
	var numbers []int
	switch {
	case totalPages <= maxVisiblePages:
		for i := 1; i <= totalPages; i++ {
			numbers = append(numbers, i)
		}
	case page <= 3:
		numbers = []int{1, 2, 3, 4, 0, totalPages}
	case page >= totalPages-2:
		numbers = []int{1, 0, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	default:
		numbers = []int{1, 0, page - 1, page, page + 1, 0, totalPages}
	}
	links := make([]PageLink, len(numbers))
	for i, n := range numbers {
		if n == 0 {
			links[i] = PageLink{Ellipsis: true}
			continue
		}
		links[i] = PageLink{Number: n, Current: n == page}
	}
	return links
}
