// ABOUTME: Server-side pagination state for the view details screen
// ABOUTME: Page window, range text and bounds checks

package present

import "fmt"

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is used until the user picks another size.
const DefaultPageSize = 20

const pageWindow = 5

// Pager tracks the current page of a server-paginated dataset.
type Pager struct {
	Page       int
	Limit      int
	TotalCount int
	TotalPages int
}

// NewPager starts at page 1 with the default size.
func NewPager() Pager {
	return Pager{Page: 1, Limit: DefaultPageSize}
}

// Go moves to page if it lies within 1..TotalPages. It reports whether the
// page changed.
func (p *Pager) Go(page int) bool {
	if page < 1 || page > p.TotalPages || page == p.Page {
		return false
	}
	p.Page = page
	return true
}

func (p *Pager) Next() bool  { return p.Go(p.Page + 1) }
func (p *Pager) Prev() bool  { return p.Go(p.Page - 1) }
func (p *Pager) First() bool { return p.Go(1) }
func (p *Pager) Last() bool  { return p.Go(p.TotalPages) }

// SetLimit switches page size and resets to page 1. Sizes outside PageSizes
// are ignored.
func (p *Pager) SetLimit(limit int) bool {
	for _, s := range PageSizes {
		if s == limit {
			p.Limit = limit
			p.Page = 1
			return true
		}
	}
	return false
}

// CycleLimit advances to the next page size, wrapping around.
func (p *Pager) CycleLimit() {
	for i, s := range PageSizes {
		if s == p.Limit {
			p.SetLimit(PageSizes[(i+1)%len(PageSizes)])
			return
		}
	}
	p.SetLimit(DefaultPageSize)
}

// Window returns up to five page numbers centred on the current page.
func (p Pager) Window() []int {
	if p.TotalPages <= 1 {
		return nil
	}
	start := max(1, p.Page-pageWindow/2)
	end := min(p.TotalPages, start+pageWindow-1)
	if end-start+1 < pageWindow {
		start = max(1, end-pageWindow+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Range describes the rows on the current page.
func (p Pager) Range() string {
	from := min((p.Page-1)*p.Limit+1, p.TotalCount)
	to := min(p.Page*p.Limit, p.TotalCount)
	return fmt.Sprintf("Mostrando %d até %d de %d resultados", from, to, p.TotalCount)
}
