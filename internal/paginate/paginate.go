// Package paginate slices a list into fixed-size pages and computes the
// compact page-number window shown beneath a page.
package paginate

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 50

// DefaultWindow is the number of page numbers shown at once.
const DefaultWindow = 7

// Page describes one page of a list of N items.
type Page struct {
	Effective int // 1-based page actually shown.
	Total     int // Page count, at least 1.
	Start     int // Inclusive slice bound.
	End       int // Exclusive slice bound.
	Size      int
}

// Paginate computes the page for n items at pageSize, clamping requested into
// [1, Total]. An empty list still has one (empty) page.
func Paginate(n, pageSize, requested int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n < 0 {
		n = 0
	}
	total := max(1, (n+pageSize-1)/pageSize)
	effective := min(max(requested, 1), total)
	start := min((effective-1)*pageSize, n)
	return Page{
		Effective: effective,
		Total:     total,
		Start:     start,
		End:       min(start+pageSize, n),
		Size:      pageSize,
	}
}

// Slice returns the items of list on page p.
func Slice[T any](list []T, p Page) []T {
	start := min(p.Start, len(list))
	end := min(p.End, len(list))
	return list[start:end]
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Effective > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Effective < p.Total }

// Range returns the 1-based bounds for a "Showing a–b of n" line. Both are
// zero when the page is empty.
func (p Page) Range() (first, last int) {
	if p.End <= p.Start {
		return 0, 0
	}
	return p.Start + 1, p.End
}

// Window returns up to size consecutive page numbers around effective,
// shifted at either edge so the window stays full when total allows.
func Window(effective, total, size int) []int {
	if size <= 0 {
		size = DefaultWindow
	}
	if total < 1 {
		total = 1
	}
	start := max(1, effective-size/2)
	end := min(total, start+size-1)
	if end-start < size-1 {
		start = max(1, end-size+1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
