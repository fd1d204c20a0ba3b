package paging

// Marker is one entry of a compact page-number control: either a page
// number or an ellipsis standing in for a gap.
type Marker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Window lists page 1, the last page and current±1, collapsing every gap
// into a single ellipsis. A total below 1 is treated as a single page.
func Window(current, total int) []Marker {
	if total < 1 {
		total = 1
	}
	current = min(max(current, 1), total)

	pages := make([]int, 0, 5)
	for _, p := range []int{1, current - 1, current, current + 1, total} {
		if p < 1 || p > total {
			continue
		}
		if n := len(pages); n > 0 && pages[n-1] >= p {
			continue
		}
		pages = append(pages, p)
	}

	out := make([]Marker, 0, len(pages)+2)
	for i, p := range pages {
		if i > 0 && p-pages[i-1] > 1 {
			out = append(out, Marker{Ellipsis: true})
		}
		out = append(out, Marker{Page: p})
	}
	return out
}
