package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names used by the paginated listing endpoint.
const (
	ParamPage     = "page"
	ParamCategory = "category"
	ParamSize     = "size"
)

// Filter narrows the paginated product listing by category and size.
// An empty slice means "no constraint" for that dimension.
//
// Filter 按类别和尺码筛选分页产品列表。空切片表示该维度没有约束。
type Filter struct {
	Categories []string `json:"category" form:"category"`
	Sizes      []string `json:"size" form:"size"`
}

// Normalize returns a copy with trimmed, de-duplicated and sorted values.
// Blank values are dropped.
//
// Normalize 返回值经过去空白、去重和排序的副本。
func (f Filter) Normalize() Filter {
	return Filter{
		Categories: normalizeValues(f.Categories),
		Sizes:      normalizeValues(f.Sizes),
	}
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	n := f.Normalize()
	return len(n.Categories) == 0 && len(n.Sizes) == 0
}

// Equal compares two filters as sets.
//
// Equal 以集合方式比较两个过滤器。
func (f Filter) Equal(other Filter) bool {
	a, b := f.Normalize(), other.Normalize()
	return equalStrings(a.Categories, b.Categories) && equalStrings(a.Sizes, b.Sizes)
}

// Clone returns a deep copy of the filter.
func (f Filter) Clone() Filter {
	return Filter{
		Categories: append([]string(nil), f.Categories...),
		Sizes:      append([]string(nil), f.Sizes...),
	}
}

// Query encodes the page number and the filter as URL query parameters,
// repeating "category" and "size" once per value.
//
// Query 将页码和过滤器编码为URL查询参数。
//
// Parameters:
//   - page: The 1-based page number
//
// Returns:
//   - url.Values: The encoded parameters
func (f Filter) Query(page int) url.Values {
	n := f.Normalize()
	q := url.Values{}
	q.Set(ParamPage, strconv.Itoa(page))
	for _, c := range n.Categories {
		q.Add(ParamCategory, c)
	}
	for _, s := range n.Sizes {
		q.Add(ParamSize, s)
	}
	return q
}

// ParseQuery is the inverse of Filter.Query. A missing or invalid page is
// reported as 1.
func ParseQuery(q url.Values) (int, Filter) {
	page, err := strconv.Atoi(q.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}
	f := Filter{Categories: q[ParamCategory], Sizes: q[ParamSize]}
	return page, f.Normalize()
}

// Matches reports whether a product passes the filter: its category is in
// the category set (if any) and at least one of its size labels is in the
// size set (if any).
//
// Matches 判断产品是否通过过滤器。
func (f Filter) Matches(p Product) bool {
	n := f.Normalize()
	if len(n.Categories) > 0 && !containsFold(n.Categories, p.Category) {
		return false
	}
	if len(n.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if containsFold(n.Sizes, s.Size) {
			return true
		}
	}
	return false
}

// PageResult is one page of the paginated listing.
//
// PageResult 是分页列表中的一页。
type PageResult struct {
	Items       []Product `json:"items"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

func normalizeValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
