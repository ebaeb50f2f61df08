package utils

import (
	"net/http"
	"strconv"
	"strings"
)

type QueryOptions struct {
	Page   int
	Limit  int
	Search string
	Tag    string
}

// ParseQueryOptions reads paging and filter parameters. Limit 0 means no paging.
func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
		Tag:    strings.TrimSpace(q.Get("tag")),
	}
}

// Window returns the [start, end) bounds of the requested page over n items.
func (o QueryOptions) Window(n int) (int, int) {
	if o.Limit == 0 {
		return 0, n
	}
	if o.Page < 1 || o.Page-1 > n/o.Limit {
		return n, n
	}
	start := (o.Page - 1) * o.Limit
	if start > n {
		start = n
	}
	end := start + o.Limit
	if end > n {
		end = n
	}
	return start, end
}

// Paginate applies o to items.
func Paginate[T any](items []T, o QueryOptions) []T {
	start, end := o.Window(len(items))
	return items[start:end]
}

func ContainsIgnoreCase(str, substr string) bool {
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}

// HasTag reports whether tags contains tag, ignoring case.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
