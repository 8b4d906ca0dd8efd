// Package pager splits a result list into fixed-size pages.
package pager

// DefaultSize is the number of results shown per page.
const DefaultSize = 10

// PageCount returns ceil(n/size), or 0 for an empty list.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns the 1-based page of items. Pages outside [1, PageCount]
// yield an empty slice.
func Slice[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return items[:0]
	}
	start := (page - 1) * size
	if start >= len(items) {
		return items[:0]
	}
	end := min(start+size, len(items))
	return items[start:end]
}
