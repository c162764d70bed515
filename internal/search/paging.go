package search

// DefaultPageSize is the number of flights requested per page.
const DefaultPageSize = 10

// PageCount returns how many pages of size hold total results.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageInRange reports whether page addresses an existing page.
func PageInRange(page, total, size int) bool {
	return page >= 0 && page < PageCount(total, size)
}
