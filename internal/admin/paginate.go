package admin

// Paginate returns page (zero-based) of items. It never modifies items.
// Pages past the end are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage <= 0 || page < 0 {
		return nil
	}
	start := page * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end:end]
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
