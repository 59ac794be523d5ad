package generics

import "strconv"

/*
Page represents a paginated result set with metadata.

Fields:
- Page: Current page number (1-indexed)
- Limit: Maximum number of records per page
- TotalPages: ceil(TotalResults / Limit), 0 when there are no records
- TotalResults: Total number of records matching the query
- Content: Slice containing the records of the current page, empty past the last page
*/
type Page[T any] struct {
	Page         int
	Limit        int
	TotalPages   int
	TotalResults int
	Content      []T
}

func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// StringToFloat returns nil when s is empty or not a number.
func StringToFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
