package utils

import "strconv"

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }

// Pagination приводит произвольный ввод page/limit к безопасным значениям.
func Pagination(pageInput, limitInput string) (int, int) {
	page, limit := 1, DefaultLimit

	if p, err := strconv.Atoi(pageInput); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(limitInput); err == nil && l > 0 {
		limit = l
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}
