package handlers

import (
	"strconv"
	"strings"
)

const (
	publicPageSize = 9
	sellerPageSize = 8
	adminPageSize  = 10
)

// parsePageNumber reads a 1-based page number; anything missing or malformed
// falls back to page 1.
func parsePageNumber(raw string) int64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 1
	}

	page, err := strconv.ParseInt(value, 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// totalPages = ceil(count / pageSize) for any non-negative count.
func totalPages(count, pageSize int64) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
