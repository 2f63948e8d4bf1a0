package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prospecta/company-search/internal/models"
)

// MaxPage bounds the page number so offsets cannot overflow
const MaxPage = 1_000_000

// Assemble builds the page descriptor. A full page always reports HasNext,
// widening TotalPages to page+1 if the total disagrees.
func Assemble(rowsReturned int, count CountResult, page, limit int) models.PageDescriptor {
	totalPages := 0
	if limit > 0 && count.Total > 0 {
		totalPages = int((count.Total + int64(limit) - 1) / int64(limit))
	}

	hasNext := rowsReturned == limit || page < totalPages
	if hasNext && totalPages < page+1 {
		totalPages = page + 1
	}

	return models.PageDescriptor{
		Page:            page,
		Limit:           limit,
		Total:           count.Total,
		TotalPages:      totalPages,
		HasNext:         hasNext,
		HasPrev:         page > 1,
		TotalIsEstimate: count.Estimated,
		CountSource:     count.Source,
	}
}

// ParsePagination validates raw page and limit values. Blank values take the
// defaults; limits above MaxPageLimit are clamped.
func ParsePagination(pageStr, limitStr string) (int, int, error) {
	page, err := parsePositive("page", pageStr, 1)
	if err != nil {
		return 0, 0, err
	}
	if page > MaxPage {
		return 0, 0, fmt.Errorf("%w: page must be at most %d", models.ErrValidation, MaxPage)
	}

	limit, err := parsePositive("limit", limitStr, DefaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return page, limit, nil
}

// ParseExportCap validates a raw export row cap, clamping it to ceiling
func ParseExportCap(maxRowsStr string, ceiling int) (int, error) {
	maxRows, err := parsePositive("max_rows", maxRowsStr, ceiling)
	if err != nil {
		return 0, err
	}
	if maxRows > ceiling {
		maxRows = ceiling
	}
	return maxRows, nil
}

func parsePositive(name, raw string, defaultValue int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", models.ErrValidation, name)
	}
	return value, nil
}
