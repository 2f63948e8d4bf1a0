package models

// Count sources reported in PageDescriptor.CountSource
const (
	CountSourcePage     = "page"
	CountSourceCount    = "count"
	CountSourceCache    = "cache"
	CountSourceEstimate = "estimate"
)

// PageDescriptor describes a page of search results. Total may be an estimate
// (TotalIsEstimate); HasNext is authoritative for navigation.
type PageDescriptor struct {
	Page            int    `json:"page"`
	Limit           int    `json:"limit"`
	Total           int64  `json:"total"`
	TotalPages      int    `json:"total_pages"`
	HasNext         bool   `json:"has_next"`
	HasPrev         bool   `json:"has_prev"`
	TotalIsEstimate bool   `json:"total_is_estimate"`
	CountSource     string `json:"count_source"`
}
