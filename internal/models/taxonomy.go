package models

// IndustryCode represents a CNAE (Classificação Nacional de Atividades Econômicas) entry of a segment
type IndustryCode struct {
	Code        string `json:"code" bson:"code"`
	Description string `json:"description" bson:"description"`
	Segment     string `json:"segment,omitempty" bson:"-"`
}

// SegmentSummary represents a business segment and the number of codes it expands to
type SegmentSummary struct {
	Name      string `json:"name"`
	CodeCount int    `json:"code_count"`
}

// SegmentListResponse represents the response for listing segments
type SegmentListResponse struct {
	Segments []SegmentSummary `json:"segments"`
}

// IndustryCodeListResponse represents a list of industry codes
type IndustryCodeListResponse struct {
	Codes []IndustryCode `json:"codes"`
}
