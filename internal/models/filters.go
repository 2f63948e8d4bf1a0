package models

// FilterSet holds canonical search criteria. Every populated field is already
// normalized; an empty string (or nil SegmentCNAEs) means "no constraint".
type FilterSet struct {
	State        string
	City         string
	CNPJ         string
	CompanyName  string
	TradeName    string
	Status       string
	PrimaryCNAE  string
	Segment      string
	SegmentCNAEs []string
}

// HasSegment reports whether a segment constraint is present. An expanded
// code list may be empty and still constrain the result to nothing.
func (f FilterSet) HasSegment() bool {
	return f.Segment != ""
}

// StateOnly reports whether the state is the only populated constraint
func (f FilterSet) StateOnly() bool {
	return f.State != "" &&
		f.City == "" &&
		f.CNPJ == "" &&
		f.CompanyName == "" &&
		f.TradeName == "" &&
		f.Status == "" &&
		f.PrimaryCNAE == "" &&
		!f.HasSegment()
}

// IsEmpty reports whether no constraint is populated
func (f FilterSet) IsEmpty() bool {
	return f.State == "" &&
		f.City == "" &&
		f.CNPJ == "" &&
		f.CompanyName == "" &&
		f.TradeName == "" &&
		f.Status == "" &&
		f.PrimaryCNAE == "" &&
		!f.HasSegment()
}
