package models

// Headquarters and branch values of the matriz/filial identifier
const (
	EstablishmentHeadquarters = 1
	EstablishmentBranch       = 2
)

// CompanyRecord represents one establishment of the company registry (read-only)
type CompanyRecord struct {
	CNPJ               string `json:"cnpj"`
	CompanyName        string `json:"razao_social"`
	TradeName          string `json:"nome_fantasia"`
	RegistrationStatus string `json:"situacao_cadastral"`
	State              string `json:"uf"`
	CityCode           string `json:"codigo_municipio"`
	CityName           string `json:"municipio"`
	PrimaryCNAE        string `json:"cnae_fiscal"`
	HeadquartersBranch int    `json:"matriz_filial"`
}

// IsHeadquarters reports whether the record is the principal establishment
func (c CompanyRecord) IsHeadquarters() bool {
	return c.HeadquartersBranch == EstablishmentHeadquarters
}

// CompanySearchResponse represents a page of companies
type CompanySearchResponse struct {
	Rows       []CompanyRecord `json:"rows"`
	Pagination PageDescriptor  `json:"pagination"`
}

// CompanyExportResponse represents an export batch, without pagination metadata
type CompanyExportResponse struct {
	Rows []CompanyRecord `json:"rows"`
}
