package search

import (
	"strings"

	"github.com/prospecta/company-search/internal/models"
	"github.com/prospecta/company-search/internal/utils"
)

// Raw filter keys accepted by Normalize
const (
	FieldState       = "uf"
	FieldCity        = "municipio"
	FieldCNPJ        = "cnpj"
	FieldCompanyName = "razao_social"
	FieldTradeName   = "nome_fantasia"
	FieldStatus      = "situacao_cadastral"
	FieldCNAE        = "cnae"
	FieldSegment     = "segmento"
)

// FilterFields lists every raw filter key
var FilterFields = []string{
	FieldState,
	FieldCity,
	FieldCNPJ,
	FieldCompanyName,
	FieldTradeName,
	FieldStatus,
	FieldCNAE,
	FieldSegment,
}

// SegmentExpander resolves a segment name to its industry codes
type SegmentExpander interface {
	CodesForSegment(segment string) []string
}

// Normalize turns untrusted raw criteria into a canonical FilterSet.
// Blank or unparseable values are dropped; it never fails.
func Normalize(raw map[string]string, segments SegmentExpander) models.FilterSet {
	var fs models.FilterSet

	fs.State = normalizeState(raw[FieldState])
	fs.City = strings.ToUpper(utils.FoldAccents(utils.CollapseSpaces(raw[FieldCity])))
	fs.CNPJ = utils.DigitsOnly(raw[FieldCNPJ])
	fs.CompanyName = normalizeText(raw[FieldCompanyName])
	fs.TradeName = normalizeText(raw[FieldTradeName])
	fs.Status = normalizeStatus(raw[FieldStatus])
	fs.PrimaryCNAE = utils.DigitsOnly(raw[FieldCNAE])

	if segment := strings.ToLower(utils.CollapseSpaces(raw[FieldSegment])); segment != "" {
		fs.Segment = segment
		fs.SegmentCNAEs = []string{}
		if segments != nil {
			fs.SegmentCNAEs = segments.CodesForSegment(segment)
		}
	}

	return fs
}

func normalizeText(value string) string {
	return strings.ToUpper(utils.CollapseSpaces(value))
}

// normalizeState accepts two ASCII letters only
func normalizeState(value string) string {
	state := strings.ToUpper(strings.TrimSpace(value))
	if len(state) != 2 {
		return ""
	}
	for i := 0; i < len(state); i++ {
		if state[i] < 'A' || state[i] > 'Z' {
			return ""
		}
	}
	return state
}

// normalizeStatus left-pads the registration status code to two digits
func normalizeStatus(value string) string {
	digits := utils.DigitsOnly(value)
	switch len(digits) {
	case 0:
		return ""
	case 1:
		return "0" + digits
	default:
		return digits
	}
}
