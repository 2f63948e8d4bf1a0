package observability

import (
	"github.com/prospecta/company-search/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCNPJ masks a CNPJ (or partial CNPJ) for logging, keeping the root prefix
func MaskCNPJ(cnpj string) string {
	if len(cnpj) < 8 {
		return "********"
	}
	return cnpj[:8] + "******"
}
