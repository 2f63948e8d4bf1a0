package utils

// cnpjWeights are the check digit weights; the first digit uses the last 12
var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// ValidateCNPJ validates a CNPJ number.
// It checks if the CNPJ has 14 digits and validates the check digits
func ValidateCNPJ(cnpj string) bool {
	cnpj = DigitsOnly(cnpj)
	if len(cnpj) != 14 {
		return false
	}

	// Repeated digits pass the checksum but are never issued
	allSame := true
	for i := 1; i < len(cnpj); i++ {
		if cnpj[i] != cnpj[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return cnpjCheckDigit(cnpj[:12]) == int(cnpj[12]-'0') &&
		cnpjCheckDigit(cnpj[:13]) == int(cnpj[13]-'0')
}

// cnpjCheckDigit computes the modulo 11 check digit for 12 or 13 leading digits
func cnpjCheckDigit(digits string) int {
	weights := cnpjWeights[len(cnpjWeights)-len(digits):]
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
