package fraud

import (
	"fmt"
	"strconv"
)

const (
	// CaseDigits ancho fijo de la parte numérica del identificador de caso.
	CaseDigits = 5
	// MaxCaseValue mayor valor representable en CaseDigits dígitos.
	MaxCaseValue = 99999
)

// ValidCode indica si code es un código de categoría válido: un único carácter ASCII alfanumérico.
func ValidCode(code string) bool {
	if len(code) != 1 {
		return false
	}
	ch := code[0]
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// FormatCaseID concatena el código y el valor rellenado con ceros a CaseDigits dígitos.
func FormatCaseID(code string, value int) string {
	return fmt.Sprintf("%s%0*d", code, CaseDigits, value)
}

// ParseCaseID separa un identificador en código y valor.
func ParseCaseID(caseID string) (code string, value int, err error) {
	if len(caseID) != 1+CaseDigits || !ValidCode(caseID[:1]) {
		return "", 0, fmt.Errorf("identificador de caso inválido: %q", caseID)
	}
	digits := caseID[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, fmt.Errorf("identificador de caso inválido: %q", caseID)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("identificador de caso inválido: %q", caseID)
	}
	return caseID[:1], n, nil
}
