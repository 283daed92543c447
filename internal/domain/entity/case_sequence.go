package entity

// DefaultSequenceMax techo por defecto de un consecutivo (cabe en 5 dígitos).
const DefaultSequenceMax = 99999

// CaseSequence contador durable por categoría (tabla case_serial).
//
// Invariante: 1 <= NextValue <= MaxValue+1. Con NextValue > MaxValue la categoría está agotada.
type CaseSequence struct {
	Category  string
	NextValue int
	MaxValue  int
}

// Exhausted indica si el siguiente valor supera el techo efectivo.
func (s *CaseSequence) Exhausted(ceiling int) bool {
	limit := s.MaxValue
	if ceiling > 0 && (limit <= 0 || limit > ceiling) {
		limit = ceiling
	}
	return s.NextValue > limit
}
