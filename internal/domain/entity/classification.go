package entity

// Origen de una clasificación.
const (
	SourceRemote  = "remote"
	SourceKeyword = "keyword"
)

// FraudTypeNormal tipo asignado cuando no se detecta ninguna señal de fraude.
const FraudTypeNormal = "normal"

// ClassificationResult resultado transitorio de un clasificador (remoto o por palabras clave).
// Se consume una sola vez en el pipeline; solo persiste dentro del CaseRecord que produce.
type ClassificationResult struct {
	IsFraud   bool
	FraudType string
	Detail    string
	Source    string // remote | keyword; solo para logs
}
