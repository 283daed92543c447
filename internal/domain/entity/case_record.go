package entity

import "time"

// CaseRecord registro de un texto analizado (tabla sms_record).
// Se crea una sola vez por ejecución exitosa del pipeline y no se modifica después.
type CaseRecord struct {
	ID        string
	UserID    string
	CaseNo    string // identificador <código><5 dígitos>, único
	SMSText   string
	IsFraud   bool
	FraudType string
	Detail    string
	CreatedAt time.Time
}

// CaseRecordView registro con el nombre del usuario que lo envió (listados de administración).
type CaseRecordView struct {
	CaseRecord
	Username string
}
