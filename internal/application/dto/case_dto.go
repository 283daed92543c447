package dto

import "time"

// AnalyzeRequest body para POST /api/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse resultado del pipeline: identificador asignado y clasificación.
type AnalyzeResponse struct {
	CaseID    string `json:"case_id"`
	IsFraud   bool   `json:"is_fraud"`
	FraudType string `json:"fraud_type"`
	Detail    string `json:"detail"`
}

// RecordListRequest parámetros de GET /api/admin/records.
type RecordListRequest struct {
	PageRequest
	FraudType string `query:"fraud_type"`
	IsFraud   string `query:"is_fraud"` // "true" | "false" | vacío
	Keyword   string `query:"search_keyword"`
}

// RecordDTO registro de caso para administración.
type RecordDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CaseNo    string    `json:"case_no"`
	SMSText   string    `json:"sms_text"`
	IsFraud   bool      `json:"is_fraud"`
	FraudType string    `json:"fraud_type"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordListResponse página de registros.
type RecordListResponse struct {
	Data []RecordDTO `json:"data"`
	PageResponse
}

// SequenceDTO estado de un consecutivo.
type SequenceDTO struct {
	Category  string `json:"category"`
	FraudType string `json:"fraud_type,omitempty"`
	NextValue int    `json:"next_value"`
	MaxValue  int    `json:"max_value"`
	Exhausted bool   `json:"exhausted"`
}

// ResetCategoryResponse resultado del reinicio de un consecutivo.
type ResetCategoryResponse struct {
	Category       string `json:"category"`
	DeletedRecords int64  `json:"deleted_records"`
}
