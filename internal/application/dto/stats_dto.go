package dto

import "github.com/shopspring/decimal"

// TopFraudTypeDTO tipo de fraude más frecuente y su participación.
type TopFraudTypeDTO struct {
	Type       string          `json:"type"` // "无" si no hay registros de fraude
	Percentage decimal.Decimal `json:"percentage"`
}

// StatsResponse respuesta de GET /api/admin/stats.
type StatsResponse struct {
	TodayNewRecords   int             `json:"today_new_records"`
	TotalFraudRecords int             `json:"total_fraud_records"`
	TopFraudType      TopFraudTypeDTO `json:"top_fraud_type"`
}
