package dto

import "time"

// SubmitReportRequest body para POST /api/reports.
type SubmitReportRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// SubmitReportResponse identificador de la denuncia creada.
type SubmitReportResponse struct {
	ReportID string `json:"report_id"`
}

// ReportListRequest parámetros de GET /api/admin/reports.
type ReportListRequest struct {
	PageRequest
	Status string `query:"status"`
	Type   string `query:"type"`
}

// ReportDTO denuncia para administración.
type ReportDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username"`
	ReportType string    `json:"report_type"`
	Content    string    `json:"content"`
	SourceInfo string    `json:"source_info"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReportListResponse página de denuncias.
type ReportListResponse struct {
	Data []ReportDTO `json:"data"`
	PageResponse
}

// UpdateReportStatusRequest body para PUT /api/admin/reports/:id/status.
type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

// UpdateReportStatusResponse estado anterior y nuevo.
type UpdateReportStatusResponse struct {
	ReportID  string `json:"report_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// BatchUpdateReportsRequest body para PUT /api/admin/reports/batch.
type BatchUpdateReportsRequest struct {
	ReportIDs []string `json:"report_ids"`
	Status    string   `json:"status"`
}

// BatchUpdateReportsResponse cantidad de denuncias actualizadas.
type BatchUpdateReportsResponse struct {
	UpdatedCount int64  `json:"updated_count"`
	NewStatus    string `json:"new_status"`
}
