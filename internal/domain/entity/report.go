package entity

import "time"

// Estados de una denuncia.
const (
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusResolved   = "resolved"
)

// Tipos de denuncia aceptados.
const (
	ReportTypeSMS     = "sms"
	ReportTypeCall    = "call"
	ReportTypeWebsite = "website"
	ReportTypeApp     = "app"
	ReportTypeOther   = "other"
)

// Report denuncia enviada por un usuario (puede ser anónima: UserID vacío).
type Report struct {
	ID         string
	UserID     string
	ReportType string
	Content    string
	SourceInfo string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReportView denuncia con el nombre del usuario (o vacío si fue anónima).
type ReportView struct {
	Report
	Username string
}

// ValidReportStatus indica si s es un estado admitido.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportStatusPending, ReportStatusProcessing, ReportStatusResolved:
		return true
	}
	return false
}

// ValidReportType indica si t es un tipo de denuncia admitido.
func ValidReportType(t string) bool {
	switch t {
	case ReportTypeSMS, ReportTypeCall, ReportTypeWebsite, ReportTypeApp, ReportTypeOther:
		return true
	}
	return false
}
