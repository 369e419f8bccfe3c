package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportStatus string

const (
	ReportDraft     ReportStatus = "DRAFT"
	ReportSubmitted ReportStatus = "SUBMITTED"
)

// ExportReport - aggregated period report for government submission.
// Submission is a stub: no real Single Window / GCMS integration exists,
// the government reference is generated locally.
type ExportReport struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Reference        string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Year             int             `gorm:"not null;index" json:"year"`
	Month            int             `gorm:"not null;index" json:"month"`
	TransactionCount int             `gorm:"not null" json:"transaction_count"`
	TotalVolume      float64         `gorm:"not null" json:"total_volume"`
	TotalValue       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_value"`
	Currency         string          `gorm:"size:3;not null;default:GHS" json:"currency"`
	Status           ReportStatus    `gorm:"size:20;not null;default:DRAFT" json:"status"`
	GovernmentRef    string          `gorm:"size:50" json:"government_ref"`
	SubmittedAt      *time.Time      `json:"submitted_at"`
	GeneratedBy      uint            `gorm:"not null" json:"generated_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
