package models

import "time"

type DocumentType string

const (
	DocPhytosanitary     DocumentType = "PHYTOSANITARY_CERT"
	DocCertOfOrigin      DocumentType = "CERTIFICATE_OF_ORIGIN"
	DocExportPermit      DocumentType = "EXPORT_PERMIT"
	DocBillOfLading      DocumentType = "BILL_OF_LADING"
	DocQualityInspection DocumentType = "QUALITY_INSPECTION"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentVerified DocumentStatus = "VERIFIED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// Document - trade/export document metadata attached to a transaction.
// Only metadata is stored; verification is a manual admin action.
type Document struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TransactionID uint           `gorm:"index;not null" json:"transaction_id"`
	Transaction   Transaction    `gorm:"foreignKey:TransactionID" json:"-"`
	Type          DocumentType   `gorm:"size:30;not null" json:"type"`
	ReferenceNo   string         `gorm:"size:100" json:"reference_no"`
	IssuedBy      string         `gorm:"size:200" json:"issued_by"`
	IssuedAt      *time.Time     `json:"issued_at"`
	Status        DocumentStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ReviewerNote  string         `gorm:"size:500" json:"reviewer_note"`
	ReviewedBy    *uint          `json:"reviewed_by"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	UploadedBy    uint           `gorm:"not null" json:"uploaded_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
