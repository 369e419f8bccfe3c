package models

import "time"

type QualityGrade string

const (
	GradePremium  QualityGrade = "PREMIUM"
	GradeA        QualityGrade = "GRADE_A"
	GradeB        QualityGrade = "GRADE_B"
	GradeStandard QualityGrade = "STANDARD"
)

type ListingStatus string

const (
	ListingActive  ListingStatus = "ACTIVE"
	ListingPending ListingStatus = "PENDING"
	ListingSold    ListingStatus = "SOLD"
	ListingExpired ListingStatus = "EXPIRED"
)

// Listing - a farmer's sellable lot
type Listing struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	FarmerID       uint          `gorm:"index;not null" json:"farmer_id"`
	Farmer         Farmer        `gorm:"foreignKey:FarmerID" json:"farmer"`
	CropType       string        `gorm:"size:100;not null;index" json:"crop_type"`
	Variety        string        `gorm:"size:100" json:"variety"`
	Quantity       float64       `gorm:"not null" json:"quantity"`
	Unit           string        `gorm:"size:20;not null" json:"unit"` // e.g. "tons", "kg"
	QualityGrade   QualityGrade  `gorm:"size:20;not null" json:"quality_grade"`
	PricePerUnit   float64       `gorm:"not null" json:"price_per_unit"`
	Currency       string        `gorm:"size:3;not null;default:GHS" json:"currency"`
	AvailableFrom  time.Time     `gorm:"not null" json:"available_from"`
	AvailableUntil *time.Time    `json:"available_until"`
	Certifications string        `gorm:"size:500" json:"certifications"` // comma separated
	Description    string        `gorm:"size:1000" json:"description"`
	Status         ListingStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
