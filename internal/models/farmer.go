package models

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Farmer - seller profile attached to a user account
type Farmer struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	UserID     uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User       User    `gorm:"foreignKey:UserID" json:"-"`
	FarmName   string  `gorm:"size:200;not null" json:"farm_name"`
	Region     string  `gorm:"size:100" json:"region"`
	District   string  `gorm:"size:100" json:"district"`
	CropsGrown string  `gorm:"size:500" json:"crops_grown"` // comma separated
	FarmSizeHa float64 `json:"farm_size_ha"`
	// Set by an admin; international buyers only match VERIFIED farmers
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:PENDING;index" json:"verification_status"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	VerifierNote       string             `gorm:"size:500" json:"verifier_note"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (f *Farmer) IsVerified() bool {
	return f.VerificationStatus == VerificationVerified
}
