package models

import "time"

// Buyer - importer/trader profile attached to a user account
type Buyer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`
	CompanyName string `gorm:"size:200;not null" json:"company_name"`
	Country     string `gorm:"size:2;not null" json:"country"` // ISO 3166-1 alpha-2
	// Matching inputs, free text as entered on the profile form
	SeekingCrops      string    `gorm:"size:500" json:"seeking_crops"`       // comma separated crop names
	QualityStandards  string    `gorm:"size:500" json:"quality_standards"`   // comma separated, e.g. "Premium, Organic"
	VolumeRequirement string    `gorm:"size:200" json:"volume_requirement"`  // e.g. "10 tons/month"
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
