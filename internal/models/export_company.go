package models

import "time"

// ExportCompany - exporter profile attached to a user account
type ExportCompany struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID" json:"-"`
	CompanyName        string    `gorm:"size:200;not null" json:"company_name"`
	LicenseNumber      string    `gorm:"size:100;uniqueIndex;not null" json:"license_number"`
	DestinationMarkets string    `gorm:"size:500" json:"destination_markets"` // comma separated country codes
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SupplierLink - membership of a farmer in an export company's supplier network
type SupplierLink struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	ExportCompanyID uint          `gorm:"index:idx_supplier_link,unique;not null" json:"export_company_id"`
	ExportCompany   ExportCompany `gorm:"foreignKey:ExportCompanyID" json:"-"`
	FarmerID        uint          `gorm:"index:idx_supplier_link,unique;not null" json:"farmer_id"`
	Farmer          Farmer        `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Note            string        `gorm:"size:500" json:"note"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
