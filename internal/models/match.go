package models

import "time"

type MatchStatus string

const (
	MatchSuggested      MatchStatus = "SUGGESTED"
	MatchContacted      MatchStatus = "CONTACTED"
	MatchNegotiating    MatchStatus = "NEGOTIATING"
	MatchContractSigned MatchStatus = "CONTRACT_SIGNED"
	MatchCompleted      MatchStatus = "COMPLETED"
	MatchCancelled      MatchStatus = "CANCELLED"
)

// Match - a scored buyer/listing pairing tracked through the sales pipeline.
// Status moves SUGGESTED -> CONTACTED -> NEGOTIATING -> CONTRACT_SIGNED ->
// COMPLETED on the happy path; direct PATCHes may skip states, only the
// timestamps record which transitions actually happened.
type Match struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ListingID      uint        `gorm:"index;not null" json:"listing_id"`
	Listing        Listing     `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	BuyerID        uint        `gorm:"index;not null" json:"buyer_id"`
	Buyer          Buyer       `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	FarmerID       uint        `gorm:"index;not null" json:"farmer_id"` // denormalized from the listing
	Farmer         Farmer      `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Score          float64     `gorm:"not null" json:"score"` // 0-100
	EstimatedValue float64     `gorm:"not null" json:"estimated_value"` // price per unit * quantity
	Reasons        string      `gorm:"size:1000" json:"reasons"`
	Status         MatchStatus `gorm:"size:20;not null;default:SUGGESTED;index" json:"status"`

	ContactedAt          *time.Time `json:"contacted_at"`
	NegotiationStartedAt *time.Time `json:"negotiation_started_at"`
	ContractSignedAt     *time.Time `json:"contract_signed_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CancelledAt          *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
