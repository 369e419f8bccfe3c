package models

import "time"

type NegotiationStatus string

const (
	NegotiationActive    NegotiationStatus = "ACTIVE"
	NegotiationAccepted  NegotiationStatus = "ACCEPTED"
	NegotiationRejected  NegotiationStatus = "REJECTED"
	NegotiationExpired   NegotiationStatus = "EXPIRED"
	NegotiationCancelled NegotiationStatus = "CANCELLED"
)

type OfferStatus string

const (
	OfferPending   OfferStatus = "PENDING"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferRejected  OfferStatus = "REJECTED"
	OfferCountered OfferStatus = "COUNTERED"
	OfferExpired   OfferStatus = "EXPIRED"
)

type PartyRole string

const (
	PartyFarmer PartyRole = "FARMER"
	PartyBuyer  PartyRole = "BUYER"
)

// Negotiation - price/quantity bargaining attached to one match. At most one
// ACTIVE negotiation per match; the check lives in the service layer, not the DB.
type Negotiation struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	MatchID       uint              `gorm:"index;not null" json:"match_id"`
	Match         Match             `gorm:"foreignKey:MatchID" json:"match,omitempty"`
	InitialPrice  float64           `gorm:"not null" json:"initial_price"`
	CurrentPrice  float64           `gorm:"not null" json:"current_price"`
	Quantity      float64           `gorm:"not null" json:"quantity"`
	Unit          string            `gorm:"size:20" json:"unit"`
	Currency      string            `gorm:"size:3;not null;default:GHS" json:"currency"`
	Terms         string            `gorm:"size:1000" json:"terms"`
	Status        NegotiationStatus `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	LastUpdatedBy PartyRole         `gorm:"size:10" json:"last_updated_by"`

	AcceptedAt *time.Time `json:"accepted_at"`
	RejectedAt *time.Time `json:"rejected_at"`

	Offers    []Offer   `gorm:"foreignKey:NegotiationID;constraint:OnDelete:CASCADE" json:"offers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Offer - a single priced counter-proposal within a negotiation
type Offer struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	NegotiationID   uint        `gorm:"index;not null" json:"negotiation_id"`
	Negotiation     Negotiation `gorm:"foreignKey:NegotiationID" json:"-"`
	Price           float64     `gorm:"not null" json:"price"`
	Quantity        float64     `gorm:"not null" json:"quantity"`
	Message         string      `gorm:"size:1000" json:"message"`
	Terms           string      `gorm:"size:1000" json:"terms"`
	OfferedBy       uint        `gorm:"not null" json:"offered_by"` // user id of the offering party
	OfferedByRole   PartyRole   `gorm:"size:10;not null" json:"offered_by_role"`
	Status          OfferStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ResponseMessage string      `gorm:"size:1000" json:"response_message"`
	RespondedAt     *time.Time  `json:"responded_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
