package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPartial   PaymentStatus = "PARTIAL"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "PREPARING"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
)

// Transaction - the financial record created once a negotiation is accepted.
// NegotiationID is unique: one transaction per negotiation, the column is the
// only guard against duplicates on a racing accept.
type Transaction struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Reference     string      `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	NegotiationID uint        `gorm:"uniqueIndex;not null" json:"negotiation_id"`
	Negotiation   Negotiation `gorm:"foreignKey:NegotiationID" json:"negotiation,omitempty"`
	MatchID       uint        `gorm:"index;not null" json:"match_id"`
	BuyerID       uint        `gorm:"index;not null" json:"buyer_id"`
	FarmerID      uint        `gorm:"index;not null" json:"farmer_id"`

	AgreedPrice    float64         `gorm:"not null" json:"agreed_price"` // per unit
	Quantity       float64         `gorm:"not null" json:"quantity"`
	Unit           string          `gorm:"size:20" json:"unit"`
	Currency       string          `gorm:"size:3;not null;default:GHS" json:"currency"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	PaymentStatus  PaymentStatus   `gorm:"size:20;not null;default:PENDING" json:"payment_status"`
	ShipmentStatus ShipmentStatus  `gorm:"size:20;not null;default:PREPARING" json:"shipment_status"`

	Payments  []Payment `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentState string

const (
	PaymentStatePending   PaymentState = "PENDING"
	PaymentStateConfirmed PaymentState = "CONFIRMED"
	PaymentStateFailed    PaymentState = "FAILED"
)

// Payment - a single (mock-gateway) payment against a transaction
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"index;not null" json:"transaction_id"`
	Transaction   Transaction     `gorm:"foreignKey:TransactionID" json:"-"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null;default:GHS" json:"currency"`
	Method        string          `gorm:"size:30" json:"method"` // e.g. "bank_transfer", "mobile_money"
	GatewayRef    string          `gorm:"size:36;uniqueIndex;not null" json:"gateway_ref"`
	Status        PaymentState    `gorm:"size:20;not null;default:PENDING" json:"status"`
	ConfirmedAt   *time.Time      `json:"confirmed_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
