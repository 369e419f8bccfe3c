package negotiations

import (
	"errors"
	"time"

	"agritrade-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrNegotiationNotFound = errors.New("negotiation not found")
	ErrOfferNotFound       = errors.New("offer not found")

	ErrActiveNegotiationExists = errors.New("match already has an active negotiation")
	ErrNegotiationNotActive    = errors.New("negotiation is not active")
	ErrOfferNotPending         = errors.New("offer is not pending")
)

type CreateNegotiationInput struct {
	MatchID      uint
	InitialPrice float64
	CurrentPrice float64
	Quantity     float64
	Unit         string
	Currency     string
	Terms        string
	StartedBy    models.PartyRole
}

// CreateNegotiation opens bargaining on a match. At most one ACTIVE
// negotiation may exist per match; prior REJECTED/EXPIRED/CANCELLED ones do
// not block a new session. The multi-step write is intentionally not wrapped
// in a DB transaction (see DESIGN.md).
func CreateNegotiation(db *gorm.DB, in CreateNegotiationInput) (*models.Negotiation, error) {
	var match models.Match
	if err := db.First(&match, in.MatchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var activeCount int64
	if err := db.Model(&models.Negotiation{}).
		Where("match_id = ? AND status = ?", match.ID, models.NegotiationActive).
		Count(&activeCount).Error; err != nil {
		return nil, err
	}
	if activeCount > 0 {
		return nil, ErrActiveNegotiationExists
	}

	currency := in.Currency
	if currency == "" {
		currency = "GHS"
	}

	negotiation := models.Negotiation{
		MatchID:       match.ID,
		InitialPrice:  in.InitialPrice,
		CurrentPrice:  in.CurrentPrice,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		Currency:      currency,
		Terms:         in.Terms,
		Status:        models.NegotiationActive,
		LastUpdatedBy: in.StartedBy,
	}
	if err := db.Create(&negotiation).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	match.Status = models.MatchNegotiating
	match.NegotiationStartedAt = &now
	if err := db.Save(&match).Error; err != nil {
		return nil, err
	}

	return &negotiation, nil
}

type CreateOfferInput struct {
	Price         float64
	Quantity      float64
	Message       string
	Terms         string
	OfferedBy     uint
	OfferedByRole models.PartyRole
}

// CreateOffer records a counter-proposal and immediately overwrites the
// negotiation's current terms with it, whichever side proposed.
func CreateOffer(db *gorm.DB, negotiationID uint, in CreateOfferInput) (*models.Offer, error) {
	var negotiation models.Negotiation
	if err := db.First(&negotiation, negotiationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegotiationNotFound
		}
		return nil, err
	}
	if negotiation.Status != models.NegotiationActive {
		return nil, ErrNegotiationNotActive
	}

	offer := models.Offer{
		NegotiationID: negotiation.ID,
		Price:         in.Price,
		Quantity:      in.Quantity,
		Message:       in.Message,
		Terms:         in.Terms,
		OfferedBy:     in.OfferedBy,
		OfferedByRole: in.OfferedByRole,
		Status:        models.OfferPending,
	}
	if err := db.Create(&offer).Error; err != nil {
		return nil, err
	}

	negotiation.CurrentPrice = in.Price
	negotiation.Quantity = in.Quantity
	negotiation.LastUpdatedBy = in.OfferedByRole
	if err := db.Save(&negotiation).Error; err != nil {
		return nil, err
	}

	return &offer, nil
}

// RespondToOffer resolves a pending offer. An ACCEPTED response short-circuits
// the whole negotiation to ACCEPTED, leaving any sibling offers PENDING.
func RespondToOffer(db *gorm.DB, offerID uint, status models.OfferStatus, responseMessage string) (*models.Offer, error) {
	var offer models.Offer
	if err := db.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	if offer.Status != models.OfferPending {
		return nil, ErrOfferNotPending
	}

	now := time.Now()
	offer.Status = status
	offer.ResponseMessage = responseMessage
	offer.RespondedAt = &now
	if err := db.Save(&offer).Error; err != nil {
		return nil, err
	}

	if status == models.OfferAccepted {
		var negotiation models.Negotiation
		if err := db.First(&negotiation, offer.NegotiationID).Error; err != nil {
			return nil, err
		}
		negotiation.Status = models.NegotiationAccepted
		negotiation.AcceptedAt = &now
		if err := db.Save(&negotiation).Error; err != nil {
			return nil, err
		}
	}

	return &offer, nil
}

// Accept closes an active negotiation on its current terms. Transaction
// creation is idempotent via the lookup on negotiation_id; the unique column
// backs that check against a racing second accept.
func Accept(db *gorm.DB, negotiationID uint) (*models.Negotiation, *models.Transaction, error) {
	var negotiation models.Negotiation
	if err := db.First(&negotiation, negotiationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNegotiationNotFound
		}
		return nil, nil, err
	}
	if negotiation.Status != models.NegotiationActive {
		return nil, nil, ErrNegotiationNotActive
	}

	now := time.Now()
	negotiation.Status = models.NegotiationAccepted
	negotiation.AcceptedAt = &now
	if err := db.Save(&negotiation).Error; err != nil {
		return nil, nil, err
	}

	var match models.Match
	if err := db.First(&match, negotiation.MatchID).Error; err != nil {
		return nil, nil, err
	}

	var transaction models.Transaction
	err := db.Where("negotiation_id = ?", negotiation.ID).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		price := decimal.NewFromFloat(negotiation.CurrentPrice)
		qty := decimal.NewFromFloat(negotiation.Quantity)
		transaction = models.Transaction{
			Reference:      uuid.NewString(),
			NegotiationID:  negotiation.ID,
			MatchID:        match.ID,
			BuyerID:        match.BuyerID,
			FarmerID:       match.FarmerID,
			AgreedPrice:    negotiation.CurrentPrice,
			Quantity:       negotiation.Quantity,
			Unit:           negotiation.Unit,
			Currency:       negotiation.Currency,
			TotalAmount:    price.Mul(qty).Round(2),
			PaymentStatus:  models.PaymentPending,
			ShipmentStatus: models.ShipmentPreparing,
		}
		if err := db.Create(&transaction).Error; err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	match.Status = models.MatchContractSigned
	match.ContractSignedAt = &now
	if err := db.Save(&match).Error; err != nil {
		return nil, nil, err
	}

	return &negotiation, &transaction, nil
}

// Reject closes a negotiation without a contract. Only absence fails; the
// match keeps whatever status it had.
func Reject(db *gorm.DB, negotiationID uint) (*models.Negotiation, error) {
	var negotiation models.Negotiation
	if err := db.First(&negotiation, negotiationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNegotiationNotFound
		}
		return nil, err
	}

	now := time.Now()
	negotiation.Status = models.NegotiationRejected
	negotiation.RejectedAt = &now
	if err := db.Save(&negotiation).Error; err != nil {
		return nil, err
	}

	return &negotiation, nil
}
