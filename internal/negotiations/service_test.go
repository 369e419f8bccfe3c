package negotiations

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agritrade-backend/internal/models"
	"agritrade-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seedSeq uint32

func seedMatch(t *testing.T, db *gorm.DB) models.Match {
	t.Helper()
	n := atomic.AddUint32(&seedSeq, 1)

	farmerUser := models.User{
		Name: fmt.Sprintf("farmer-%d", n), Email: fmt.Sprintf("farmer-%d@example.com", n),
		PasswordHash: "x", Role: models.RoleFarmer,
	}
	require.NoError(t, db.Create(&farmerUser).Error)
	buyerUser := models.User{
		Name: fmt.Sprintf("buyer-%d", n), Email: fmt.Sprintf("buyer-%d@example.com", n),
		PasswordHash: "x", Role: models.RoleBuyer,
	}
	require.NoError(t, db.Create(&buyerUser).Error)

	farmer := models.Farmer{
		UserID: farmerUser.ID, FarmName: "Test Farm",
		VerificationStatus: models.VerificationVerified,
	}
	require.NoError(t, db.Create(&farmer).Error)

	buyer := models.Buyer{UserID: buyerUser.ID, CompanyName: "Test Imports", Country: "GH"}
	require.NoError(t, db.Create(&buyer).Error)

	listing := models.Listing{
		FarmerID: farmer.ID, CropType: "Cocoa", Quantity: 12, Unit: "tons",
		QualityGrade: models.GradePremium, PricePerUnit: 5000, Currency: "GHS",
		AvailableFrom: time.Now(), Status: models.ListingActive,
	}
	require.NoError(t, db.Create(&listing).Error)

	match := models.Match{
		ListingID: listing.ID, BuyerID: buyer.ID, FarmerID: farmer.ID,
		Score: 90, EstimatedValue: 60000, Status: models.MatchSuggested,
	}
	require.NoError(t, db.Create(&match).Error)
	return match
}

func negotiationInput(matchID uint) CreateNegotiationInput {
	return CreateNegotiationInput{
		MatchID:      matchID,
		InitialPrice: 5000,
		CurrentPrice: 4800,
		Quantity:     12,
		Unit:         "tons",
		Currency:     "GHS",
		StartedBy:    models.PartyBuyer,
	}
}

func TestCreateNegotiationFlipsMatchStatus(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)

	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)
	assert.Equal(t, models.NegotiationActive, negotiation.Status)

	var reloaded models.Match
	require.NoError(t, db.First(&reloaded, match.ID).Error)
	assert.Equal(t, models.MatchNegotiating, reloaded.Status)
	assert.NotNil(t, reloaded.NegotiationStartedAt)
}

func TestCreateNegotiationUnknownMatch(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := CreateNegotiation(db, negotiationInput(9999))
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestCreateNegotiationRejectsSecondActive(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)

	_, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	_, err = CreateNegotiation(db, negotiationInput(match.ID))
	assert.ErrorIs(t, err, ErrActiveNegotiationExists)
}

func TestCreateNegotiationAllowedAfterRejectedPrior(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)

	first, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	_, err = Reject(db, first.ID)
	require.NoError(t, err)

	second, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateOfferOverwritesCurrentTerms(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	offer, err := CreateOffer(db, negotiation.ID, CreateOfferInput{
		Price: 4500, Quantity: 10, OfferedBy: 1, OfferedByRole: models.PartyFarmer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OfferPending, offer.Status)

	var reloaded models.Negotiation
	require.NoError(t, db.First(&reloaded, negotiation.ID).Error)
	assert.Equal(t, float64(4500), reloaded.CurrentPrice)
	assert.Equal(t, float64(10), reloaded.Quantity)
	assert.Equal(t, models.PartyFarmer, reloaded.LastUpdatedBy)
}

func TestCreateOfferOnResolvedNegotiation(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	_, err = Reject(db, negotiation.ID)
	require.NoError(t, err)

	_, err = CreateOffer(db, negotiation.ID, CreateOfferInput{
		Price: 4500, Quantity: 10, OfferedBy: 1, OfferedByRole: models.PartyBuyer,
	})
	assert.ErrorIs(t, err, ErrNegotiationNotActive)
}

func TestRespondAcceptedShortCircuitsNegotiation(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	first, err := CreateOffer(db, negotiation.ID, CreateOfferInput{
		Price: 4500, Quantity: 12, OfferedBy: 1, OfferedByRole: models.PartyFarmer,
	})
	require.NoError(t, err)
	second, err := CreateOffer(db, negotiation.ID, CreateOfferInput{
		Price: 4700, Quantity: 12, OfferedBy: 2, OfferedByRole: models.PartyBuyer,
	})
	require.NoError(t, err)

	_, err = RespondToOffer(db, first.ID, models.OfferAccepted, "deal")
	require.NoError(t, err)

	var reloaded models.Negotiation
	require.NoError(t, db.First(&reloaded, negotiation.ID).Error)
	assert.Equal(t, models.NegotiationAccepted, reloaded.Status)
	assert.NotNil(t, reloaded.AcceptedAt)

	// The sibling offer stays PENDING.
	var sibling models.Offer
	require.NoError(t, db.First(&sibling, second.ID).Error)
	assert.Equal(t, models.OfferPending, sibling.Status)
}

func TestRespondToResolvedOffer(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	offer, err := CreateOffer(db, negotiation.ID, CreateOfferInput{
		Price: 4500, Quantity: 12, OfferedBy: 1, OfferedByRole: models.PartyFarmer,
	})
	require.NoError(t, err)

	_, err = RespondToOffer(db, offer.ID, models.OfferRejected, "too low")
	require.NoError(t, err)

	_, err = RespondToOffer(db, offer.ID, models.OfferAccepted, "changed my mind")
	assert.ErrorIs(t, err, ErrOfferNotPending)
}

func TestAcceptCreatesTransactionAndSignsContract(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	accepted, transaction, err := Accept(db, negotiation.ID)
	require.NoError(t, err)

	assert.Equal(t, models.NegotiationAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)

	require.NotNil(t, transaction)
	assert.Equal(t, negotiation.ID, transaction.NegotiationID)
	assert.Equal(t, float64(4800), transaction.AgreedPrice)
	assert.Equal(t, "57600", transaction.TotalAmount.String()) // 4800 * 12
	assert.NotEmpty(t, transaction.Reference)

	var reloaded models.Match
	require.NoError(t, db.First(&reloaded, match.ID).Error)
	assert.Equal(t, models.MatchContractSigned, reloaded.Status)
	assert.NotNil(t, reloaded.ContractSignedAt)
}

func TestAcceptTwiceFails(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	_, _, err = Accept(db, negotiation.ID)
	require.NoError(t, err)

	_, _, err = Accept(db, negotiation.ID)
	assert.ErrorIs(t, err, ErrNegotiationNotActive)
}

func TestAcceptIsIdempotentOnTransactionCreation(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	_, first, err := Accept(db, negotiation.ID)
	require.NoError(t, err)

	// Simulate the racing second accept that passed the ACTIVE check before
	// the first one wrote: force the status back and accept again.
	require.NoError(t, db.Model(&models.Negotiation{}).
		Where("id = ?", negotiation.ID).
		Update("status", models.NegotiationActive).Error)

	_, second, err := Accept(db, negotiation.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Transaction{}).Where("negotiation_id = ?", negotiation.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRejectLeavesMatchAlone(t *testing.T) {
	db := testutil.NewDB(t)
	match := seedMatch(t, db)
	negotiation, err := CreateNegotiation(db, negotiationInput(match.ID))
	require.NoError(t, err)

	rejected, err := Reject(db, negotiation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NegotiationRejected, rejected.Status)
	assert.NotNil(t, rejected.RejectedAt)

	var reloaded models.Match
	require.NoError(t, db.First(&reloaded, match.ID).Error)
	assert.Equal(t, models.MatchNegotiating, reloaded.Status)

	var txCount int64
	db.Model(&models.Transaction{}).Count(&txCount)
	assert.Equal(t, int64(0), txCount)
}

func TestRejectUnknownNegotiation(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := Reject(db, 12345)
	assert.ErrorIs(t, err, ErrNegotiationNotFound)
}
