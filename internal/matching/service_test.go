package matching

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agritrade-backend/internal/config"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedSeq uint32

func testReasonClient() *ReasonClient {
	return NewReasonClient(&config.Config{AIAPIKey: ""}, zap.NewNop())
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) models.User {
	t.Helper()
	n := atomic.AddUint32(&seedSeq, 1)
	user := models.User{
		Name:         fmt.Sprintf("user-%d", n),
		Email:        fmt.Sprintf("user-%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedFarmer(t *testing.T, db *gorm.DB, status models.VerificationStatus) models.Farmer {
	t.Helper()
	user := seedUser(t, db, models.RoleFarmer)
	farmer := models.Farmer{
		UserID:             user.ID,
		FarmName:           "Test Farm",
		Region:             "Ashanti",
		VerificationStatus: status,
	}
	require.NoError(t, db.Create(&farmer).Error)
	return farmer
}

func seedBuyer(t *testing.T, db *gorm.DB, country string) models.Buyer {
	t.Helper()
	user := seedUser(t, db, models.RoleBuyer)
	buyer := models.Buyer{
		UserID:            user.ID,
		CompanyName:       "Test Imports",
		Country:           country,
		SeekingCrops:      "Cocoa",
		QualityStandards:  "PREMIUM",
		VolumeRequirement: "10 tons/month",
	}
	require.NoError(t, db.Create(&buyer).Error)
	return buyer
}

func seedListing(t *testing.T, db *gorm.DB, farmer models.Farmer, crop string, qty float64) models.Listing {
	t.Helper()
	listing := models.Listing{
		FarmerID:      farmer.ID,
		CropType:      crop,
		Quantity:      qty,
		Unit:          "tons",
		QualityGrade:  models.GradePremium,
		PricePerUnit:  5000,
		Currency:      "GHS",
		AvailableFrom: time.Now().Add(-time.Hour),
		Status:        models.ListingActive,
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

func TestSuggestPersistsMatches(t *testing.T) {
	db := testutil.NewDB(t)
	farmer := seedFarmer(t, db, models.VerificationVerified)
	buyer := seedBuyer(t, db, "GH")
	listing := seedListing(t, db, farmer, "Cocoa", 12)

	matches, err := Suggest(context.Background(), db, testReasonClient(), "GH", buyer.ID, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, listing.ID, m.ListingID)
	assert.Equal(t, buyer.ID, m.BuyerID)
	assert.Equal(t, farmer.ID, m.FarmerID)
	assert.Equal(t, float64(100), m.Score)
	assert.Equal(t, float64(60000), m.EstimatedValue)
	assert.Equal(t, models.MatchSuggested, m.Status)
	assert.NotEmpty(t, m.Reasons)

	var count int64
	db.Model(&models.Match{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSuggestExcludesUnverifiedForInternationalBuyer(t *testing.T) {
	db := testutil.NewDB(t)
	farmer := seedFarmer(t, db, models.VerificationPending)
	buyer := seedBuyer(t, db, "NL")
	seedListing(t, db, farmer, "Cocoa", 12)

	matches, err := Suggest(context.Background(), db, testReasonClient(), "GH", buyer.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSuggestDiscardsLowScoresAndSortsDescending(t *testing.T) {
	db := testutil.NewDB(t)
	farmer := seedFarmer(t, db, models.VerificationVerified)
	buyer := seedBuyer(t, db, "GH")

	seedListing(t, db, farmer, "Cocoa", 12)  // full match
	seedListing(t, db, farmer, "Cocoa", 100) // volume ratio out of band
	seedListing(t, db, farmer, "Millet", 12) // no crop points

	matches, err := Suggest(context.Background(), db, testReasonClient(), "GH", buyer.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, m := range matches {
		assert.Greater(t, m.Score, float64(MinScore))
	}
}

func TestSuggestHonorsLimit(t *testing.T) {
	db := testutil.NewDB(t)
	farmer := seedFarmer(t, db, models.VerificationVerified)
	buyer := seedBuyer(t, db, "GH")
	for i := 0; i < 5; i++ {
		seedListing(t, db, farmer, "Cocoa", 12)
	}

	matches, err := Suggest(context.Background(), db, testReasonClient(), "GH", buyer.ID, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSuggestUnknownBuyer(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := Suggest(context.Background(), db, testReasonClient(), "GH", 9999, 10)
	assert.ErrorIs(t, err, ErrBuyerNotFound)
}
