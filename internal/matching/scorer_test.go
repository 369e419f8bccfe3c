package matching

import (
	"testing"
	"time"

	"agritrade-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

const homeCountry = "GH"

func verifiedFarmer() models.Farmer {
	return models.Farmer{VerificationStatus: models.VerificationVerified}
}

func baseListing() *models.Listing {
	return &models.Listing{
		CropType:      "Cocoa",
		Quantity:      12,
		Unit:          "tons",
		QualityGrade:  models.GradePremium,
		PricePerUnit:  5000,
		AvailableFrom: time.Now().Add(-time.Hour),
		Farmer:        verifiedFarmer(),
	}
}

func baseBuyer() *models.Buyer {
	return &models.Buyer{
		Country:           "GH",
		SeekingCrops:      "Cocoa",
		QualityStandards:  "PREMIUM",
		VolumeRequirement: "10 tons/month",
	}
}

func TestScorePerfectDomesticMatch(t *testing.T) {
	// 5 verified + 30 crop + 25 grade + 20 volume (ratio 1.2) + 10 price + 10 now
	res := Score(baseBuyer(), baseListing(), homeCountry, time.Now())

	assert.False(t, res.Excluded)
	assert.True(t, res.Verified)
	assert.True(t, res.CropExact)
	assert.True(t, res.GradeMatch)
	assert.Equal(t, float64(20), res.VolumePoints)
	assert.True(t, res.PricePresent)
	assert.Equal(t, float64(10), res.AvailabilityScore)
	assert.Equal(t, float64(100), res.Score)
}

func TestScoreInternationalBuyerUnverifiedFarmerExcluded(t *testing.T) {
	listing := baseListing()
	listing.Farmer = models.Farmer{VerificationStatus: models.VerificationPending}

	buyer := baseBuyer()
	buyer.Country = "NL"

	res := Score(buyer, listing, homeCountry, time.Now())
	assert.True(t, res.Excluded)
	assert.Equal(t, float64(0), res.Score)
}

func TestScoreDomesticBuyerUnverifiedFarmerPenalized(t *testing.T) {
	listing := baseListing()
	listing.Farmer = models.Farmer{VerificationStatus: models.VerificationPending}

	res := Score(baseBuyer(), listing, homeCountry, time.Now())
	assert.False(t, res.Excluded)
	// -20 + 30 + 25 + 20 + 10 + 10
	assert.Equal(t, float64(75), res.Score)
}

func TestScoreNeverNegative(t *testing.T) {
	listing := &models.Listing{
		CropType:      "Millet",
		Quantity:      1,
		Unit:          "bags",
		QualityGrade:  models.GradeStandard,
		PricePerUnit:  0,
		AvailableFrom: time.Now().Add(200 * 24 * time.Hour),
		Farmer:        models.Farmer{VerificationStatus: models.VerificationPending},
	}
	buyer := &models.Buyer{
		Country:           "GH",
		SeekingCrops:      "Cocoa",
		QualityStandards:  "PREMIUM",
		VolumeRequirement: "10 tons",
	}

	res := Score(buyer, listing, homeCountry, time.Now())
	assert.Equal(t, float64(0), res.Score)
}

func TestScoreCropExactIsCaseInsensitive(t *testing.T) {
	buyer := baseBuyer()
	buyer.SeekingCrops = "maize, COCOA"

	res := Score(buyer, baseListing(), homeCountry, time.Now())
	assert.True(t, res.CropExact)
	assert.False(t, res.CropPartial)
}

func TestScoreCropPartialIsOneDirectional(t *testing.T) {
	// Listing crop contains the seeking token: partial match.
	buyer := baseBuyer()
	buyer.SeekingCrops = "cocoa"
	listing := baseListing()
	listing.CropType = "Cocoa Beans"

	res := Score(buyer, listing, homeCountry, time.Now())
	assert.False(t, res.CropExact)
	assert.True(t, res.CropPartial)

	// The other direction must not match.
	buyer.SeekingCrops = "cocoa beans"
	listing.CropType = "Cocoa"

	res = Score(buyer, listing, homeCountry, time.Now())
	assert.False(t, res.CropExact)
	assert.False(t, res.CropPartial)
}

func TestVolumeScoreBands(t *testing.T) {
	cases := []struct {
		name        string
		requirement string
		qty         float64
		unit        string
		want        float64
	}{
		{"ratio exactly 0.8", "10 tons/month", 8, "tons", 20},
		{"ratio just under 0.8", "10 tons/month", 7.9999, "tons", 15},
		{"ratio exactly 1.2", "10 tons", 12, "tons", 20},
		{"ratio 2", "10 tons", 20, "tons", 15},
		{"ratio 3", "10 tons", 30, "tons", 10},
		{"ratio above 3", "10 tons", 31, "tons", 0},
		{"ratio below 0.3", "10 tons", 2, "tons", 0},
		{"kg requirement", "500kg weekly", 500, "kg", 20},
		{"tonnes spelling", "10 tonnes", 10, "tons", 20},
		{"unit mismatch", "10 tons", 500, "kg", 0},
		{"unparseable requirement", "a few truckloads", 12, "tons", 10},
		{"empty requirement", "", 12, "tons", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, volumeScore(tc.requirement, tc.qty, tc.unit))
		})
	}
}

func TestAvailabilityScoreBands(t *testing.T) {
	now := time.Now()

	assert.Equal(t, float64(10), availabilityScore(now.Add(-time.Hour), now))
	assert.Equal(t, float64(7), availabilityScore(now.Add(20*24*time.Hour), now))
	assert.Equal(t, float64(4), availabilityScore(now.Add(60*24*time.Hour), now))
	assert.Equal(t, float64(0), availabilityScore(now.Add(120*24*time.Hour), now))
}

func TestScoreGradeMatch(t *testing.T) {
	buyer := baseBuyer()
	buyer.QualityStandards = "Grade_A, Organic"
	listing := baseListing()
	listing.QualityGrade = models.GradeA

	res := Score(buyer, listing, homeCountry, time.Now())
	assert.True(t, res.GradeMatch)
}
