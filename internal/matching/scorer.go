package matching

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"agritrade-backend/internal/models"
)

// Scoring weights. Contributions are additive and the total is clamped to [0,100].
const (
	pointsCropExact     = 30
	pointsCropPartial   = 15
	pointsGradeMatch    = 25
	pointsGradeFallback = 20
	pointsVolumeDefault = 10
	pointsPrice         = 10
	verifiedBonus       = 5
	unverifiedPenalty   = 20

	// Matches at or below this score are discarded.
	MinScore = 30
)

// ScoreResult carries the total plus which rules fired, so reason generation
// can describe the match without re-running the scorer.
type ScoreResult struct {
	Score    float64
	Excluded bool // unverified farmer, non-domestic buyer

	Verified          bool
	CropExact         bool
	CropPartial       bool
	GradeMatch        bool
	GradeFallback     bool
	VolumePoints      float64
	PricePresent      bool
	AvailabilityScore float64
}

// Score computes buyer/listing compatibility. listing.Farmer must be loaded.
func Score(buyer *models.Buyer, listing *models.Listing, homeCountry string, now time.Time) ScoreResult {
	var res ScoreResult

	// Verification gate: international buyers only match verified farmers.
	if listing.Farmer.IsVerified() {
		res.Verified = true
		res.Score += verifiedBonus
	} else {
		if !strings.EqualFold(buyer.Country, homeCountry) {
			res.Excluded = true
			res.Score = 0
			return res
		}
		res.Score -= unverifiedPenalty
	}

	cropScore(buyer, listing, &res)
	gradeScore(buyer, listing, &res)

	res.VolumePoints = volumeScore(buyer.VolumeRequirement, listing.Quantity, listing.Unit)
	res.Score += res.VolumePoints

	if listing.PricePerUnit > 0 {
		res.PricePresent = true
		res.Score += pointsPrice
	}

	res.AvailabilityScore = availabilityScore(listing.AvailableFrom, now)
	res.Score += res.AvailabilityScore

	if res.Score > 100 {
		res.Score = 100
	}
	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

func cropScore(buyer *models.Buyer, listing *models.Listing, res *ScoreResult) {
	listingCrop := strings.ToLower(strings.TrimSpace(listing.CropType))
	if listingCrop == "" {
		return
	}

	for _, seeking := range splitList(buyer.SeekingCrops) {
		if seeking == listingCrop {
			res.CropExact = true
			res.Score += pointsCropExact
			return
		}
	}

	// Partial match is deliberately one-directional: the listing crop must
	// contain the seeking token ("cocoa beans" matches a buyer seeking
	// "cocoa", but not the other way around).
	for _, seeking := range splitList(buyer.SeekingCrops) {
		if seeking != "" && strings.Contains(listingCrop, seeking) {
			res.CropPartial = true
			res.Score += pointsCropPartial
			return
		}
	}
}

func gradeScore(buyer *models.Buyer, listing *models.Listing, res *ScoreResult) {
	grade := strings.ToLower(string(listing.QualityGrade))

	for _, std := range splitList(buyer.QualityStandards) {
		if std == "" {
			continue
		}
		if strings.Contains(std, grade) || strings.Contains(grade, std) {
			res.GradeMatch = true
			res.Score += pointsGradeMatch
			return
		}
	}

	if listing.QualityGrade == models.GradePremium {
		for _, std := range splitList(buyer.QualityStandards) {
			if strings.Contains(std, "premium") {
				res.GradeFallback = true
				res.Score += pointsGradeFallback
				return
			}
		}
	}
}

// volumeRequirementRe only recognizes ton/tonne/kg requirements ("10 tons/month",
// "500kg"). Anything else fails to parse and the default applies.
var volumeRequirementRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(tonnes?|tons?|kg)`)

func volumeScore(requirement string, listingQty float64, listingUnit string) float64 {
	m := volumeRequirementRe.FindStringSubmatch(requirement)
	if m == nil {
		return pointsVolumeDefault
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return pointsVolumeDefault
	}

	if normalizeUnit(m[2]) != normalizeUnit(listingUnit) {
		return 0
	}

	ratio := listingQty / amount
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return 20
	case ratio >= 0.5 && ratio <= 2:
		return 15
	case ratio >= 0.3 && ratio <= 3:
		return 10
	default:
		return 0
	}
}

func normalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = strings.TrimSuffix(u, "s")
	if u == "tonne" {
		u = "ton"
	}
	return u
}

func availabilityScore(availableFrom time.Time, now time.Time) float64 {
	if !availableFrom.After(now) {
		return 10
	}
	until := availableFrom.Sub(now)
	switch {
	case until <= 30*24*time.Hour:
		return 7
	case until <= 90*24*time.Hour:
		return 4
	default:
		return 0
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	return out
}
