package matching

import (
	"context"
	"errors"
	"sort"
	"time"

	"agritrade-backend/internal/models"

	"gorm.io/gorm"
)

var ErrBuyerNotFound = errors.New("buyer not found")

const defaultSuggestLimit = 10

type scoredListing struct {
	listing models.Listing
	result  ScoreResult
}

// Suggest scores every active listing against the buyer profile, persists the
// surviving pairings as Match rows and returns them, best first.
func Suggest(ctx context.Context, db *gorm.DB, reasons *ReasonClient, homeCountry string, buyerID uint, limit int) ([]models.Match, error) {
	var buyer models.Buyer
	if err := db.First(&buyer, buyerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, err
	}

	var listings []models.Listing
	if err := db.Preload("Farmer").
		Where("status = ?", models.ListingActive).
		Find(&listings).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	scored := make([]scoredListing, 0, len(listings))
	for _, l := range listings {
		res := Score(&buyer, &l, homeCountry, now)
		if res.Excluded || res.Score <= MinScore {
			continue
		}
		scored = append(scored, scoredListing{listing: l, result: res})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].result.Score > scored[j].result.Score
	})

	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	matches := make([]models.Match, 0, len(scored))
	for _, s := range scored {
		match := models.Match{
			ListingID:      s.listing.ID,
			BuyerID:        buyer.ID,
			FarmerID:       s.listing.FarmerID,
			Score:          s.result.Score,
			EstimatedValue: s.listing.PricePerUnit * s.listing.Quantity,
			Reasons:        reasons.Reasons(ctx, &buyer, &s.listing, s.result),
			Status:         models.MatchSuggested,
		}
		if err := db.Create(&match).Error; err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	return matches, nil
}
