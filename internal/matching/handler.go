package matching

import (
	"errors"
	"strconv"
	"time"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UpdateMatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SUGGESTED CONTACTED NEGOTIATING CONTRACT_SIGNED COMPLETED CANCELLED"`
}

type MatchResponse struct {
	ID             uint               `json:"id"`
	ListingID      uint               `json:"listing_id"`
	BuyerID        uint               `json:"buyer_id"`
	FarmerID       uint               `json:"farmer_id"`
	Score          float64            `json:"score"`
	EstimatedValue float64            `json:"estimated_value"`
	Reasons        string             `json:"reasons"`
	Status         models.MatchStatus `json:"status"`
	CreatedAt      string             `json:"created_at"`
}

func toMatchResponse(m *models.Match) MatchResponse {
	return MatchResponse{
		ID:             m.ID,
		ListingID:      m.ListingID,
		BuyerID:        m.BuyerID,
		FarmerID:       m.FarmerID,
		Score:          m.Score,
		EstimatedValue: m.EstimatedValue,
		Reasons:        m.Reasons,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/matches/suggest?buyer_id=&limit=
func SuggestMatchesHandler(reasons *ReasonClient, homeCountry string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buyerID, err := strconv.Atoi(c.Query("buyer_id"))
		if err != nil || buyerID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "buyer_id is required")
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))

		// A buyer may only request suggestions for their own profile.
		role, err := auth.Role(c)
		if err != nil {
			return err
		}
		if role == models.RoleBuyer {
			userID, err := auth.UserID(c)
			if err != nil {
				return err
			}
			var buyer models.Buyer
			if err := database.DB.First(&buyer, uint(buyerID)).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Buyer not found")
			}
			if buyer.UserID != userID {
				return fiber.NewError(fiber.StatusForbidden, "You can only request matches for your own profile")
			}
		}

		matches, err := Suggest(c.Context(), database.DB, reasons, homeCountry, uint(buyerID), limit)
		if err != nil {
			if errors.Is(err, ErrBuyerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Buyer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate matches")
		}

		resp := make([]MatchResponse, 0, len(matches))
		for i := range matches {
			resp = append(resp, toMatchResponse(&matches[i]))
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// GET /api/matches?buyer_id=&farmer_id=&status=&page=&limit=
func ListMatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Match{})

		if v := c.Query("buyer_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "buyer_id must be a number")
			}
			q = q.Where("buyer_id = ?", id)
		}
		if v := c.Query("farmer_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "farmer_id must be a number")
			}
			q = q.Where("farmer_id = ?", id)
		}
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}

		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var total int64
		q.Count(&total)

		var matches []models.Match
		if err := q.Order("score desc, created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&matches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list matches")
		}

		resp := make([]MatchResponse, 0, len(matches))
		for i := range matches {
			resp = append(resp, toMatchResponse(&matches[i]))
		}
		return c.JSON(fiber.Map{
			"data":  resp,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /api/matches/:id
func GetMatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var match models.Match
		if err := database.DB.
			Preload("Listing").
			Preload("Buyer").
			Preload("Farmer").
			First(&match, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Match not found")
		}
		return c.JSON(match)
	}
}

// PATCH /api/matches/:id/status
// No transition guard: callers may skip pipeline states. Only the per-status
// timestamps record what actually happened.
func UpdateMatchStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var match models.Match
		if err := database.DB.First(&match, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Match not found")
		}

		var body UpdateMatchStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		now := time.Now()
		match.Status = models.MatchStatus(body.Status)
		switch match.Status {
		case models.MatchContacted:
			match.ContactedAt = &now
		case models.MatchNegotiating:
			match.NegotiationStartedAt = &now
		case models.MatchContractSigned:
			match.ContractSignedAt = &now
		case models.MatchCompleted:
			match.CompletedAt = &now
		case models.MatchCancelled:
			match.CancelledAt = &now
		}

		if err := database.DB.Save(&match).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update match")
		}

		return c.JSON(toMatchResponse(&match))
	}
}
