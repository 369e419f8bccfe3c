package negotiations

import (
	"errors"
	"strconv"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateNegotiationRequest struct {
	MatchID      uint    `json:"match_id" validate:"required"`
	InitialPrice float64 `json:"initial_price" validate:"required,gt=0"`
	CurrentPrice float64 `json:"current_price" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	Unit         string  `json:"unit" validate:"omitempty,max=20"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	Terms        string  `json:"terms" validate:"omitempty,max=1000"`
}

type CreateOfferRequest struct {
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Message  string  `json:"message" validate:"omitempty,max=1000"`
	Terms    string  `json:"terms" validate:"omitempty,max=1000"`
}

type RespondToOfferRequest struct {
	Status          string `json:"status" validate:"required,oneof=ACCEPTED REJECTED COUNTERED EXPIRED"`
	ResponseMessage string `json:"response_message" validate:"omitempty,max=1000"`
}

// mapServiceError turns service sentinels into the HTTP error taxonomy:
// absent references are 404s, wrong-state operations are 400s. Anything else
// passes through untouched so the central error handler logs it.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrMatchNotFound),
		errors.Is(err, ErrNegotiationNotFound),
		errors.Is(err, ErrOfferNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrActiveNegotiationExists),
		errors.Is(err, ErrNegotiationNotActive),
		errors.Is(err, ErrOfferNotPending):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func partyRoleFor(role models.UserRole) models.PartyRole {
	if role == models.RoleFarmer {
		return models.PartyFarmer
	}
	return models.PartyBuyer
}

// POST /api/negotiations
func CreateNegotiationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNegotiationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		role, err := auth.Role(c)
		if err != nil {
			return err
		}

		negotiation, err := CreateNegotiation(database.DB, CreateNegotiationInput{
			MatchID:      body.MatchID,
			InitialPrice: body.InitialPrice,
			CurrentPrice: body.CurrentPrice,
			Quantity:     body.Quantity,
			Unit:         body.Unit,
			Currency:     body.Currency,
			Terms:        body.Terms,
			StartedBy:    partyRoleFor(role),
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(negotiation)
	}
}

// GET /api/negotiations/:id
func GetNegotiationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var negotiation models.Negotiation
		if err := database.DB.
			Preload("Offers").
			Preload("Match").
			First(&negotiation, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Negotiation not found")
		}
		return c.JSON(negotiation)
	}
}

// GET /api/negotiations?match_id=&status=
func ListNegotiationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Negotiation{})

		if v := c.Query("match_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "match_id must be a number")
			}
			q = q.Where("match_id = ?", id)
		}
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}

		var negotiations []models.Negotiation
		if err := q.Order("created_at desc").Find(&negotiations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list negotiations")
		}
		return c.JSON(negotiations)
	}
}

// POST /api/negotiations/:id/offers
func CreateOfferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		negotiationID, err := strconv.Atoi(c.Params("id"))
		if err != nil || negotiationID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid negotiation id")
		}

		var body CreateOfferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		role, err := auth.Role(c)
		if err != nil {
			return err
		}

		offer, err := CreateOffer(database.DB, uint(negotiationID), CreateOfferInput{
			Price:         body.Price,
			Quantity:      body.Quantity,
			Message:       body.Message,
			Terms:         body.Terms,
			OfferedBy:     userID,
			OfferedByRole: partyRoleFor(role),
		})
		if err != nil {
			return mapServiceError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(offer)
	}
}

// PATCH /api/negotiations/offers/:offerId/respond
func RespondToOfferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		offerID, err := strconv.Atoi(c.Params("offerId"))
		if err != nil || offerID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid offer id")
		}

		var body RespondToOfferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		offer, err := RespondToOffer(database.DB, uint(offerID), models.OfferStatus(body.Status), body.ResponseMessage)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(offer)
	}
}

// POST /api/negotiations/:id/accept
func AcceptNegotiationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		negotiationID, err := strconv.Atoi(c.Params("id"))
		if err != nil || negotiationID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid negotiation id")
		}

		negotiation, transaction, err := Accept(database.DB, uint(negotiationID))
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"negotiation": negotiation,
			"transaction": transaction,
		})
	}
}

// POST /api/negotiations/:id/reject
func RejectNegotiationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		negotiationID, err := strconv.Atoi(c.Params("id"))
		if err != nil || negotiationID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid negotiation id")
		}

		negotiation, err := Reject(database.DB, uint(negotiationID))
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(negotiation)
	}
}
