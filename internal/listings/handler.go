package listings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agritrade-backend/internal/audit"
	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateListingRequest struct {
	CropType       string  `json:"crop_type" validate:"required,min=2,max=100"`
	Variety        string  `json:"variety" validate:"omitempty,max=100"`
	Quantity       float64 `json:"quantity" validate:"required,gt=0"`
	Unit           string  `json:"unit" validate:"required,max=20"`
	QualityGrade   string  `json:"quality_grade" validate:"required,oneof=PREMIUM GRADE_A GRADE_B STANDARD"`
	PricePerUnit   float64 `json:"price_per_unit" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"omitempty,len=3"`
	AvailableFrom  string  `json:"available_from" validate:"required"` // RFC3339 or 2006-01-02
	AvailableUntil string  `json:"available_until" validate:"omitempty"`
	Certifications string  `json:"certifications" validate:"omitempty,max=500"`
	Description    string  `json:"description" validate:"omitempty,max=1000"`
}

type UpdateListingRequest struct {
	Variety        *string  `json:"variety"`
	Quantity       *float64 `json:"quantity"`
	PricePerUnit   *float64 `json:"price_per_unit"`
	AvailableFrom  *string  `json:"available_from"`
	AvailableUntil *string  `json:"available_until"`
	Certifications *string  `json:"certifications"`
	Description    *string  `json:"description"`
}

type UpdateListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PENDING SOLD EXPIRED"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func ownedFarmer(c *fiber.Ctx) (*models.Farmer, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return nil, err
	}
	var farmer models.Farmer
	if err := database.DB.Where("user_id = ?", userID).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Create a farmer profile first")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load farmer profile")
	}
	return &farmer, nil
}

// POST /api/listings
func CreateListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farmer, err := ownedFarmer(c)
		if err != nil {
			return err
		}

		var body CreateListingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		availableFrom, err := parseDate(body.AvailableFrom)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "available_from must be a date")
		}

		var availableUntil *time.Time
		if body.AvailableUntil != "" {
			t, err := parseDate(body.AvailableUntil)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "available_until must be a date")
			}
			availableUntil = &t
		}

		currency := strings.ToUpper(strings.TrimSpace(body.Currency))
		if currency == "" {
			currency = "GHS"
		}

		listing := models.Listing{
			FarmerID:       farmer.ID,
			CropType:       strings.TrimSpace(body.CropType),
			Variety:        strings.TrimSpace(body.Variety),
			Quantity:       body.Quantity,
			Unit:           strings.TrimSpace(body.Unit),
			QualityGrade:   models.QualityGrade(body.QualityGrade),
			PricePerUnit:   body.PricePerUnit,
			Currency:       currency,
			AvailableFrom:  availableFrom,
			AvailableUntil: availableUntil,
			Certifications: strings.TrimSpace(body.Certifications),
			Description:    strings.TrimSpace(body.Description),
			Status:         models.ListingActive,
		}

		if err := database.DB.Create(&listing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create listing")
		}

		if userID, err := auth.UserID(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "listing",
				EntityID:    listing.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Listing created: %.1f %s %s", listing.Quantity, listing.Unit, listing.CropType),
				After:       listing,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(listing)
	}
}

// GET /api/listings?crop_type=&quality_grade=&status=&farmer_id=&page=&limit=
func ListListingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Listing{}).Preload("Farmer")

		if v := c.Query("crop_type"); v != "" {
			q = q.Where("LOWER(crop_type) LIKE ?", "%"+strings.ToLower(v)+"%")
		}
		if v := c.Query("quality_grade"); v != "" {
			q = q.Where("quality_grade = ?", v)
		}
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		} else {
			q = q.Where("status = ?", models.ListingActive)
		}
		if v := c.Query("farmer_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "farmer_id must be a number")
			}
			q = q.Where("farmer_id = ?", id)
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

		var listings []models.Listing
		if err := q.Order("created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&listings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list listings")
		}

		return c.JSON(fiber.Map{
			"data":  listings,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /api/listings/:id
func GetListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var listing models.Listing
		if err := database.DB.Preload("Farmer").First(&listing, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Listing not found")
		}
		return c.JSON(listing)
	}
}

func loadOwnedListing(c *fiber.Ctx) (*models.Listing, error) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", c.Params("id")).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Listing not found")
	}

	role, err := auth.Role(c)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		return &listing, nil
	}

	farmer, err := ownedFarmer(c)
	if err != nil {
		return nil, err
	}
	if listing.FarmerID != farmer.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "You can only modify your own listings")
	}
	return &listing, nil
}

// PUT /api/listings/:id
func UpdateListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing, err := loadOwnedListing(c)
		if err != nil {
			return err
		}

		var body UpdateListingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Variety != nil {
			listing.Variety = strings.TrimSpace(*body.Variety)
		}
		if body.Quantity != nil {
			if *body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
			}
			listing.Quantity = *body.Quantity
		}
		if body.PricePerUnit != nil {
			if *body.PricePerUnit <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price_per_unit must be positive")
			}
			listing.PricePerUnit = *body.PricePerUnit
		}
		if body.AvailableFrom != nil {
			t, err := parseDate(*body.AvailableFrom)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "available_from must be a date")
			}
			listing.AvailableFrom = t
		}
		if body.AvailableUntil != nil {
			if *body.AvailableUntil == "" {
				listing.AvailableUntil = nil
			} else {
				t, err := parseDate(*body.AvailableUntil)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "available_until must be a date")
				}
				listing.AvailableUntil = &t
			}
		}
		if body.Certifications != nil {
			listing.Certifications = strings.TrimSpace(*body.Certifications)
		}
		if body.Description != nil {
			listing.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(listing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update listing")
		}

		return c.JSON(listing)
	}
}

// PATCH /api/listings/:id/status
func UpdateListingStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing, err := loadOwnedListing(c)
		if err != nil {
			return err
		}

		var body UpdateListingStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		listing.Status = models.ListingStatus(body.Status)
		if err := database.DB.Save(listing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update listing status")
		}

		return c.JSON(listing)
	}
}

// DELETE /api/listings/:id
func DeleteListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		listing, err := loadOwnedListing(c)
		if err != nil {
			return err
		}

		if err := database.DB.Delete(listing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete listing")
		}

		if userID, err := auth.UserID(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "listing",
				EntityID:    listing.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Listing deleted: %s", listing.CropType),
				Before:      listing,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
