package farmers

import (
	"fmt"
	"strings"
	"time"

	"agritrade-backend/internal/audit"
	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateFarmerRequest struct {
	FarmName   string  `json:"farm_name" validate:"required,min=2,max=200"`
	Region     string  `json:"region" validate:"omitempty,max=100"`
	District   string  `json:"district" validate:"omitempty,max=100"`
	CropsGrown string  `json:"crops_grown" validate:"omitempty,max=500"`
	FarmSizeHa float64 `json:"farm_size_ha" validate:"omitempty,gte=0"`
}

type UpdateFarmerRequest struct {
	FarmName   *string  `json:"farm_name"`
	Region     *string  `json:"region"`
	District   *string  `json:"district"`
	CropsGrown *string  `json:"crops_grown"`
	FarmSizeHa *float64 `json:"farm_size_ha"`
}

type VerifyFarmerRequest struct {
	Status string `json:"status" validate:"required,oneof=VERIFIED REJECTED"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// POST /api/farmers
func CreateFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateFarmerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var count int64
		database.DB.Model(&models.Farmer{}).Where("user_id = ?", userID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Farmer profile already exists")
		}

		farmer := models.Farmer{
			UserID:             userID,
			FarmName:           strings.TrimSpace(body.FarmName),
			Region:             strings.TrimSpace(body.Region),
			District:           strings.TrimSpace(body.District),
			CropsGrown:         strings.TrimSpace(body.CropsGrown),
			FarmSizeHa:         body.FarmSizeHa,
			VerificationStatus: models.VerificationPending,
		}

		if err := database.DB.Create(&farmer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create farmer profile")
		}

		return c.Status(fiber.StatusCreated).JSON(farmer)
	}
}

// GET /api/farmers?status=&region=
func ListFarmersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Farmer{})

		if v := c.Query("status"); v != "" {
			q = q.Where("verification_status = ?", v)
		}
		if v := c.Query("region"); v != "" {
			q = q.Where("region = ?", v)
		}

		var farmers []models.Farmer
		if err := q.Order("farm_name asc").Find(&farmers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list farmers")
		}
		return c.JSON(farmers)
	}
}

// GET /api/farmers/:id
func GetFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
		}
		return c.JSON(farmer)
	}
}

// PUT /api/farmers/:id
func UpdateFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		role, err := auth.Role(c)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin && farmer.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "You can only update your own profile")
		}

		var body UpdateFarmerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.FarmName != nil {
			name := strings.TrimSpace(*body.FarmName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "farm_name cannot be empty")
			}
			farmer.FarmName = name
		}
		if body.Region != nil {
			farmer.Region = strings.TrimSpace(*body.Region)
		}
		if body.District != nil {
			farmer.District = strings.TrimSpace(*body.District)
		}
		if body.CropsGrown != nil {
			farmer.CropsGrown = strings.TrimSpace(*body.CropsGrown)
		}
		if body.FarmSizeHa != nil {
			farmer.FarmSizeHa = *body.FarmSizeHa
		}

		if err := database.DB.Save(&farmer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update farmer profile")
		}

		return c.JSON(farmer)
	}
}

// PATCH /api/admin/farmers/:id/verify
// Verification is what gates international matching, so it is audited.
func VerifyFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
		}

		var body VerifyFarmerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		before := fiber.Map{
			"verification_status": farmer.VerificationStatus,
			"verifier_note":       farmer.VerifierNote,
		}

		now := time.Now()
		farmer.VerificationStatus = models.VerificationStatus(body.Status)
		farmer.VerifierNote = strings.TrimSpace(body.Note)
		if farmer.VerificationStatus == models.VerificationVerified {
			farmer.VerifiedAt = &now
		} else {
			farmer.VerifiedAt = nil
		}

		if err := database.DB.Save(&farmer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update verification status")
		}

		if userID, err := auth.UserID(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				EntityType: "farmer",
				EntityID:   farmer.ID,
				Action:     models.AuditActionUpdate,
				Description: fmt.Sprintf("Farmer verification set to %s: %s",
					farmer.VerificationStatus, farmer.FarmName),
				Before: before,
				After: fiber.Map{
					"verification_status": farmer.VerificationStatus,
					"verifier_note":       farmer.VerifierNote,
				},
			})
		}

		return c.JSON(farmer)
	}
}
