package buyers

import (
	"strings"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateBuyerRequest struct {
	CompanyName       string `json:"company_name" validate:"required,min=2,max=200"`
	Country           string `json:"country" validate:"required,len=2,alpha"`
	SeekingCrops      string `json:"seeking_crops" validate:"omitempty,max=500"`
	QualityStandards  string `json:"quality_standards" validate:"omitempty,max=500"`
	VolumeRequirement string `json:"volume_requirement" validate:"omitempty,max=200"`
}

type UpdateBuyerRequest struct {
	CompanyName       *string `json:"company_name"`
	Country           *string `json:"country"`
	SeekingCrops      *string `json:"seeking_crops"`
	QualityStandards  *string `json:"quality_standards"`
	VolumeRequirement *string `json:"volume_requirement"`
}

// POST /api/buyers
func CreateBuyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateBuyerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var count int64
		database.DB.Model(&models.Buyer{}).Where("user_id = ?", userID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Buyer profile already exists")
		}

		buyer := models.Buyer{
			UserID:            userID,
			CompanyName:       strings.TrimSpace(body.CompanyName),
			Country:           strings.ToUpper(strings.TrimSpace(body.Country)),
			SeekingCrops:      strings.TrimSpace(body.SeekingCrops),
			QualityStandards:  strings.TrimSpace(body.QualityStandards),
			VolumeRequirement: strings.TrimSpace(body.VolumeRequirement),
		}

		if err := database.DB.Create(&buyer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create buyer profile")
		}

		return c.Status(fiber.StatusCreated).JSON(buyer)
	}
}

// GET /api/buyers?country=
func ListBuyersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Buyer{})
		if v := c.Query("country"); v != "" {
			q = q.Where("country = ?", strings.ToUpper(v))
		}

		var buyers []models.Buyer
		if err := q.Order("company_name asc").Find(&buyers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list buyers")
		}
		return c.JSON(buyers)
	}
}

// GET /api/buyers/:id
func GetBuyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buyer models.Buyer
		if err := database.DB.First(&buyer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Buyer not found")
		}
		return c.JSON(buyer)
	}
}

// PUT /api/buyers/:id
func UpdateBuyerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buyer models.Buyer
		if err := database.DB.First(&buyer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Buyer not found")
		}

		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		role, err := auth.Role(c)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin && buyer.UserID != userID {
			return fiber.NewError(fiber.StatusForbidden, "You can only update your own profile")
		}

		var body UpdateBuyerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.CompanyName != nil {
			name := strings.TrimSpace(*body.CompanyName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "company_name cannot be empty")
			}
			buyer.CompanyName = name
		}
		if body.Country != nil {
			country := strings.ToUpper(strings.TrimSpace(*body.Country))
			if len(country) != 2 {
				return fiber.NewError(fiber.StatusBadRequest, "country must be a 2-letter code")
			}
			buyer.Country = country
		}
		if body.SeekingCrops != nil {
			buyer.SeekingCrops = strings.TrimSpace(*body.SeekingCrops)
		}
		if body.QualityStandards != nil {
			buyer.QualityStandards = strings.TrimSpace(*body.QualityStandards)
		}
		if body.VolumeRequirement != nil {
			buyer.VolumeRequirement = strings.TrimSpace(*body.VolumeRequirement)
		}

		if err := database.DB.Save(&buyer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update buyer profile")
		}

		return c.JSON(buyer)
	}
}
