package suppliers

import (
	"errors"
	"strings"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateExportCompanyRequest struct {
	CompanyName        string `json:"company_name" validate:"required,min=2,max=200"`
	LicenseNumber      string `json:"license_number" validate:"required,max=100"`
	DestinationMarkets string `json:"destination_markets" validate:"omitempty,max=500"`
}

type AddSupplierRequest struct {
	FarmerID uint   `json:"farmer_id" validate:"required"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

func ownedCompany(c *fiber.Ctx) (*models.ExportCompany, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return nil, err
	}
	var company models.ExportCompany
	if err := database.DB.Where("user_id = ?", userID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Create an export company profile first")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load company profile")
	}
	return &company, nil
}

// POST /api/export-companies
func CreateExportCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateExportCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var count int64
		database.DB.Model(&models.ExportCompany{}).Where("user_id = ?", userID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Export company profile already exists")
		}

		company := models.ExportCompany{
			UserID:             userID,
			CompanyName:        strings.TrimSpace(body.CompanyName),
			LicenseNumber:      strings.TrimSpace(body.LicenseNumber),
			DestinationMarkets: strings.TrimSpace(body.DestinationMarkets),
		}

		if err := database.DB.Create(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create export company")
		}

		return c.Status(fiber.StatusCreated).JSON(company)
	}
}

// GET /api/export-companies/me
func GetOwnCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		company, err := ownedCompany(c)
		if err != nil {
			return err
		}
		return c.JSON(company)
	}
}

// POST /api/suppliers
// Only verified farmers may join a supplier network.
func AddSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		company, err := ownedCompany(c)
		if err != nil {
			return err
		}

		var body AddSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var farmer models.Farmer
		if err := database.DB.First(&farmer, body.FarmerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
		}
		if !farmer.IsVerified() {
			return fiber.NewError(fiber.StatusBadRequest, "Only verified farmers can join a supplier network")
		}

		var count int64
		database.DB.Model(&models.SupplierLink{}).
			Where("export_company_id = ? AND farmer_id = ?", company.ID, farmer.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Farmer is already in your supplier network")
		}

		link := models.SupplierLink{
			ExportCompanyID: company.ID,
			FarmerID:        farmer.ID,
			Note:            strings.TrimSpace(body.Note),
		}
		if err := database.DB.Create(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add supplier")
		}

		return c.Status(fiber.StatusCreated).JSON(link)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		company, err := ownedCompany(c)
		if err != nil {
			return err
		}

		var links []models.SupplierLink
		if err := database.DB.
			Preload("Farmer").
			Where("export_company_id = ?", company.ID).
			Order("created_at desc").
			Find(&links).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(links)
	}
}

// DELETE /api/suppliers/:id
func RemoveSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		company, err := ownedCompany(c)
		if err != nil {
			return err
		}

		var link models.SupplierLink
		if err := database.DB.First(&link, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier link not found")
		}
		if link.ExportCompanyID != company.ID {
			return fiber.NewError(fiber.StatusForbidden, "This supplier is not in your network")
		}

		if err := database.DB.Delete(&link).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not remove supplier")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
