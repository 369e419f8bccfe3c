package reporting

import (
	"errors"
	"fmt"
	"time"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type GenerateReportRequest struct {
	Year  int `json:"year" validate:"required,min=2020,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// POST /api/admin/reports
// Aggregates the month's completed transactions into an ExportReport draft.
func GenerateReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GenerateReportRequest
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

		report, err := GenerateMonthly(database.DB, body.Year, body.Month, userID)
		if err != nil {
			if errors.Is(err, ErrReportExists) {
				return fiber.NewError(fiber.StatusConflict, "A report for this period already exists")
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(report)
	}
}

// POST /api/admin/reports/:id/submit
// No real Single Window integration; the government reference is minted
// locally so downstream consumers have something to reconcile against.
func SubmitReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var report models.ExportReport
		if err := database.DB.First(&report, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Report not found")
		}
		if report.Status != models.ReportDraft {
			return fiber.NewError(fiber.StatusBadRequest, "Report has already been submitted")
		}

		now := time.Now()
		report.Status = models.ReportSubmitted
		report.GovernmentRef = fmt.Sprintf("GCMS-%d%02d-%06d", report.Year, report.Month, report.ID)
		report.SubmittedAt = &now

		if err := database.DB.Save(&report).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not submit report")
		}

		return c.JSON(report)
	}
}

// GET /api/admin/reports?year=
func ListReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.ExportReport{})
		if v := c.Query("year"); v != "" {
			q = q.Where("year = ?", v)
		}

		var reports []models.ExportReport
		if err := q.Order("year desc, month desc").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list reports")
		}
		return c.JSON(reports)
	}
}
