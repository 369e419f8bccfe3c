package documents

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"agritrade-backend/internal/auth"
	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateDocumentRequest struct {
	TransactionID uint   `json:"transaction_id" validate:"required"`
	Type          string `json:"type" validate:"required,oneof=PHYTOSANITARY_CERT CERTIFICATE_OF_ORIGIN EXPORT_PERMIT BILL_OF_LADING QUALITY_INSPECTION"`
	ReferenceNo   string `json:"reference_no" validate:"omitempty,max=100"`
	IssuedBy      string `json:"issued_by" validate:"omitempty,max=200"`
	IssuedAt      string `json:"issued_at" validate:"omitempty"`
}

type ReviewDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=VERIFIED REJECTED"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

// POST /api/documents
// Metadata only; no files are stored.
func CreateDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateDocumentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var tx models.Transaction
		if err := database.DB.First(&tx, body.TransactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transaction")
		}

		var issuedAt *time.Time
		if body.IssuedAt != "" {
			t, err := time.Parse("2006-01-02", body.IssuedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "issued_at must be a date (2006-01-02)")
			}
			issuedAt = &t
		}

		doc := models.Document{
			TransactionID: tx.ID,
			Type:          models.DocumentType(body.Type),
			ReferenceNo:   strings.TrimSpace(body.ReferenceNo),
			IssuedBy:      strings.TrimSpace(body.IssuedBy),
			IssuedAt:      issuedAt,
			Status:        models.DocumentPending,
			UploadedBy:    userID,
		}

		if err := database.DB.Create(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create document")
		}

		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GET /api/documents?transaction_id=&status=
func ListDocumentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Document{})

		if v := c.Query("transaction_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "transaction_id must be a number")
			}
			q = q.Where("transaction_id = ?", id)
		}
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}

		var docs []models.Document
		if err := q.Order("created_at desc").Find(&docs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list documents")
		}
		return c.JSON(docs)
	}
}

// PATCH /api/admin/documents/:id/review
func ReviewDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc models.Document
		if err := database.DB.First(&doc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		if doc.Status != models.DocumentPending {
			return fiber.NewError(fiber.StatusBadRequest, "Document has already been reviewed")
		}

		var body ReviewDocumentRequest
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

		now := time.Now()
		doc.Status = models.DocumentStatus(body.Status)
		doc.ReviewerNote = strings.TrimSpace(body.Note)
		doc.ReviewedBy = &userID
		doc.ReviewedAt = &now

		if err := database.DB.Save(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not review document")
		}

		return c.JSON(doc)
	}
}
