package transactions

import (
	"strconv"

	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UpdateTransactionStatusRequest struct {
	PaymentStatus  *string `json:"payment_status" validate:"omitempty,oneof=PENDING PARTIAL COMPLETED FAILED"`
	ShipmentStatus *string `json:"shipment_status" validate:"omitempty,oneof=PREPARING IN_TRANSIT DELIVERED"`
}

// GET /api/transactions?buyer_id=&farmer_id=&payment_status=&page=&limit=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Transaction{})

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
		if v := c.Query("payment_status"); v != "" {
			q = q.Where("payment_status = ?", v)
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

		var txs []models.Transaction
		if err := q.Order("created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&txs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		return c.JSON(fiber.Map{
			"data":  txs,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /api/transactions/:id
func GetTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tx models.Transaction
		if err := database.DB.
			Preload("Payments").
			Preload("Negotiation").
			First(&tx, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}
		return c.JSON(tx)
	}
}

// PATCH /api/transactions/:id/status
func UpdateTransactionStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tx models.Transaction
		if err := database.DB.First(&tx, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}

		var body UpdateTransactionStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.PaymentStatus == nil && body.ShipmentStatus == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nothing to update")
		}

		if body.PaymentStatus != nil {
			tx.PaymentStatus = models.PaymentStatus(*body.PaymentStatus)
		}
		if body.ShipmentStatus != nil {
			tx.ShipmentStatus = models.ShipmentStatus(*body.ShipmentStatus)
		}

		if err := database.DB.Save(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update transaction")
		}

		return c.JSON(tx)
	}
}
