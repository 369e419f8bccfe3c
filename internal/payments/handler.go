package payments

import (
	"errors"
	"strconv"
	"time"

	"agritrade-backend/internal/database"
	"agritrade-backend/internal/models"
	"agritrade-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InitiatePaymentRequest struct {
	TransactionID uint   `json:"transaction_id" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	Method        string `json:"method" validate:"required,oneof=bank_transfer mobile_money letter_of_credit"`
}

// POST /api/payments
// There is no real gateway behind this: the payment starts PENDING with a
// locally generated reference and is confirmed or failed by a later call.
func InitiatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InitiatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		amount, err := decimal.NewFromString(body.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be a positive number")
		}

		var tx models.Transaction
		if err := database.DB.First(&tx, body.TransactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transaction")
		}

		currency := body.Currency
		if currency == "" {
			currency = tx.Currency
		}

		payment := models.Payment{
			TransactionID: tx.ID,
			Amount:        amount.Round(2),
			Currency:      currency,
			Method:        body.Method,
			GatewayRef:    uuid.NewString(),
			Status:        models.PaymentStatePending,
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
		}

		return c.Status(fiber.StatusCreated).JSON(payment)
	}
}

// POST /api/payments/:id/confirm
// Confirming recomputes the parent transaction's payment status from the sum
// of confirmed payments.
func ConfirmPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		if payment.Status != models.PaymentStatePending {
			return fiber.NewError(fiber.StatusBadRequest, "Payment is not pending")
		}

		now := time.Now()
		payment.Status = models.PaymentStateConfirmed
		payment.ConfirmedAt = &now
		if err := database.DB.Save(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm payment")
		}

		if err := recomputePaymentStatus(database.DB, payment.TransactionID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update transaction payment status")
		}

		return c.JSON(payment)
	}
}

// recomputePaymentStatus refreshes the parent transaction's payment status
// from the sum of its confirmed payments.
func recomputePaymentStatus(db *gorm.DB, transactionID uint) error {
	var tx models.Transaction
	if err := db.Preload("Payments").First(&tx, transactionID).Error; err != nil {
		return err
	}

	confirmed := decimal.Zero
	for _, p := range tx.Payments {
		if p.Status == models.PaymentStateConfirmed {
			confirmed = confirmed.Add(p.Amount)
		}
	}

	switch {
	case confirmed.GreaterThanOrEqual(tx.TotalAmount):
		tx.PaymentStatus = models.PaymentCompleted
	case confirmed.GreaterThan(decimal.Zero):
		tx.PaymentStatus = models.PaymentPartial
	}

	return db.Save(&tx).Error
}

// POST /api/payments/:id/fail
func FailPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		if payment.Status != models.PaymentStatePending {
			return fiber.NewError(fiber.StatusBadRequest, "Payment is not pending")
		}

		payment.Status = models.PaymentStateFailed
		if err := database.DB.Save(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update payment")
		}

		return c.JSON(payment)
	}
}

// GET /api/payments?transaction_id=
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Payment{})

		if v := c.Query("transaction_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "transaction_id must be a number")
			}
			q = q.Where("transaction_id = ?", id)
		}

		var payments []models.Payment
		if err := q.Order("created_at desc").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}
		return c.JSON(payments)
	}
}
