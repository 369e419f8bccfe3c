package payments

import (
	"fmt"
	"sync/atomic"
	"testing"

	"agritrade-backend/internal/models"
	"agritrade-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seedSeq uint32

func seedTransaction(t *testing.T, db *gorm.DB, total float64) models.Transaction {
	t.Helper()
	n := atomic.AddUint32(&seedSeq, 1)
	tx := models.Transaction{
		Reference:      fmt.Sprintf("ref-%d", n),
		NegotiationID:  uint(n),
		MatchID:        uint(n),
		BuyerID:        1,
		FarmerID:       1,
		AgreedPrice:    total,
		Quantity:       1,
		Unit:           "tons",
		Currency:       "GHS",
		TotalAmount:    decimal.NewFromFloat(total),
		PaymentStatus:  models.PaymentPending,
		ShipmentStatus: models.ShipmentPreparing,
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func seedPayment(t *testing.T, db *gorm.DB, txID uint, amount float64, status models.PaymentState) models.Payment {
	t.Helper()
	n := atomic.AddUint32(&seedSeq, 1)
	payment := models.Payment{
		TransactionID: txID,
		Amount:        decimal.NewFromFloat(amount),
		Currency:      "GHS",
		Method:        "bank_transfer",
		GatewayRef:    fmt.Sprintf("gw-%d", n),
		Status:        status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func TestRecomputePaymentStatusPartial(t *testing.T) {
	db := testutil.NewDB(t)
	tx := seedTransaction(t, db, 1000)
	seedPayment(t, db, tx.ID, 400, models.PaymentStateConfirmed)

	require.NoError(t, recomputePaymentStatus(db, tx.ID))

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, tx.ID).Error)
	assert.Equal(t, models.PaymentPartial, reloaded.PaymentStatus)
}

func TestRecomputePaymentStatusCompleted(t *testing.T) {
	db := testutil.NewDB(t)
	tx := seedTransaction(t, db, 1000)
	seedPayment(t, db, tx.ID, 400, models.PaymentStateConfirmed)
	seedPayment(t, db, tx.ID, 600, models.PaymentStateConfirmed)

	require.NoError(t, recomputePaymentStatus(db, tx.ID))

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, tx.ID).Error)
	assert.Equal(t, models.PaymentCompleted, reloaded.PaymentStatus)
}

func TestRecomputePaymentStatusIgnoresUnconfirmed(t *testing.T) {
	db := testutil.NewDB(t)
	tx := seedTransaction(t, db, 1000)
	seedPayment(t, db, tx.ID, 1000, models.PaymentStatePending)
	seedPayment(t, db, tx.ID, 1000, models.PaymentStateFailed)

	require.NoError(t, recomputePaymentStatus(db, tx.ID))

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, tx.ID).Error)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
}

func TestRecomputePaymentStatusMissingTransaction(t *testing.T) {
	db := testutil.NewDB(t)

	err := recomputePaymentStatus(db, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
