package reporting

import (
	"fmt"
	"testing"
	"time"

	"agritrade-backend/internal/models"
	"agritrade-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTransaction(t *testing.T, db *gorm.DB, n int, status models.PaymentStatus, qty, total float64, createdAt time.Time) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		Reference:      fmt.Sprintf("ref-%d", n),
		NegotiationID:  uint(n),
		MatchID:        uint(n),
		BuyerID:        1,
		FarmerID:       1,
		AgreedPrice:    total / qty,
		Quantity:       qty,
		Unit:           "tons",
		Currency:       "GHS",
		TotalAmount:    decimal.NewFromFloat(total),
		PaymentStatus:  status,
		ShipmentStatus: models.ShipmentPreparing,
		CreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func TestGenerateMonthlyCountsOnlyCompletedTransactions(t *testing.T) {
	db := testutil.NewDB(t)
	march := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	seedTransaction(t, db, 1, models.PaymentCompleted, 10, 1000, march)
	seedTransaction(t, db, 2, models.PaymentPending, 12, 1200, march)
	seedTransaction(t, db, 3, models.PaymentPartial, 8, 800, march)

	report, err := GenerateMonthly(db, 2026, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TransactionCount)
	assert.Equal(t, float64(10), report.TotalVolume)
	assert.Equal(t, "1000", report.TotalValue.String())
	assert.Equal(t, models.ReportDraft, report.Status)
	assert.NotEmpty(t, report.Reference)
}

func TestGenerateMonthlyIgnoresOtherPeriods(t *testing.T) {
	db := testutil.NewDB(t)

	seedTransaction(t, db, 1, models.PaymentCompleted, 10, 1000,
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, db, 2, models.PaymentCompleted, 20, 2000,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	report, err := GenerateMonthly(db, 2026, 3, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TransactionCount)
	assert.Equal(t, float64(10), report.TotalVolume)
}

func TestGenerateMonthlyRejectsDuplicatePeriod(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := GenerateMonthly(db, 2026, 3, 1)
	require.NoError(t, err)

	_, err = GenerateMonthly(db, 2026, 3, 1)
	assert.ErrorIs(t, err, ErrReportExists)

	// A different month is still fine.
	_, err = GenerateMonthly(db, 2026, 4, 1)
	assert.NoError(t, err)
}

func TestGenerateMonthlyEmptyPeriod(t *testing.T) {
	db := testutil.NewDB(t)

	report, err := GenerateMonthly(db, 2026, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, report.TransactionCount)
	assert.Equal(t, float64(0), report.TotalVolume)
	assert.True(t, report.TotalValue.IsZero())
}
