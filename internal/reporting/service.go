package reporting

import (
	"errors"
	"time"

	"agritrade-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrReportExists = errors.New("a report for this period already exists")

// GenerateMonthly aggregates the period's completed transactions into a DRAFT
// export report. One report per year/month; open or failed transactions are
// left for the month they eventually complete in.
func GenerateMonthly(db *gorm.DB, year, month int, generatedBy uint) (*models.ExportReport, error) {
	var existing int64
	if err := db.Model(&models.ExportReport{}).
		Where("year = ? AND month = ?", year, month).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrReportExists
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var txs []models.Transaction
	if err := db.
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("payment_status = ?", models.PaymentCompleted).
		Find(&txs).Error; err != nil {
		return nil, err
	}

	totalVolume := 0.0
	totalValue := decimal.Zero
	for _, tx := range txs {
		totalVolume += tx.Quantity
		totalValue = totalValue.Add(tx.TotalAmount)
	}

	report := models.ExportReport{
		Reference:        uuid.NewString(),
		Year:             year,
		Month:            month,
		TransactionCount: len(txs),
		TotalVolume:      totalVolume,
		TotalValue:       totalValue,
		Currency:         "GHS",
		Status:           models.ReportDraft,
		GeneratedBy:      generatedBy,
	}
	if err := db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
