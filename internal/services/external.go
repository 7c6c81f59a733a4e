package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aymerigermain/dashboard-acadi/internal/models"
)

// Fixed column order of the external revenues sheet: product, unit
// price, quantity, total, buyer, trainer contact, funder contact,
// framework, date, remarks.
const (
	extColProduct = iota
	extColUnitPrice
	extColQuantity
	extColTotal
	extColBuyer
	extColTrainerContact
	extColFunderContact
	extColFramework
	extColDate
	extColRemarks

	extMinColumns = 4
)

// NormalizeExternalPurchases parses raw sheet rows (no header) into
// purchase records and derives their global metrics. Rows with fewer
// than four populated leading cells or a non-positive total are
// dropped; malformed numeric or date cells degrade to zero values or a
// nil date rather than aborting the whole batch.
func NormalizeExternalPurchases(rows [][]string) ([]models.ExternalPurchase, models.ExternalRevenueMetrics) {
	purchases := make([]models.ExternalPurchase, 0, len(rows))
	totalRevenue := decimal.Zero
	totalLicenses := 0

	for _, row := range rows {
		if len(row) < extMinColumns {
			continue
		}

		total := parseFrenchDecimal(cell(row, extColTotal))
		if !total.IsPositive() {
			continue
		}

		quantity, _ := strconv.Atoi(strings.TrimSpace(cell(row, extColQuantity)))

		purchases = append(purchases, models.ExternalPurchase{
			Product:        cell(row, extColProduct),
			UnitPrice:      parseFrenchDecimal(cell(row, extColUnitPrice)).InexactFloat64(),
			Quantity:       quantity,
			Total:          total.InexactFloat64(),
			Buyer:          cell(row, extColBuyer),
			TrainerContact: cell(row, extColTrainerContact),
			FunderContact:  cell(row, extColFunderContact),
			Framework:      cell(row, extColFramework),
			Date:           parseFrenchDate(cell(row, extColDate)),
			Remarks:        cell(row, extColRemarks),
		})

		totalRevenue = totalRevenue.Add(total)
		totalLicenses += quantity
	}

	metrics := models.ExternalRevenueMetrics{
		TotalRevenue:   totalRevenue.InexactFloat64(),
		TotalPurchases: len(purchases),
		TotalLicenses:  totalLicenses,
	}
	if len(purchases) > 0 {
		metrics.AveragePurchase = totalRevenue.
			Div(decimal.NewFromInt(int64(len(purchases)))).
			InexactFloat64()
	}

	return purchases, metrics
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseFrenchDecimal reads locale-formatted amounts like "1.500,50":
// the comma is the decimal separator, dots and spaces group thousands.
// Without a comma, a dot is kept as the decimal point. Unparseable
// values yield zero.
func parseFrenchDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseFrenchDate reads DD/MM/YYYY, tolerating unpadded day and month.
// Absent or malformed dates yield nil.
func parseFrenchDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "/") {
		return nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil
	}

	day, errDay := strconv.Atoi(parts[0])
	month, errMonth := strconv.Atoi(parts[1])
	year, errYear := strconv.Atoi(parts[2])
	if errDay != nil || errMonth != nil || errYear != nil {
		return nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	return &t
}
