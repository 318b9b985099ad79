package classification

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"Name", "SKU", "Category", "Stock", "Unit Cost", "Current Value", "Percentage", "Classification",
}

// WriteCSV writes one flat row per item after CSVHeader.
func WriteCSV(w io.Writer, items []ClassifiedItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		if err := cw.Write(csvRow(item)); err != nil {
			return fmt.Errorf("write csv row for %q: %w", item.SKU, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(item ClassifiedItem) []string {
	return []string{
		item.Name,
		item.SKU,
		item.Category,
		decimal.NewFromFloat(item.CurrentStock).String(),
		decimal.NewFromFloat(item.UnitCost).StringFixed(2),
		decimal.NewFromFloat(item.CurrentValue).StringFixed(2),
		FormatPercentage(item.PercentageOfTotal),
		string(item.Class),
	}
}

// FormatPercentage renders a share with two decimals and a trailing %.
func FormatPercentage(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(2) + "%"
}
