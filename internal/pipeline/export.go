package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"receipts/internal"
)

var purchaseHeaders = []string{"Item", "Purchaser", "Price"}

// WritePurchasesCSV writes purchases to outputPath and syncs the file before
// returning.
func WritePurchasesCSV(purchases []internal.Purchase, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := writePurchasesCSV(f, purchases); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writePurchasesCSV(w io.Writer, purchases []internal.Purchase) error {
	wtr := csv.NewWriter(w)
	if err := wtr.Write(purchaseHeaders); err != nil {
		return err
	}
	for _, p := range purchases {
		if err := wtr.Write([]string{p.Item, p.Purchaser, p.Price.String()}); err != nil {
			return err
		}
	}
	wtr.Flush()
	return wtr.Error()
}

// ExportPurchasesToXLSX writes the same table as the CSV, with the amount as a
// number and the currency symbol in its own column.
func ExportPurchasesToXLSX(purchases []internal.Purchase, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, purchaseHeaders...), "Currency")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	for i, p := range purchases {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.Item)
		set(2, p.Purchaser)
		set(3, p.Price.Amount.InexactFloat64())
		set(4, p.Price.Symbol)

		priceCell, _ := excelize.CoordinatesToCellName(3, r)
		_ = f.SetCellStyle(sheet, priceCell, priceCell, priceStyle)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
