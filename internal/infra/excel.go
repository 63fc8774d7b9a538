package infra

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// HerdRow is one line of the herd report.
type HerdRow struct {
	Eartag        string
	Company       string
	Race          string
	Room          string
	Cost          decimal.Decimal
	FeedCost      decimal.Decimal
	LatestWeight  *decimal.Decimal
	IsSlaughtered bool
}

var herdHeaders = []string{"Eartag", "Company", "Race", "Room", "Cost", "FeedCost", "LatestWeight", "Slaughtered"}

const herdSheet = "Herd"

// WriteHerdReport writes rows as an XLSX workbook into w.
func WriteHerdReport(w io.Writer, rows []HerdRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", herdSheet); err != nil {
		return err
	}

	for i, h := range herdHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(herdSheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		line := i + 2
		cost, _ := r.Cost.Float64()
		feed, _ := r.FeedCost.Float64()
		values := []interface{}{r.Eartag, r.Company, r.Race, r.Room, cost, feed, "", r.IsSlaughtered}
		if r.LatestWeight != nil {
			values[6], _ = r.LatestWeight.Float64()
		}
		for col, v := range values {
			cell := fmt.Sprintf("%s%d", columnName(col+1), line)
			if err := f.SetCellValue(herdSheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func columnName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}
