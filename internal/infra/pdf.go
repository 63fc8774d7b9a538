package infra

// pdf.go renders the slaughter statement with go-pdf/fpdf: animal header,
// slaughter figures, cost breakdown and the resulting profit on one A5 page.

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// SlaughterStatement carries everything printed on a statement.
type SlaughterStatement struct {
	Eartag        string
	CompanyName   string
	Date          time.Time
	CarcassWeight decimal.Decimal
	SalePrice     decimal.Decimal
	KDV           decimal.Decimal
	Revenue       decimal.Decimal
	AnimalCost    decimal.Decimal
	FeedCost      decimal.Decimal
	Tax           decimal.Decimal
	TotalCost     decimal.Decimal
	Profit        decimal.Decimal
}

// WriteSlaughterStatementPDF renders st as a PDF into w.
func WriteSlaughterStatementPDF(w io.Writer, st SlaughterStatement) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Slaughter Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if st.CompanyName != "" {
		pdf.CellFormat(contentW, 5, st.CompanyName, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Eartag "+st.Eartag, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Date: "+st.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	labelW := contentW * 0.6
	valueW := contentW * 0.4
	row := func(label, value string) {
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, value, "", 1, "R", false, 0, "")
	}

	// ── Figures ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	row("Carcass weight (kg)", st.CarcassWeight.StringFixed(2))
	row("Sale price per kg", st.SalePrice.StringFixed(2))
	row("Revenue", st.Revenue.StringFixed(2))
	pdf.Ln(2)
	row("Animal cost", st.AnimalCost.StringFixed(2))
	row("Feed cost", st.FeedCost.StringFixed(2))
	row(fmt.Sprintf("KDV (%s%%)", st.KDV.Mul(decimal.NewFromInt(100)).StringFixed(2)), st.Tax.StringFixed(2))
	row("Total cost", st.TotalCost.StringFixed(2))

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	row("PROFIT", st.Profit.StringFixed(2))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write statement: %w", err)
	}
	return nil
}
