// Package export renders fetched purchase-order data into documents
// for print and download. Layout is utilitarian; the contract is that
// every component row and the order totals are present.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"procure-desk/internal/models"
	"procure-desk/internal/timeutil"
)

// PurchaseOrdersPDF renders one section per order with its component
// table and amount totals.
func PurchaseOrdersPDF(orders []models.PurchaseOrder, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Purchase Orders", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.FormatIST(generatedAt, timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, po := range orders {
		writeOrderSection(pdf, po)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOrderSection(pdf *gofpdf.Fpdf, po models.PurchaseOrder) {
	expected := "-"
	if po.ExpectedDeliveryDate != nil {
		expected = timeutil.DateOnly(*po.ExpectedDeliveryDate)
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(277, 8, fmt.Sprintf("%s  |  %s  |  %s  |  Expected: %s",
		po.PONumber, po.VendorName, po.Status, expected), "1", 1, "L", true, 0, "")

	// Column header
	pdf.SetFont("Arial", "B", 9)
	widths := []float64{35, 70, 30, 22, 25, 30, 30, 35}
	headers := []string{"MPN", "Description", "Part No", "UOM", "Qty", "Rate", "Amount", "GST"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	totalAmount := decimal.Zero
	totalGST := decimal.Zero
	for _, c := range po.Components {
		cells := []string{
			c.MPN, c.ItemDescription, c.PartNo, c.UOM,
			fmt.Sprintf("%g", c.UpdatedRequestedQty),
			c.RatePerUnit.StringFixed(2),
			c.Amount.StringFixed(2),
			c.GSTAmount.StringFixed(2),
		}
		for i, cell := range cells {
			align := "L"
			if i >= 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)

		totalAmount = totalAmount.Add(c.Amount)
		totalGST = totalGST.Add(c.GSTAmount)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3]+widths[4], 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[5], 7, "", "1", 0, "", true, 0, "")
	pdf.CellFormat(widths[6], 7, totalAmount.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[7], 7, totalGST.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.Ln(10)
}
