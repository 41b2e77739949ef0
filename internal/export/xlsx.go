package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"procure-desk/internal/models"
	"procure-desk/internal/timeutil"
)

var xlsxHeaders = []string{
	"PO Number", "Vendor", "MRF No", "Status", "Expected Delivery",
	"MPN", "Description", "Make", "Part No", "UOM", "Qty", "Rate", "Amount", "GST",
}

// PurchaseOrdersXLSX writes one flattened row per component, the same
// shape the backend serves, for spreadsheet-side analysis.
func PurchaseOrdersXLSX(orders []models.PurchaseOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Purchase Orders"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	rowNum := 2
	for _, po := range orders {
		expected := "-"
		if po.ExpectedDeliveryDate != nil {
			expected = timeutil.DateOnly(*po.ExpectedDeliveryDate)
		}
		for _, c := range po.Components {
			values := []interface{}{
				po.PONumber, po.VendorName, po.MRFNo, po.Status, expected,
				c.MPN, c.ItemDescription, c.Make, c.PartNo, c.UOM,
				c.UpdatedRequestedQty,
				c.RatePerUnit.InexactFloat64(),
				c.Amount.InexactFloat64(),
				c.GSTAmount.InexactFloat64(),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
				f.SetCellValue(sheet, cell, v)
			}
			rowNum++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
