package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order status values as reported by the backend
const (
	POStatusRaised    = "Raised"
	POStatusApproved  = "Approved"
	POStatusDispatch  = "In Dispatch"
	POStatusDelivered = "Delivered"
	POStatusCancelled = "Cancelled"
)

// PurchaseOrder groups the flattened component rows the backend returns
// under their owning PO number.
type PurchaseOrder struct {
	PONumber             string      `json:"po_number"`
	VendorName           string      `json:"vendor_name"`
	MRFNo                string      `json:"mrf_no"`
	CreatedAt            time.Time   `json:"po_created_at"`
	Status               string      `json:"po_status"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date"`
	Components           []Component `json:"components"`
}

// Component is a PO line item. Only UpdatedRequestedQty and the owning
// order's ExpectedDeliveryDate are editable after creation; Amount and
// GSTAmount are derived and the backend's recompute is authoritative.
type Component struct {
	ComponentID         string          `json:"component_id"`
	MPN                 string          `json:"mpn"`
	ItemDescription     string          `json:"item_description"`
	Make                string          `json:"make"`
	PartNo              string          `json:"part_no"`
	UOM                 string          `json:"uom"`
	InitialRequestedQty float64         `json:"initial_requested_quantity"`
	UpdatedRequestedQty float64         `json:"updated_requested_quantity"`
	RatePerUnit         decimal.Decimal `json:"rate_per_unit"`
	Amount              decimal.Decimal `json:"amount"`
	GSTAmount           decimal.Decimal `json:"gst_amount"`
	PONumber            string          `json:"po_number"`
}

// UpdateComponentRequest is the write payload for PUT /purchase-orders/update.
type UpdateComponentRequest struct {
	PONumber             string     `json:"po_number"`
	ComponentID          string     `json:"component_id"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	UpdatedRequestedQty  float64    `json:"updated_requested_quantity"`
}

// UpdateComponentResult carries the server-side recompute returned on update.
type UpdateComponentResult struct {
	Amount    decimal.Decimal `json:"amount"`
	GSTAmount decimal.Decimal `json:"gst_amount"`
}
