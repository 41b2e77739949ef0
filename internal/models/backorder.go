package models

// Backorder item QC status values
const (
	BackorderStatusQCCleared  = "QC Cleared"
	BackorderStatusQCRejected = "QC Rejected"
	BackorderStatusPending    = "Pending Inspection"
)

// BackorderItem tracks a reordered shortfall, keyed by (backorder_number, mpn).
// MaterialInQty accumulates confirmed-in stock and never exceeds ReorderedQty.
type BackorderItem struct {
	BackorderNumber string  `json:"backorder_number"`
	MPN             string  `json:"mpn"`
	ReorderedQty    float64 `json:"reordered_quantity"`
	ReceivedQty     float64 `json:"received_quantity"`
	MaterialInQty   float64 `json:"material_in_quantity"`
	Status          string  `json:"status"`
	Location        string  `json:"location"`
	MRFNo           string  `json:"mrf_no"`
}

// MaterialInRequest is the write payload for PUT /backorder-items/:mpn/material-in.
// MaterialInQty is the quantity being confirmed in now, not the new total.
type MaterialInRequest struct {
	MaterialInQty float64 `json:"material_in_quantity"`
	MRFNo         string  `json:"mrf_no"`
}
