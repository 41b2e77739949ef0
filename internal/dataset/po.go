package dataset

import (
	"strings"
	"time"

	"procure-desk/internal/models"
)

// Sort keys shared by the PO views
const (
	KeyPONumber    = "po_number"
	KeyVendorName  = "vendor_name"
	KeyMRFNo       = "mrf_no"
	KeyCreatedAt   = "po_created_at"
	KeyExpectedAt  = "expected_delivery_date"
	KeyStatus      = "po_status"
	KeyMPN         = "mpn"
	KeyDescription = "item_description"
	KeyPartNo      = "part_no"
	KeyQty         = "updated_requested_quantity"
	KeyAmount      = "amount"
)

// NewPurchaseOrderEngine builds the top-level PO view. The text filter
// keeps an order when its own fields match (all components stay), or
// when any component matches (only matching components stay).
func NewPurchaseOrderEngine(orders []models.PurchaseOrder, pageSize int) *Engine[models.PurchaseOrder] {
	spec := Spec[models.PurchaseOrder]{
		Fields: map[string]Field[models.PurchaseOrder]{
			KeyPONumber:   {Kind: KindString, String: func(po models.PurchaseOrder) string { return po.PONumber }},
			KeyVendorName: {Kind: KindString, String: func(po models.PurchaseOrder) string { return po.VendorName }},
			KeyMRFNo:      {Kind: KindString, String: func(po models.PurchaseOrder) string { return po.MRFNo }},
			KeyStatus:     {Kind: KindString, String: func(po models.PurchaseOrder) string { return po.Status }},
			KeyCreatedAt: {Kind: KindDate, Date: func(po models.PurchaseOrder) *time.Time {
				t := po.CreatedAt
				return &t
			}},
			KeyExpectedAt: {Kind: KindDate, Date: func(po models.PurchaseOrder) *time.Time { return po.ExpectedDeliveryDate }},
		},
		SearchKeys: []string{KeyPONumber, KeyVendorName},
		DateKey:    KeyCreatedAt,
		MRFKey:     KeyMRFNo,
		Matcher:    matchPurchaseOrder,
	}
	return New(orders, spec, pageSize)
}

func matchPurchaseOrder(po models.PurchaseOrder, term string) (models.PurchaseOrder, bool) {
	needle := strings.ToLower(term)

	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	// An own-field match keeps the order with all its components.
	if contains(po.PONumber) || contains(po.VendorName) {
		return po, true
	}

	var matched []models.Component
	for _, c := range po.Components {
		if contains(c.ItemDescription) || contains(c.PartNo) || contains(c.MPN) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return po, false
	}

	po.Components = matched
	return po, true
}

// NewComponentEngine builds the drill-down view over one order's
// components. Its filter state is independent of the top-level view.
func NewComponentEngine(components []models.Component, pageSize int) *Engine[models.Component] {
	spec := Spec[models.Component]{
		Fields: map[string]Field[models.Component]{
			KeyMPN:         {Kind: KindString, String: func(c models.Component) string { return c.MPN }},
			KeyDescription: {Kind: KindString, String: func(c models.Component) string { return c.ItemDescription }},
			KeyPartNo:      {Kind: KindString, String: func(c models.Component) string { return c.PartNo }},
			KeyQty:         {Kind: KindNumber, Number: func(c models.Component) float64 { return c.UpdatedRequestedQty }},
			KeyAmount:      {Kind: KindNumber, Number: func(c models.Component) float64 { return c.Amount.InexactFloat64() }},
		},
		SearchKeys: []string{KeyMPN, KeyDescription, KeyPartNo},
	}
	return New(components, spec, pageSize)
}

// POBrowser pairs the top-level engine with an optional drill-down
// scope. Entering a scope leaves the top-level state untouched, so
// leaving it restores the previous filtered view by recomputation.
type POBrowser struct {
	Orders *Engine[models.PurchaseOrder]

	scopedPO   string
	components *Engine[models.Component]
	pageSize   int
}

func NewPOBrowser(orders []models.PurchaseOrder, pageSize int) *POBrowser {
	return &POBrowser{Orders: NewPurchaseOrderEngine(orders, pageSize), pageSize: pageSize}
}

// Scope drills into one order's components, always over the order's
// full component list regardless of the top-level text restriction.
// Unknown PO numbers are a no-op.
func (b *POBrowser) Scope(poNumber string) *Engine[models.Component] {
	for _, po := range b.Orders.Rows() {
		if po.PONumber == poNumber {
			b.scopedPO = poNumber
			b.components = NewComponentEngine(po.Components, b.pageSize)
			return b.components
		}
	}
	return nil
}

// Back leaves the drill-down; the top-level view is recomputed from
// the full dataset with its prior filter state.
func (b *POBrowser) Back() {
	b.scopedPO = ""
	b.components = nil
}

// Scoped returns the active drill-down engine and its PO number, or
// ("", nil) at the top level.
func (b *POBrowser) Scoped() (string, *Engine[models.Component]) {
	return b.scopedPO, b.components
}
