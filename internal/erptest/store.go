// Package erptest is an in-memory stand-in for the procurement
// backend, used by integration tests and as a local development
// target for the real front-end. It implements the same routes and
// the same server-authoritative recomputes, not the real system's
// persistence or workflow engine.
package erptest

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Row mirrors the backend's flattened purchase-order row. Some numeric
// fields are deliberately strings: the production backend does the
// same on this endpoint and clients must coerce.
type Row map[string]interface{}

type User struct {
	Username string
	Password string
	Role     string
	UserID   string
}

type Store struct {
	mu sync.Mutex

	Users      []User
	PORows     []Row
	Approvals  []Row
	Backorders []Row
	Vendors    []Row
	BOMs       map[string][]Row

	GSTRate decimal.Decimal
}

// NewStore seeds a small but representative dataset.
func NewStore() *Store {
	return &Store{
		Users: []User{
			{Username: "asha", Password: "asha123", Role: "head", UserID: "U-01"},
			{Username: "ravi", Password: "ravi123", Role: "engineer", UserID: "U-02"},
		},
		PORows: []Row{
			{
				"po_number": "PO-1001", "vendor_name": "Sharma Electronics", "mrf_no": "MRF-101",
				"po_created_at": "2025-11-10T09:30:00+05:30", "po_status": "Raised",
				"expected_delivery_date": "2025-11-30T18:00:00+05:30",
				"component_id": "C-1", "mpn": "LM358", "item_description": "Op-amp dual",
				"make": "TI", "part_no": "IC-01", "uom": "Nos",
				"initial_requested_quantity": 50.0, "updated_requested_quantity": 50.0,
				"rate_per_unit": "12.00", "amount": "600.00", "gst_amount": "108.00",
			},
			{
				"po_number": "PO-1001", "vendor_name": "Sharma Electronics", "mrf_no": "MRF-101",
				"po_created_at": "2025-11-10T09:30:00+05:30", "po_status": "Raised",
				"expected_delivery_date": "2025-11-30T18:00:00+05:30",
				"component_id": "C-2", "mpn": "BC547", "item_description": "NPN transistor",
				"make": "ON Semi", "part_no": "TR-09", "uom": "Nos",
				"initial_requested_quantity": 200.0, "updated_requested_quantity": 200.0,
				"rate_per_unit": "2.00", "amount": "400.00", "gst_amount": "72.00",
			},
			{
				"po_number": "PO-1002", "vendor_name": "Apex Components", "mrf_no": "DIRECT-7",
				"po_created_at": "2025-11-12T14:00:00+05:30", "po_status": "Approved",
				"expected_delivery_date": nil,
				"component_id": "C-3", "mpn": "ATMEGA328", "item_description": "Microcontroller",
				"make": "Microchip", "part_no": "MC-02", "uom": "Nos",
				"initial_requested_quantity": 10.0, "updated_requested_quantity": 10.0,
				"rate_per_unit": 180.0, "amount": 1800.0, "gst_amount": 324.0,
			},
		},
		Approvals: []Row{
			{
				"umi": "UMI-501", "user_id": "U-02", "status": "Pending", "priority": "High",
				"note": "",
				"items": []interface{}{
					map[string]interface{}{
						"component_id": "C-1", "description": "Op-amp dual",
						"requestedQty": 20.0, "onHandQty": 35.0,
					},
				},
			},
		},
		Backorders: []Row{
			{
				"backorder_number": "BO-77", "mpn": "LM358",
				"reordered_quantity": 30.0, "received_quantity": 30.0,
				"material_in_quantity": 10.0, "status": "QC Cleared", "location": "Stores-A",
				"mrf_no": "MRF-101",
			},
		},
		Vendors: []Row{
			{
				"gstin": "27AAPFU0939F1ZV", "name": "Sharma Electronics",
				"address": "Pune", "pan": "AAPFU0939F",
				"contact_person_name": "R Sharma", "contact_no": "9822000000",
				"email_id": "sales@sharma.example",
			},
		},
		BOMs: map[string][]Row{
			"CTRL-BOARD": {
				{"mpn": "LM358", "description": "Op-amp dual", "required_quantity": 100.0, "on_hand_quantity": 40.0, "on_order_quantity": 10.0},
				{"mpn": "BC547", "description": "NPN transistor", "required_quantity": 200.0, "on_hand_quantity": 300.0, "on_order_quantity": 0.0},
			},
		},
		GSTRate: decimal.NewFromFloat(0.18),
	}
}

func (s *Store) findUser(username, password string) (*User, bool) {
	for i := range s.Users {
		if s.Users[i].Username == username && s.Users[i].Password == password {
			return &s.Users[i], true
		}
	}
	return nil, false
}

// updateComponent applies the two editable fields and recomputes the
// derived amounts server-side, rounded to paise. Returns the new
// amount and GST.
func (s *Store) updateComponent(poNumber, componentID string, qty float64, expected interface{}) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.PORows {
		if row["po_number"] != poNumber || row["component_id"] != componentID {
			continue
		}

		rate := toDecimal(row["rate_per_unit"])
		amount := rate.Mul(decimal.NewFromFloat(qty)).Round(2)
		gst := amount.Mul(s.GSTRate).Round(2)

		row["updated_requested_quantity"] = qty
		row["amount"] = amount.StringFixed(2)
		row["gst_amount"] = gst.StringFixed(2)
		if expected != nil {
			row["expected_delivery_date"] = expected
		}
		return amount, gst, nil
	}
	return decimal.Zero, decimal.Zero, fmt.Errorf("component %s not found on %s", componentID, poNumber)
}

// materialIn accumulates confirmed stock, capped at the reordered quantity.
func (s *Store) materialIn(mpn string, qty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.Backorders {
		if row["mpn"] != mpn {
			continue
		}
		current := toFloat(row["material_in_quantity"])
		reordered := toFloat(row["reordered_quantity"])
		if current+qty > reordered {
			return fmt.Errorf("material in %v exceeds reordered quantity %v", current+qty, reordered)
		}
		row["material_in_quantity"] = current + qty
		return nil
	}
	return fmt.Errorf("backorder item %s not found", mpn)
}

func toDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		if d, err := decimal.NewFromString(x); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func toFloat(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}
