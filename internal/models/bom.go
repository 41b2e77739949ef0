package models

import "github.com/shopspring/decimal"

// BOMLine is one bill-of-materials row for an assembly, with the stock
// positions the shortage calculation nets against.
type BOMLine struct {
	MPN         string          `json:"mpn"`
	Description string          `json:"description"`
	RequiredQty decimal.Decimal `json:"required_quantity"`
	OnHandQty   decimal.Decimal `json:"on_hand_quantity"`
	OnOrderQty  decimal.Decimal `json:"on_order_quantity"`
}
