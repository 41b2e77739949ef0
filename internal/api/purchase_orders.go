package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"procure-desk/internal/models"
)

// ListPurchaseOrders fetches every purchase order. The backend sends
// one flattened row per component; rows regroup under their PO number
// in first-seen order.
func (c *Client) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/purchase-orders/", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	return groupPurchaseOrders(payload.Data), nil
}

func groupPurchaseOrders(rows []map[string]interface{}) []models.PurchaseOrder {
	index := make(map[string]int)
	var orders []models.PurchaseOrder

	for _, row := range rows {
		poNumber := asString(row["po_number"], defaultID)

		i, seen := index[poNumber]
		if !seen {
			var createdAt time.Time
			if t := asTime(row["po_created_at"]); t != nil {
				createdAt = *t
			}
			orders = append(orders, models.PurchaseOrder{
				PONumber:             poNumber,
				VendorName:           asString(row["vendor_name"], defaultText),
				MRFNo:                asString(row["mrf_no"], defaultID),
				CreatedAt:            createdAt,
				Status:               asString(row["po_status"], ""),
				ExpectedDeliveryDate: asTime(row["expected_delivery_date"]),
			})
			i = len(orders) - 1
			index[poNumber] = i
		}

		orders[i].Components = append(orders[i].Components, models.Component{
			ComponentID:         asString(row["component_id"], defaultID),
			MPN:                 asString(row["mpn"], defaultID),
			ItemDescription:     asString(row["item_description"], defaultText),
			Make:                asString(row["make"], defaultText),
			PartNo:              asString(row["part_no"], defaultID),
			UOM:                 asString(row["uom"], defaultText),
			InitialRequestedQty: asFloat(row["initial_requested_quantity"]),
			UpdatedRequestedQty: asFloat(row["updated_requested_quantity"]),
			RatePerUnit:         asDecimal(row["rate_per_unit"]),
			Amount:              asDecimal(row["amount"]),
			GSTAmount:           asDecimal(row["gst_amount"]),
			PONumber:            poNumber,
		})
	}

	return orders
}

// UpdateComponent commits the two editable fields of a line item. The
// returned amounts are the backend's recompute and supersede anything
// the caller staged.
func (c *Client) UpdateComponent(ctx context.Context, req models.UpdateComponentRequest) (*models.UpdateComponentResult, error) {
	if req.PONumber == "" || req.ComponentID == "" {
		return nil, fmt.Errorf("failed to update component: po_number and component_id are required")
	}
	if req.UpdatedRequestedQty < 0 {
		return nil, fmt.Errorf("failed to update component: quantity cannot be negative")
	}

	var raw map[string]interface{}
	if err := c.do(ctx, http.MethodPut, "/purchase-orders/update", req, &raw); err != nil {
		return nil, fmt.Errorf("failed to update component: %w", err)
	}

	return &models.UpdateComponentResult{
		Amount:    asDecimal(raw["amount"]),
		GSTAmount: asDecimal(raw["gst_amount"]),
	}, nil
}
