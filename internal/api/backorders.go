package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procure-desk/internal/bus"
	"procure-desk/internal/models"
)

// ListInspectionComponents fetches backorder items filtered by QC
// status, e.g. QC Cleared and QC Rejected.
func (c *Client) ListInspectionComponents(ctx context.Context, statuses []string) ([]models.BackorderItem, error) {
	q := url.Values{}
	for _, s := range statuses {
		q.Add("status", s)
	}
	path := "/quality-inspection/components"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch inspection components: %w", err)
	}

	out := make([]models.BackorderItem, 0, len(payload.Data))
	for _, row := range payload.Data {
		out = append(out, models.BackorderItem{
			BackorderNumber: asString(row["backorder_number"], defaultID),
			MPN:             asString(row["mpn"], defaultID),
			ReorderedQty:    asFloat(row["reordered_quantity"]),
			ReceivedQty:     asFloat(row["received_quantity"]),
			MaterialInQty:   asFloat(row["material_in_quantity"]),
			Status:          asString(row["status"], defaultText),
			Location:        asString(row["location"], defaultText),
			MRFNo:           asString(row["mrf_no"], defaultID),
		})
	}
	return out, nil
}

// MaterialIn confirms qty units of an item into stores. The cumulative
// confirmed quantity can never exceed what was reordered, checked here
// before the request and again by the backend.
func (c *Client) MaterialIn(ctx context.Context, item models.BackorderItem, qty float64) error {
	if qty <= 0 {
		return fmt.Errorf("failed to record material in: quantity must be positive")
	}
	if item.MaterialInQty+qty > item.ReorderedQty {
		return fmt.Errorf("failed to record material in: %v exceeds the %v reordered for %s",
			item.MaterialInQty+qty, item.ReorderedQty, item.MPN)
	}

	path := "/backorder-items/" + url.PathEscape(item.MPN) + "/material-in"
	body := models.MaterialInRequest{MaterialInQty: qty, MRFNo: item.MRFNo}
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to record material in: %w", err)
	}

	if c.bus != nil {
		c.bus.Publish(bus.TopicMaterialIn, item.MPN)
	}
	return nil
}
