package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procure-desk/internal/models"
)

// ListBOM fetches the flattened bill of materials for an assembly,
// with stock positions for the shortage calculation.
func (c *Client) ListBOM(ctx context.Context, assembly string) ([]models.BOMLine, error) {
	if assembly == "" {
		return nil, fmt.Errorf("failed to fetch BOM: assembly is required")
	}

	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	path := "/bom/" + url.PathEscape(assembly) + "/lines"
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch BOM: %w", err)
	}

	out := make([]models.BOMLine, 0, len(payload.Data))
	for _, row := range payload.Data {
		out = append(out, models.BOMLine{
			MPN:         asString(row["mpn"], defaultID),
			Description: asString(row["description"], defaultText),
			RequiredQty: asDecimal(row["required_quantity"]),
			OnHandQty:   asDecimal(row["on_hand_quantity"]),
			OnOrderQty:  asDecimal(row["on_order_quantity"]),
		})
	}
	return out, nil
}
