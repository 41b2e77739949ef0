package api

import (
	"context"
	"fmt"
	"net/http"

	"procure-desk/internal/models"
)

// ListVendors fetches the vendor master.
func (c *Client) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/vendors/vendors", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	out := make([]models.Vendor, 0, len(payload.Data))
	for _, row := range payload.Data {
		out = append(out, models.Vendor{
			GSTIN:             asString(row["gstin"], defaultID),
			Name:              asString(row["name"], defaultText),
			Address:           asString(row["address"], defaultText),
			PAN:               asString(row["pan"], defaultID),
			ContactPersonName: asString(row["contact_person_name"], ""),
			ContactNo:         asString(row["contact_no"], ""),
			EmailID:           asString(row["email_id"], ""),
		})
	}
	return out, nil
}

// UpsertVendor creates or updates a vendor keyed by its GSTIN.
func (c *Client) UpsertVendor(ctx context.Context, v models.Vendor) error {
	if v.GSTIN == "" {
		return fmt.Errorf("failed to save vendor: gstin is required")
	}
	if v.Name == "" {
		return fmt.Errorf("failed to save vendor: name is required")
	}

	if err := c.do(ctx, http.MethodPut, "/vendors/vendors", v, nil); err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}
	return nil
}
