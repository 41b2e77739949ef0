package api

import (
	"context"
	"fmt"
	"net/http"

	"procure-desk/internal/bus"
	"procure-desk/internal/models"
)

// SubmitReturnForm files a return for the given items. Statuses are
// derived from the quantities before submission; an initiated return
// must carry a reason.
func (c *Client) SubmitReturnForm(ctx context.Context, items []models.ReturnItem) error {
	if len(items) == 0 {
		return fmt.Errorf("failed to submit return form: no items")
	}

	for i := range items {
		if items[i].ReturnQty < 0 {
			return fmt.Errorf("failed to submit return form: negative quantity for %s", items[i].ComponentID)
		}
		items[i].DeriveStatus()
		if items[i].Status == models.ReturnStatusInitiated && items[i].Reason == "" {
			return fmt.Errorf("failed to submit return form: %s needs a reason for return", items[i].ComponentID)
		}
	}

	if err := c.do(ctx, http.MethodPost, "/returns/submit-return-form", models.ReturnForm{Items: items}, nil); err != nil {
		return fmt.Errorf("failed to submit return form: %w", err)
	}

	if c.bus != nil {
		c.bus.Publish(bus.TopicReturnSubmitted, len(items))
	}
	return nil
}
