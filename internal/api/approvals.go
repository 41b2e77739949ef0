package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"procure-desk/internal/models"
)

// ListApprovalRequests fetches requisitions awaiting approval.
func (c *Client) ListApprovalRequests(ctx context.Context) ([]models.ApprovalRequest, error) {
	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/approvals/approval-requests", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch approval requests: %w", err)
	}

	out := make([]models.ApprovalRequest, 0, len(payload.Data))
	for _, row := range payload.Data {
		req := models.ApprovalRequest{
			UMI:      asString(row["umi"], defaultID),
			UserID:   asString(row["user_id"], defaultID),
			Status:   asString(row["status"], models.ApprovalStatusPending),
			Priority: asString(row["priority"], defaultText),
			Note:     asString(row["note"], ""),
		}
		if items, ok := row["items"].([]interface{}); ok {
			for _, it := range items {
				m, ok := it.(map[string]interface{})
				if !ok {
					continue
				}
				req.Items = append(req.Items, models.ApprovalItem{
					ComponentID:  asString(m["component_id"], defaultID),
					Description:  asString(m["description"], defaultText),
					RequestedQty: asFloat(m["requestedQty"]),
					OnHandQty:    asFloat(m["onHandQty"]),
				})
			}
		}
		out = append(out, req)
	}
	return out, nil
}

// ApproveRequest submits a head's decision. Only a head session may
// call it, and every adjusted quantity must stay within [0, on hand].
func (c *Client) ApproveRequest(ctx context.Context, umi string, body models.ApproveRequestBody) error {
	if !c.sess.IsHead() {
		return fmt.Errorf("failed to approve request: only a head may approve requisitions")
	}
	for _, item := range body.UpdatedItems {
		if item.RequestedQty < 0 || item.RequestedQty > item.OnHandQty {
			return fmt.Errorf("failed to approve request: quantity for %s must be between 0 and %v",
				item.ComponentID, item.OnHandQty)
		}
	}

	path := "/approvals/approve-request/" + url.PathEscape(umi)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("failed to approve request: %w", err)
	}
	return nil
}
