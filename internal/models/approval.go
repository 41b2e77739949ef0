package models

// Approval request statuses
const (
	ApprovalStatusPending  = "Pending"
	ApprovalStatusApproved = "Approved"
	ApprovalStatusRejected = "Rejected"
)

// ApprovalRequest is a material requisition awaiting a head's decision.
type ApprovalRequest struct {
	UMI      string         `json:"umi"`
	UserID   string         `json:"user_id"`
	Status   string         `json:"status"`
	Priority string         `json:"priority"`
	Note     string         `json:"note"`
	Items    []ApprovalItem `json:"items"`
}

// ApprovalItem is one requested line. A head may lower RequestedQty
// before approving, bounded by [0, OnHandQty].
type ApprovalItem struct {
	ComponentID  string  `json:"component_id"`
	Description  string  `json:"description"`
	RequestedQty float64 `json:"requestedQty"`
	OnHandQty    float64 `json:"onHandQty"`
}

// ApproveRequestBody is the write payload for PUT /approvals/approve-request/:umi.
type ApproveRequestBody struct {
	UpdatedItems []ApprovalItem `json:"updatedItems"`
	Note         string         `json:"note"`
	Priority     string         `json:"priority"`
}
