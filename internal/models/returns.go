package models

// Return statuses, derived from quantity alone
const (
	ReturnStatusNotInitiated = "Not Initiated"
	ReturnStatusInitiated    = "Return Initiated"
)

// ReturnItem is one line of a return form.
type ReturnItem struct {
	UMI         string  `json:"umi"`
	ComponentID string  `json:"component_id"`
	ReturnQty   float64 `json:"returnQty"`
	Reason      string  `json:"reasonForReturn"`
	Status      string  `json:"status"`
}

// DeriveStatus sets Status from ReturnQty: any positive quantity means
// the return is initiated.
func (r *ReturnItem) DeriveStatus() {
	if r.ReturnQty > 0 {
		r.Status = ReturnStatusInitiated
	} else {
		r.Status = ReturnStatusNotInitiated
	}
}

// ReturnForm is the write payload for POST /returns/submit-return-form.
type ReturnForm struct {
	Items []ReturnItem `json:"items"`
}
