package models

// Vendor is keyed by GSTIN; contact fields are optional.
type Vendor struct {
	GSTIN             string `json:"gstin"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	PAN               string `json:"pan"`
	ContactPersonName string `json:"contact_person_name,omitempty"`
	ContactNo         string `json:"contact_no,omitempty"`
	EmailID           string `json:"email_id,omitempty"`
}
