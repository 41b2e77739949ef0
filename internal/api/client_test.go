package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"procure-desk/internal/config"
	"procure-desk/internal/models"
	"procure-desk/internal/session"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5 * time.Second

	c := New(cfg, &session.Session{Token: "test-token"}, nil, nil)
	return c, srv
}

func TestListPurchaseOrdersRegroupsAndDefaults(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		// Two rows for one PO, one row with holes and string numerics.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"po_number": "PO-1", "vendor_name": "V1", "mrf_no": "MRF-1",
					"component_id": "C-1", "mpn": "M-1", "item_description": "first",
					"updated_requested_quantity": "5", "rate_per_unit": "10.50",
					"amount": "52.50", "gst_amount": "9.45",
				},
				{
					"po_number": "PO-1", "vendor_name": "V1", "mrf_no": "MRF-1",
					"component_id": "C-2", "mpn": "M-2", "item_description": "second",
					"updated_requested_quantity": 3.0, "rate_per_unit": 2.0,
					"amount": 6.0, "gst_amount": 1.08,
				},
				{
					"po_number": "PO-2", "component_id": "C-3",
				},
			},
		})
	}))

	orders, err := c.ListPurchaseOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	if len(orders[0].Components) != 2 {
		t.Errorf("PO-1 has %d components, want 2", len(orders[0].Components))
	}

	// String numerics coerce.
	first := orders[0].Components[0]
	if first.UpdatedRequestedQty != 5 {
		t.Errorf("quantity = %v, want 5", first.UpdatedRequestedQty)
	}
	if !first.RatePerUnit.Equal(decimal.NewFromFloat(10.5)) {
		t.Errorf("rate = %s, want 10.5", first.RatePerUnit)
	}

	// Missing fields default rather than vanish.
	sparse := orders[1]
	if sparse.VendorName != "N/A" {
		t.Errorf("missing vendor defaulted to %q, want N/A", sparse.VendorName)
	}
	if sparse.MRFNo != "-" {
		t.Errorf("missing mrf defaulted to %q, want -", sparse.MRFNo)
	}
	if sparse.ExpectedDeliveryDate != nil {
		t.Error("missing date should stay nil")
	}
	if got := sparse.Components[0].UpdatedRequestedQty; got != 0 {
		t.Errorf("missing quantity = %v, want 0", got)
	}
	// Components carry their owner's PO number.
	if sparse.Components[0].PONumber != "PO-2" {
		t.Errorf("component back-reference = %q", sparse.Components[0].PONumber)
	}
}

func TestServerErrorBodyBecomesMessage(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "quantity cannot be negative"})
	}))

	_, err := c.UpdateComponent(context.Background(), models.UpdateComponentRequest{
		PONumber: "PO-1", ComponentID: "C-1",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "failed to update component: quantity cannot be negative"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestServerErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.ListVendors(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to fetch vendors") {
		t.Errorf("error lost its action context: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error lost the status: %q", err.Error())
	}
}

func TestUpdateComponentPreconditions(t *testing.T) {
	called := false
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	if _, err := c.UpdateComponent(context.Background(), models.UpdateComponentRequest{}); err == nil {
		t.Error("missing identifiers accepted")
	}
	if _, err := c.UpdateComponent(context.Background(), models.UpdateComponentRequest{
		PONumber: "PO-1", ComponentID: "C-1", UpdatedRequestedQty: -5,
	}); err == nil {
		t.Error("negative quantity accepted")
	}
	if called {
		t.Error("precondition failures must not hit the network")
	}
}

func TestMaterialInCapCheckedClientSide(t *testing.T) {
	called := false
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	item := models.BackorderItem{MPN: "LM358", ReorderedQty: 30, MaterialInQty: 25}

	if err := c.MaterialIn(context.Background(), item, 10); err == nil {
		t.Error("over-cap material in accepted")
	}
	if err := c.MaterialIn(context.Background(), item, 0); err == nil {
		t.Error("zero quantity accepted")
	}
	if called {
		t.Error("precondition failures must not hit the network")
	}
}

func TestSubmitReturnFormDerivesStatusAndValidates(t *testing.T) {
	var received models.ReturnForm
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{}`))
	}))

	items := []models.ReturnItem{
		{UMI: "U-1", ComponentID: "C-1", ReturnQty: 3, Reason: "damaged"},
		{UMI: "U-1", ComponentID: "C-2", ReturnQty: 0},
	}
	if err := c.SubmitReturnForm(context.Background(), items); err != nil {
		t.Fatal(err)
	}

	if received.Items[0].Status != models.ReturnStatusInitiated {
		t.Errorf("positive quantity status = %q", received.Items[0].Status)
	}
	if received.Items[1].Status != models.ReturnStatusNotInitiated {
		t.Errorf("zero quantity status = %q", received.Items[1].Status)
	}

	// Initiated without a reason is rejected before the wire.
	err := c.SubmitReturnForm(context.Background(), []models.ReturnItem{{ComponentID: "C-9", ReturnQty: 1}})
	if err == nil {
		t.Error("initiated return without reason accepted")
	}
}

func TestApproveRequestRequiresHeadRole(t *testing.T) {
	called := false
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	c.SetSession(&session.Session{Token: "t", Role: session.RoleEngineer})

	err := c.ApproveRequest(context.Background(), "UMI-1", models.ApproveRequestBody{})
	if err == nil || called {
		t.Error("non-head approval must fail client-side")
	}

	c.SetSession(&session.Session{Token: "t", Role: session.RoleHead})
	err = c.ApproveRequest(context.Background(), "UMI-1", models.ApproveRequestBody{
		UpdatedItems: []models.ApprovalItem{{ComponentID: "C-1", RequestedQty: 50, OnHandQty: 20}},
	})
	if err == nil {
		t.Error("quantity above on-hand accepted")
	}
	if called {
		t.Error("precondition failures must not hit the network")
	}
}
