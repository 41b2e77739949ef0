package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"procure-desk/internal/bus"
	"procure-desk/internal/config"
	"procure-desk/internal/erptest"
	"procure-desk/internal/models"
)

func stubBackend(t *testing.T) (*Client, *bus.Bus) {
	t.Helper()

	srv := httptest.NewServer(erptest.NewServer(nil).Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5 * time.Second

	b := bus.New()
	c := New(cfg, nil, nil, b)

	if _, err := c.Login(context.Background(), "asha", "asha123"); err != nil {
		t.Fatalf("login against stub: %v", err)
	}
	return c, b
}

func TestLoginPopulatesSession(t *testing.T) {
	c, _ := stubBackend(t)

	if !c.sess.IsHead() {
		t.Errorf("asha should be a head, got role %q", c.sess.Role)
	}
	if !c.sess.Valid(time.Now()) {
		t.Error("fresh session reports invalid")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(erptest.NewServer(nil).Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5 * time.Second

	c := New(cfg, nil, nil, nil)
	if _, err := c.Login(context.Background(), "asha", "wrong"); err == nil {
		t.Error("bad password accepted")
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := httptest.NewServer(erptest.NewServer(nil).Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5 * time.Second

	c := New(cfg, nil, nil, nil)
	if _, err := c.ListPurchaseOrders(context.Background()); err == nil {
		t.Error("unauthenticated list succeeded")
	}
}

func TestEndToEndUpdateAdoptsServerRecompute(t *testing.T) {
	c, _ := stubBackend(t)
	ctx := context.Background()

	orders, err := c.ListPurchaseOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("stub returned %d orders, want 2", len(orders))
	}

	result, err := c.UpdateComponent(ctx, models.UpdateComponentRequest{
		PONumber:            "PO-1001",
		ComponentID:         "C-1",
		UpdatedRequestedQty: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Rate 12.00 × 10 = 120.00, GST 21.60 — the server's rounding.
	if !result.Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("amount = %s, want 120", result.Amount)
	}
	if !result.GSTAmount.Equal(decimal.NewFromFloat(21.6)) {
		t.Errorf("gst = %s, want 21.6", result.GSTAmount)
	}

	// Re-fetch reflects the committed quantity.
	orders, err = c.ListPurchaseOrders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := orders[0].Components[0].UpdatedRequestedQty; got != 10 {
		t.Errorf("re-fetched quantity = %v, want 10", got)
	}
}

func TestEndToEndMaterialInCapEnforcedByServer(t *testing.T) {
	c, b := stubBackend(t)
	ctx := context.Background()

	var events int
	b.Subscribe(bus.TopicMaterialIn, func(bus.Event) { events++ })

	items, err := c.ListInspectionComponents(ctx, []string{models.BackorderStatusQCCleared})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d QC-cleared items, want 1", len(items))
	}

	// 10 already in, 30 reordered: 15 more fits, a further 15 does not.
	if err := c.MaterialIn(ctx, items[0], 15); err != nil {
		t.Fatal(err)
	}
	items, _ = c.ListInspectionComponents(ctx, []string{models.BackorderStatusQCCleared})
	if items[0].MaterialInQty != 25 {
		t.Errorf("cumulative material in = %v, want 25", items[0].MaterialInQty)
	}
	if err := c.MaterialIn(ctx, items[0], 15); err == nil {
		t.Error("over-cap confirmation succeeded")
	}
	if events != 1 {
		t.Errorf("material-in events = %d, want 1", events)
	}
}

func TestEndToEndApprovalFlow(t *testing.T) {
	c, _ := stubBackend(t)
	ctx := context.Background()

	reqs, err := c.ListApprovalRequests(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 1 || reqs[0].UMI != "UMI-501" {
		t.Fatalf("approvals = %+v", reqs)
	}

	items := reqs[0].Items
	items[0].RequestedQty = 15 // head lowers the ask, within on-hand

	err = c.ApproveRequest(ctx, "UMI-501", models.ApproveRequestBody{
		UpdatedItems: items,
		Note:         "issue from Stores-A",
		Priority:     "High",
	})
	if err != nil {
		t.Fatal(err)
	}

	reqs, _ = c.ListApprovalRequests(ctx)
	if reqs[0].Status != models.ApprovalStatusApproved {
		t.Errorf("status after approve = %q", reqs[0].Status)
	}
}

func TestEndToEndVendorUpsert(t *testing.T) {
	c, _ := stubBackend(t)
	ctx := context.Background()

	err := c.UpsertVendor(ctx, models.Vendor{
		GSTIN: "29ABCDE1234F1Z5", Name: "New Vendor", Address: "Bengaluru", PAN: "ABCDE1234F",
	})
	if err != nil {
		t.Fatal(err)
	}

	vendors, err := c.ListVendors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(vendors) != 2 {
		t.Errorf("vendor count = %d, want 2", len(vendors))
	}
}

func TestEndToEndBOMShortageData(t *testing.T) {
	c, _ := stubBackend(t)

	lines, err := c.ListBOM(context.Background(), "CTRL-BOARD")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("BOM lines = %d, want 2", len(lines))
	}
	if _, err := c.ListBOM(context.Background(), "NO-SUCH"); err == nil {
		t.Error("unknown assembly succeeded")
	}
}
