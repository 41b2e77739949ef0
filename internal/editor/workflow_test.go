package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"procure-desk/internal/bus"
	"procure-desk/internal/models"
	"procure-desk/internal/timeutil"
)

type fakeUpdater struct {
	calls   int
	lastReq models.UpdateComponentRequest
	result  *models.UpdateComponentResult
	err     error
}

func (f *fakeUpdater) UpdateComponent(_ context.Context, req models.UpdateComponentRequest) (*models.UpdateComponentResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func component() models.Component {
	return models.Component{
		ComponentID:         "C-1",
		PONumber:            "PO-1001",
		MPN:                 "LM358",
		UpdatedRequestedQty: 5,
		RatePerUnit:         decimal.NewFromInt(100),
		Amount:              decimal.NewFromInt(500),
		GSTAmount:           decimal.NewFromInt(90),
	}
}

func refDay() time.Time {
	d, _ := timeutil.ParseDateOnly("2025-11-30")
	return d
}

func TestBeginRequiresUnlock(t *testing.T) {
	w := New(&fakeUpdater{}, nil, 0.18, refDay())

	if _, err := w.Begin(component()); err == nil {
		t.Fatal("Begin succeeded on a locked PO")
	}

	w.ToggleUnlock("PO-1001")
	if _, err := w.Begin(component()); err != nil {
		t.Fatalf("Begin on unlocked PO: %v", err)
	}

	w.ToggleUnlock("PO-1001")
	if w.Unlocked("PO-1001") {
		t.Error("second toggle should re-lock")
	}
}

func TestSetQuantityRecomputesDerivedAmounts(t *testing.T) {
	w := New(&fakeUpdater{}, nil, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())

	if err := w.SetQuantity(e, 10); err != nil {
		t.Fatal(err)
	}

	if !e.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Amount = %s, want 1000", e.Amount)
	}
	if !e.GSTAmount.Equal(decimal.NewFromInt(180)) {
		t.Errorf("GSTAmount = %s, want 180", e.GSTAmount)
	}

	if err := w.SetQuantity(e, -1); err == nil {
		t.Error("negative quantity accepted")
	}
}

func TestSetExpectedDateBoundedByReferenceDay(t *testing.T) {
	w := New(&fakeUpdater{}, nil, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())

	past, _ := timeutil.ParseDateOnly("2025-11-29")
	if err := w.SetExpectedDate(e, past); err == nil {
		t.Error("date before the reference day accepted")
	}

	today := refDay()
	if err := w.SetExpectedDate(e, today); err != nil {
		t.Errorf("reference day itself should be allowed: %v", err)
	}
}

func TestConfirmAdoptsServerAmounts(t *testing.T) {
	// Server disagrees with the staged guess; the server must win.
	upd := &fakeUpdater{result: &models.UpdateComponentResult{
		Amount:    decimal.NewFromInt(999),
		GSTAmount: decimal.NewFromFloat(179.82),
	}}
	b := bus.New()

	var published []bus.Event
	b.Subscribe(bus.TopicComponentUpdated, func(ev bus.Event) { published = append(published, ev) })

	w := New(upd, b, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())
	w.SetQuantity(e, 10)

	if err := w.RequestSubmit(e); err != nil {
		t.Fatal(err)
	}
	updated, err := w.Confirm(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}

	if upd.calls != 1 {
		t.Errorf("update endpoint called %d times, want exactly 1", upd.calls)
	}
	if upd.lastReq.UpdatedRequestedQty != 10 {
		t.Errorf("submitted quantity = %v, want 10", upd.lastReq.UpdatedRequestedQty)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(999)) {
		t.Errorf("client kept its optimistic amount %s instead of the server's", updated.Amount)
	}
	if e.State() != Viewing {
		t.Errorf("state after confirm = %d, want Viewing", e.State())
	}
	if len(published) != 1 {
		t.Errorf("expected one component-updated event, got %d", len(published))
	}
}

func TestConfirmWithoutRequestFails(t *testing.T) {
	upd := &fakeUpdater{result: &models.UpdateComponentResult{}}
	w := New(upd, nil, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())

	if _, err := w.Confirm(context.Background(), e); err == nil {
		t.Error("Confirm fired without an armed submit")
	}
	if upd.calls != 0 {
		t.Error("network call happened before confirmation")
	}
}

func TestFailedSubmitKeepsEdits(t *testing.T) {
	upd := &fakeUpdater{err: errors.New("backend down")}
	w := New(upd, nil, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())
	w.SetQuantity(e, 7)
	w.RequestSubmit(e)

	if _, err := w.Confirm(context.Background(), e); err == nil {
		t.Fatal("expected submit failure")
	}
	if e.State() != Editing {
		t.Errorf("state after failure = %d, want Editing", e.State())
	}
	if e.Qty != 7 {
		t.Errorf("staged quantity lost on failure: %v", e.Qty)
	}
}

func TestCancelDiscardsWithoutNetworkCall(t *testing.T) {
	upd := &fakeUpdater{result: &models.UpdateComponentResult{}}
	w := New(upd, nil, 0.18, refDay())
	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())
	w.SetQuantity(e, 42)

	w.Cancel(e)

	if e.State() != Viewing {
		t.Errorf("state after cancel = %d, want Viewing", e.State())
	}
	if upd.calls != 0 {
		t.Error("cancel triggered a network call")
	}
}

func TestNoticesExpireAfterWindow(t *testing.T) {
	upd := &fakeUpdater{result: &models.UpdateComponentResult{}}
	w := New(upd, nil, 0.18, refDay())

	now := time.Now()
	w.SetClock(func() time.Time { return now })

	w.ToggleUnlock("PO-1001")
	e, _ := w.Begin(component())
	w.SetQuantity(e, 10)
	w.RequestSubmit(e)
	if _, err := w.Confirm(context.Background(), e); err != nil {
		t.Fatal(err)
	}

	if got := w.Notices(); len(got) != 1 {
		t.Fatalf("expected one active notice, got %v", got)
	}

	now = now.Add(4 * time.Second)
	if got := w.Notices(); len(got) != 0 {
		t.Errorf("notice survived past its window: %v", got)
	}
}
