// Package editor stages inline edits to purchase-order components and
// commits them behind an explicit confirmation. Derived amounts are
// recomputed live while editing, but whatever the backend returns on
// submit is authoritative and overwrites the staged guess.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"procure-desk/internal/bus"
	"procure-desk/internal/models"
	"procure-desk/internal/timeutil"
)

// State of one row's edit lifecycle.
type State int

const (
	Viewing State = iota
	Editing
	PendingConfirm
)

// How long a success notice stays up before auto-dismissing.
const noticeTTL = 3 * time.Second

// Updater is the single write path an edit commits through.
type Updater interface {
	UpdateComponent(ctx context.Context, req models.UpdateComponentRequest) (*models.UpdateComponentResult, error)
}

// RowKey identifies an editable row.
type RowKey struct {
	PONumber    string
	ComponentID string
}

// Edit is one row's staged buffer.
type Edit struct {
	state State

	original models.Component

	Qty          float64
	ExpectedDate *time.Time
	Amount       decimal.Decimal
	GSTAmount    decimal.Decimal
}

func (e *Edit) State() State { return e.state }

// Notice is a transient success banner.
type Notice struct {
	Message string
	expires time.Time
}

// Workflow owns the unlock gate and the per-row edit buffers. Buffers
// are independent; concurrent edits to different rows never interact.
type Workflow struct {
	updater Updater
	bus     *bus.Bus

	gstRate  decimal.Decimal
	refDay   time.Time
	now      func() time.Time
	unlocked map[string]bool
	edits    map[RowKey]*Edit
	notices  []Notice
}

// New builds a workflow. refDay bounds expected-date edits (not before
// that day); gstRate is the configured GST fraction, e.g. 0.18.
func New(updater Updater, b *bus.Bus, gstRate float64, refDay time.Time) *Workflow {
	return &Workflow{
		updater:  updater,
		bus:      b,
		gstRate:  decimal.NewFromFloat(gstRate),
		refDay:   timeutil.StartOfDay(refDay),
		now:      time.Now,
		unlocked: make(map[string]bool),
		edits:    make(map[RowKey]*Edit),
	}
}

// SetClock overrides the wall clock; tests use this to step notices.
func (w *Workflow) SetClock(now func() time.Time) { w.now = now }

// ToggleUnlock flips the per-PO gate that allows its rows to be edited.
func (w *Workflow) ToggleUnlock(poNumber string) {
	w.unlocked[poNumber] = !w.unlocked[poNumber]
}

func (w *Workflow) Unlocked(poNumber string) bool {
	return w.unlocked[poNumber]
}

// Begin moves a row from Viewing to Editing. The row's PO must be
// unlocked first.
func (w *Workflow) Begin(c models.Component) (*Edit, error) {
	if !w.unlocked[c.PONumber] {
		return nil, fmt.Errorf("purchase order %s is locked for editing", c.PONumber)
	}

	key := RowKey{PONumber: c.PONumber, ComponentID: c.ComponentID}
	if e, ok := w.edits[key]; ok && e.state != Viewing {
		return e, nil
	}

	e := &Edit{
		state:     Editing,
		original:  c,
		Qty:       c.UpdatedRequestedQty,
		Amount:    c.Amount,
		GSTAmount: c.GSTAmount,
	}
	w.edits[key] = e
	return e, nil
}

// SetQuantity stages a new quantity and recomputes amount and GST.
func (w *Workflow) SetQuantity(e *Edit, qty float64) error {
	if e.state != Editing {
		return errors.New("row is not in editing state")
	}
	if qty < 0 {
		return errors.New("quantity cannot be negative")
	}

	e.Qty = qty
	e.Amount = e.original.RatePerUnit.Mul(decimal.NewFromFloat(qty))
	e.GSTAmount = e.Amount.Mul(w.gstRate)
	return nil
}

// SetExpectedDate stages a new expected delivery date, which may not
// fall before the reference day.
func (w *Workflow) SetExpectedDate(e *Edit, d time.Time) error {
	if e.state != Editing {
		return errors.New("row is not in editing state")
	}
	if timeutil.StartOfDay(d).Before(w.refDay) {
		return fmt.Errorf("expected delivery date %s is in the past", timeutil.DateOnly(d))
	}

	d = timeutil.StartOfDay(d)
	e.ExpectedDate = &d
	return nil
}

// RequestSubmit arms the confirmation step. No network call yet.
func (w *Workflow) RequestSubmit(e *Edit) error {
	if e.state != Editing {
		return errors.New("nothing staged to submit")
	}
	e.state = PendingConfirm
	return nil
}

// Confirm fires the update. On success the backend's recomputed
// amounts replace the staged ones and the row returns to Viewing; on
// failure the buffer is kept and the row drops back to Editing.
func (w *Workflow) Confirm(ctx context.Context, e *Edit) (*models.Component, error) {
	if e.state != PendingConfirm {
		return nil, errors.New("submit has not been requested")
	}

	req := models.UpdateComponentRequest{
		PONumber:             e.original.PONumber,
		ComponentID:          e.original.ComponentID,
		ExpectedDeliveryDate: e.ExpectedDate,
		UpdatedRequestedQty:  e.Qty,
	}

	result, err := w.updater.UpdateComponent(ctx, req)
	if err != nil {
		e.state = Editing
		return nil, err
	}

	updated := e.original
	updated.UpdatedRequestedQty = e.Qty
	updated.Amount = result.Amount
	updated.GSTAmount = result.GSTAmount

	e.state = Viewing
	delete(w.edits, RowKey{PONumber: updated.PONumber, ComponentID: updated.ComponentID})

	w.notices = append(w.notices, Notice{
		Message: fmt.Sprintf("Component %s updated", updated.ComponentID),
		expires: w.now().Add(noticeTTL),
	})
	if w.bus != nil {
		w.bus.Publish(bus.TopicComponentUpdated, updated)
	}

	return &updated, nil
}

// Cancel discards the buffer from any state without a network call.
func (w *Workflow) Cancel(e *Edit) {
	e.state = Viewing
	delete(w.edits, RowKey{PONumber: e.original.PONumber, ComponentID: e.original.ComponentID})
}

// Notices returns the banners still inside their display window and
// drops the expired ones.
func (w *Workflow) Notices() []string {
	now := w.now()
	kept := w.notices[:0]
	var out []string
	for _, n := range w.notices {
		if now.Before(n.expires) {
			kept = append(kept, n)
			out = append(out, n.Message)
		}
	}
	w.notices = kept
	return out
}
