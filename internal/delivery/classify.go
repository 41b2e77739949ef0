package delivery

import (
	"time"

	"procure-desk/internal/models"
	"procure-desk/internal/timeutil"
)

// Labels shown against a purchase order's delivery column
const (
	LabelDelivered = "Delivered"
	LabelDueToday  = "Expected Delivery Today"
	LabelDelayed   = "Delayed"
	LabelDueSoon   = "Due Soon"
	LabelOnTime    = "On Time"
	LabelUnknown   = "Unknown"
)

// Urgency buckets drive how a row is highlighted.
type Urgency int

const (
	UrgencyNone Urgency = iota
	UrgencyDelivered
	UrgencyToday
	UrgencyDelayed
	UrgencySoon
	UrgencyOnTime
)

type Classification struct {
	Label   string
	Urgency Urgency
}

// Classify derives the presentation status of an order from its
// expected date and backend status, against an injected reference day.
// All date comparisons are calendar-day in IST; time-of-day never
// changes the outcome.
//
// A delivered order classifies as delivered regardless of date. The
// exact-today check runs before the due-soon window and dominates it.
func Classify(expected *time.Time, status string, ref time.Time, dueSoonDays int) Classification {
	if status == models.POStatusDelivered {
		return Classification{Label: LabelDelivered, Urgency: UrgencyDelivered}
	}

	if expected == nil {
		label := status
		if label == "" {
			label = LabelUnknown
		}
		return Classification{Label: label, Urgency: UrgencyNone}
	}

	diffDays := timeutil.DaysBetween(ref, *expected)

	switch {
	case diffDays == 0:
		return Classification{Label: LabelDueToday, Urgency: UrgencyToday}
	case diffDays < 0:
		return Classification{Label: LabelDelayed, Urgency: UrgencyDelayed}
	case diffDays <= dueSoonDays:
		return Classification{Label: LabelDueSoon, Urgency: UrgencySoon}
	default:
		label := status
		if label == "" {
			label = LabelOnTime
		}
		return Classification{Label: label, Urgency: UrgencyOnTime}
	}
}

// DueToday filters the orders whose expected date falls on the
// reference day. Delivered orders never count.
func DueToday(orders []models.PurchaseOrder, ref time.Time) []models.PurchaseOrder {
	var due []models.PurchaseOrder
	for _, po := range orders {
		c := Classify(po.ExpectedDeliveryDate, po.Status, ref, 1)
		if c.Urgency == UrgencyToday {
			due = append(due, po)
		}
	}
	return due
}
