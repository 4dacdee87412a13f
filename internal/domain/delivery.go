package domain

import (
	"strings"
	"time"
)

// Delivery is the recurrence rule that decides on which calendar days a stop
// is served. The wire values match the labels shown in the delivery dialog.
type Delivery string

const (
	// DeliveryDaily is served every day.
	DeliveryDaily Delivery = "Daily"
	// DeliveryWeekday is served Sunday through Thursday.
	DeliveryWeekday Delivery = "Weekday"
	// DeliveryAlt1 is served on odd days of the month.
	DeliveryAlt1 Delivery = "Alt 1"
	// DeliveryAlt2 is served on even days of the month.
	DeliveryAlt2 Delivery = "Alt 2"
	// DeliveryStandard is the fallback written by the inline-edit path when no
	// option is chosen. It has no schedule of its own and is always active.
	DeliveryStandard Delivery = "Standard"
)

// DeliveryOptions lists the rules offered by the delivery selection dialog,
// in display order.
var DeliveryOptions = []Delivery{DeliveryDaily, DeliveryWeekday, DeliveryAlt1, DeliveryAlt2}

// ParseDelivery maps user input onto a known rule. Matching ignores case and
// inner spacing, so "alt1" and "Alt 1" are the same rule.
// The second result is false for unrecognized input.
func ParseDelivery(s string) (Delivery, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch key {
	case "daily":
		return DeliveryDaily, true
	case "weekday":
		return DeliveryWeekday, true
	case "alt1":
		return DeliveryAlt1, true
	case "alt2":
		return DeliveryAlt2, true
	case "standard":
		return DeliveryStandard, true
	}
	return "", false
}

// IsActive reports whether a stop with this rule is served on the calendar
// date of t, evaluated in t's own location. Spellings ParseDelivery accepts,
// such as "alt1", follow their rule.
// Unrecognized rules, Standard included, are always active.
func (d Delivery) IsActive(t time.Time) bool {
	if p, ok := ParseDelivery(string(d)); ok {
		d = p
	}
	switch d {
	case DeliveryDaily:
		return true
	case DeliveryWeekday:
		wd := t.Weekday()
		return wd >= time.Sunday && wd <= time.Thursday
	case DeliveryAlt1:
		return t.Day()%2 == 1
	case DeliveryAlt2:
		return t.Day()%2 == 0
	default:
		return true
	}
}

// Describe returns the one-line explanation shown next to a dialog option.
func (d Delivery) Describe() string {
	switch d {
	case DeliveryDaily:
		return "Delivery every day"
	case DeliveryWeekday:
		return "Delivery Sunday – Thursday only"
	case DeliveryAlt1:
		return "Delivery on odd dates only"
	case DeliveryAlt2:
		return "Delivery on even dates only"
	}
	return "No fixed schedule"
}
