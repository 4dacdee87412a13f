package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/routecards/internal/domain"
)

// everyDayOf2026 yields each calendar day of 2026 at local noon.
func everyDayOf2026() []time.Time {
	var days []time.Time
	for d := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC); d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func TestDelivery_IsActive_Daily(t *testing.T) {
	for _, d := range everyDayOf2026() {
		assert.True(t, domain.DeliveryDaily.IsActive(d), d.Format(time.DateOnly))
	}
}

func TestDelivery_IsActive_AltRulesFollowDayOfMonthParity(t *testing.T) {
	for _, d := range everyDayOf2026() {
		odd := d.Day()%2 == 1
		assert.Equal(t, odd, domain.DeliveryAlt1.IsActive(d), "Alt 1 on %s", d.Format(time.DateOnly))
		assert.Equal(t, !odd, domain.DeliveryAlt2.IsActive(d), "Alt 2 on %s", d.Format(time.DateOnly))
	}
}

func TestDelivery_IsActive_WeekdayIsSundayThroughThursday(t *testing.T) {
	for _, d := range everyDayOf2026() {
		want := int(d.Weekday()) >= 0 && int(d.Weekday()) <= 4
		assert.Equal(t, want, domain.DeliveryWeekday.IsActive(d), "%s (%s)", d.Format(time.DateOnly), d.Weekday())
	}
}

func TestDelivery_IsActive_WeekdayKnownDates(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	assert.True(t, domain.DeliveryWeekday.IsActive(sunday))
	assert.True(t, domain.DeliveryWeekday.IsActive(sunday.AddDate(0, 0, 4)))  // Thursday
	assert.False(t, domain.DeliveryWeekday.IsActive(sunday.AddDate(0, 0, 5))) // Friday
	assert.False(t, domain.DeliveryWeekday.IsActive(sunday.AddDate(0, 0, 6))) // Saturday
}

func TestDelivery_IsActive_LooseSpellings(t *testing.T) {
	odd := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	even := odd.AddDate(0, 0, 1)
	saturday := time.Date(2026, 10, 24, 9, 0, 0, 0, time.UTC)

	assert.True(t, domain.Delivery("Alt1").IsActive(odd))
	assert.False(t, domain.Delivery("Alt1").IsActive(even))
	assert.True(t, domain.Delivery("alt 2").IsActive(even))
	assert.False(t, domain.Delivery("alt 2").IsActive(odd))
	assert.False(t, domain.Delivery(" WEEKDAY ").IsActive(saturday))
}

func TestDelivery_IsActive_UnrecognizedFailsOpen(t *testing.T) {
	saturday := time.Date(2026, 10, 24, 9, 0, 0, 0, time.UTC)
	assert.True(t, domain.DeliveryStandard.IsActive(saturday))
	assert.True(t, domain.Delivery("").IsActive(saturday))
	assert.True(t, domain.Delivery("Fortnightly").IsActive(saturday))
}

func TestParseDelivery(t *testing.T) {
	cases := map[string]domain.Delivery{
		"Daily":     domain.DeliveryDaily,
		" weekday ": domain.DeliveryWeekday,
		"Alt 1":     domain.DeliveryAlt1,
		"alt1":      domain.DeliveryAlt1,
		"ALT 2":     domain.DeliveryAlt2,
		"Standard":  domain.DeliveryStandard,
	}
	for in, want := range cases {
		got, ok := domain.ParseDelivery(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := domain.ParseDelivery("monthly")
	assert.False(t, ok)
}
