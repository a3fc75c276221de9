package search

import (
	"strings"
	"time"
)

// Relative date buckets offered by the search screen.
const (
	DateToday     = "Today"
	DateYesterday = "Yesterday"
	DateTomorrow  = "Tomorrow"
	DateThisWeek  = "This week"
)

var dayLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDay parses a complaint or filter date and returns local midnight of
// that calendar day.
func ParseDay(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return midnight(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// datePredicate returns a matcher for a date filter value. An empty value
// matches everything; an unparseable one matches nothing.
func datePredicate(value string, now time.Time) func(time.Time, bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	today := midnight(now)
	var target time.Time
	switch {
	case strings.EqualFold(value, DateToday):
		target = today
	case strings.EqualFold(value, DateYesterday):
		target = today.AddDate(0, 0, -1)
	case strings.EqualFold(value, DateTomorrow):
		target = today.AddDate(0, 0, 1)
	case strings.EqualFold(value, DateThisWeek):
		return func(day time.Time, ok bool) bool { return ok && sameISOWeek(day, today) }
	default:
		var ok bool
		if target, ok = ParseDay(value, now.Location()); !ok {
			return func(time.Time, bool) bool { return false }
		}
	}
	return func(day time.Time, ok bool) bool { return ok && day.Equal(target) }
}
