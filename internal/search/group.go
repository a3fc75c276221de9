package search

import (
	"math"
	"slices"
	"time"

	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/models"
)

// Order is the leader list sort direction.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// Groups partitions complaints by age.
type Groups struct {
	Recent []models.Complaint `json:"recent"` // up to 7 days
	Older  []models.Complaint `json:"older"`  // 8 to 90 days
	Oldest []models.Complaint `json:"oldest"` // over 90 days or undated
}

// Total is the number of complaints across all buckets.
func (g Groups) Total() int {
	return len(g.Recent) + len(g.Older) + len(g.Oldest)
}

// Sort returns a copy ordered by date. Equal dates keep their input order;
// undated complaints sort as the oldest.
func Sort(list []models.Complaint, order Order, loc *time.Location) []models.Complaint {
	out := make([]models.Complaint, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	slices.SortStableFunc(out, func(a, b models.Complaint) int {
		da, _ := ParseDay(a.Date, loc)
		db, _ := ParseDay(b.Date, loc)
		if order == OrderAsc {
			return da.Compare(db)
		}
		return db.Compare(da)
	})
	return out
}

// AgeInDays is the whole number of days between now and the complaint date,
// rounded up, in either direction.
func AgeInDays(day, now time.Time) int {
	diff := now.Sub(day)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// Group splits list into age buckets, keeping order within each bucket.
func Group(list []models.Complaint, now time.Time) Groups {
	var g Groups
	for _, c := range list {
		day, ok := ParseDay(c.Date, now.Location())
		if !ok {
			g.Oldest = append(g.Oldest, c.Clone())
			continue
		}
		switch age := AgeInDays(day, now); {
		case age <= config.RecentWindowDays:
			g.Recent = append(g.Recent, c.Clone())
		case age <= config.OlderWindowDays:
			g.Older = append(g.Older, c.Clone())
		default:
			g.Oldest = append(g.Oldest, c.Clone())
		}
	}
	return g
}

// LeaderView filters, sorts and groups complaints for the leader list.
func LeaderView(list []models.Complaint, f Filter, order Order, now time.Time) Groups {
	return Group(Sort(Apply(list, f, now), order, now.Location()), now)
}

// ParseOrder maps a query value to an Order, defaulting to newest first.
func ParseOrder(v string) Order {
	if Order(v) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}
