// Package search computes read-only views over the complaint collection:
// filtered lists for the search screen and age buckets for the leader list.
// Inputs are never modified; results are fresh copies.
package search

import (
	"strings"
	"time"

	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/models"

	"golang.org/x/text/cases"
)

// AnyValue disables the single-category and status filters.
const AnyValue = "All"

// Filter holds the active filters. All of them must match.
type Filter struct {
	Query       string   `form:"query" json:"query"`
	CategoryIDs []string `form:"categories" json:"categories"`
	Category    string   `form:"category" json:"category"`
	Date        string   `form:"date" json:"date"`
	Location    string   `form:"location" json:"location"`
	Status      string   `form:"status" json:"status"`
}

// Apply returns the complaints matching f, in input order.
func Apply(list []models.Complaint, f Filter, now time.Time) []models.Complaint {
	match := compile(f, now)
	out := make([]models.Complaint, 0, len(list))
	for _, c := range list {
		if match(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func compile(f Filter, now time.Time) func(models.Complaint) bool {
	fold := cases.Fold()
	var preds []func(models.Complaint) bool

	if q := strings.TrimSpace(f.Query); q != "" {
		q = fold.String(q)
		preds = append(preds, func(c models.Complaint) bool {
			return strings.Contains(fold.String(c.Title), q) ||
				strings.Contains(fold.String(c.Subtitle), q) ||
				strings.Contains(fold.String(c.Location), q)
		})
	}

	if len(f.CategoryIDs) > 0 {
		names := make(map[string]bool, len(f.CategoryIDs))
		for _, id := range f.CategoryIDs {
			if name, ok := config.CategoryNames[strings.TrimSpace(id)]; ok {
				names[fold.String(name)] = true
			}
		}
		preds = append(preds, func(c models.Complaint) bool { return names[fold.String(c.Category)] })
	}

	if cat := strings.TrimSpace(f.Category); cat != "" && !strings.EqualFold(cat, AnyValue) {
		preds = append(preds, func(c models.Complaint) bool { return strings.EqualFold(c.Category, cat) })
	}

	if byDate := datePredicate(f.Date, now); byDate != nil {
		loc := now.Location()
		preds = append(preds, func(c models.Complaint) bool { return byDate(ParseDay(c.Date, loc)) })
	}

	if loc := strings.TrimSpace(f.Location); loc != "" && !strings.EqualFold(loc, config.DefaultLocation) {
		loc = fold.String(loc)
		preds = append(preds, func(c models.Complaint) bool { return strings.Contains(fold.String(c.Location), loc) })
	}

	if st := strings.TrimSpace(f.Status); st != "" && !strings.EqualFold(st, AnyValue) {
		want, _ := models.ParseStatus(st)
		preds = append(preds, func(c models.Complaint) bool { return statusOf(c) == want })
	}

	return func(c models.Complaint) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// statusOf treats a missing status as pending.
func statusOf(c models.Complaint) models.Status {
	if c.Status == "" {
		return models.StatusPending
	}
	return c.Status
}
