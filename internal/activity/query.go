package activity

import (
	"context"
	"strings"
	"time"

	"github.com/adminconsole/admin-console/internal/db/models"
)

const (
	// DefaultListLimit is the number of entries the viewer loads.
	DefaultListLimit = 500
	// ActionAll disables the action type filter.
	ActionAll = "all"
)

// Lister reads entries newest first.
type Lister interface {
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

// Filter narrows a list of entries. Zero fields match everything.
type Filter struct {
	Year       int
	Month      int // 1-12, only applied together with Year
	Search     string
	ActionType string
	Location   *time.Location // for Year and Month, UTC when nil
}

// Apply returns the entries matching f in their original order.
func (f Filter) Apply(entries []models.ActivityLog) []models.ActivityLog {
	out := make([]models.ActivityLog, 0, len(entries))

	for i := range entries {
		if f.Match(&entries[i]) {
			out = append(out, entries[i])
		}
	}

	return out
}

// Match reports whether e passes the filter.
func (f Filter) Match(e *models.ActivityLog) bool {
	if f.Year > 0 {
		loc := f.Location
		if loc == nil {
			loc = time.UTC
		}

		created := e.CreatedAt.In(loc)
		if created.Year() != f.Year {
			return false
		}

		if f.Month > 0 && int(created.Month()) != f.Month {
			return false
		}
	}

	if f.ActionType != "" && f.ActionType != ActionAll && string(e.ActionType) != f.ActionType {
		return false
	}

	if f.Search == "" {
		return true
	}

	needle := strings.ToLower(f.Search)

	switch {
	case strings.Contains(strings.ToLower(e.Title), needle),
		strings.Contains(strings.ToLower(e.Description), needle),
		e.UserEmail != nil && strings.Contains(strings.ToLower(*e.UserEmail), needle),
		strings.Contains(e.IPAddress, f.Search):
		return true
	default:
		return false
	}
}

// Browse loads at most limit entries (DefaultListLimit when limit <= 0) and applies f.
func Browse(ctx context.Context, lister Lister, f Filter, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	entries, err := lister.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	return f.Apply(entries), nil
}
