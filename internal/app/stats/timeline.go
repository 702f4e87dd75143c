// internal/app/stats/timeline.go
package stats

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/app/store/audit"
)

// ActivityCounters is the per-action event count for the period.
type ActivityCounters struct {
	Created       int64 `json:"created"`
	Deleted       int64 `json:"deleted"`
	Locked        int64 `json:"locked"`
	Shared        int64 `json:"shared"`
	Downloaded    int64 `json:"downloaded"`
	Consulted     int64 `json:"consulted"`
	DocumentAdded int64 `json:"documentAdded"`
	Total         int64 `json:"total"`
}

// TimelineDay is one calendar day of the activity timeline, with counts per
// action for that day.
type TimelineDay struct {
	Date    string           `json:"date"`
	Actions map[string]int64 `json:"actions"`
	Total   int64            `json:"total"`
}

// Activity tallies audit events per action within the period.
func (e *Engine) Activity(ctx context.Context, p PeriodQuery) (ActivityCounters, error) {
	rng := e.resolve(p)

	counts, err := e.audit.CountByAction(ctx, rng.From, rng.To)
	if err != nil {
		return ActivityCounters{}, e.fail("activity", err)
	}

	var out ActivityCounters
	for action, n := range counts {
		out.Total += n
		switch action {
		case audit.ActionCreated:
			out.Created = n
		case audit.ActionDeleted:
			out.Deleted = n
		case audit.ActionLocked:
			out.Locked = n
		case audit.ActionShared:
			out.Shared = n
		case audit.ActionDownloaded:
			out.Downloaded = n
		case audit.ActionConsulted:
			out.Consulted = n
		case audit.ActionDocumentAdded:
			out.DocumentAdded = n
		}
	}
	return out, nil
}

// Timeline buckets audit events per calendar day within the period, oldest
// day first, for the activity chart.
func (e *Engine) Timeline(ctx context.Context, p PeriodQuery) ([]TimelineDay, error) {
	rng := e.resolve(p)

	rows, err := e.audit.CountByDay(ctx, rng.From, rng.To)
	if err != nil {
		return nil, e.fail("timeline", err)
	}

	var (
		out  []TimelineDay
		last *TimelineDay
	)
	for _, row := range rows {
		if last == nil || last.Date != row.Day {
			out = append(out, TimelineDay{Date: row.Day, Actions: make(map[string]int64)})
			last = &out[len(out)-1]
		}
		last.Actions[row.Action] += row.Count
		last.Total += row.Count
	}
	return out, nil
}
