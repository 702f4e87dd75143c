// internal/app/system/periods/periods.go

// Package periods resolves a requested reporting period into a concrete
// date range. Every reporting query resolves its period through this
// package so the same semantics apply whether the range is matched against
// creation, deletion, lock, or event timestamps.
package periods

import (
	"time"

	"github.com/boubskouk/dossiervault/internal/app/store/query"
)

// Recognized period descriptors.
const (
	Today      = "today"
	Last7Days  = "7days"
	Last30Days = "30days"
	Custom     = "custom"
	All        = "all"
)

// Range is a resolved period: either bound may be nil (open side).
// A Range with both bounds nil matches everything, including records
// missing the filtered field.
type Range struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range carries no constraint.
func (r Range) IsZero() bool { return r.From == nil && r.To == nil }

// Predicates translates the range into filter predicates on the given
// field. An unconstrained range yields none.
func (r Range) Predicates(field string) []query.Predicate {
	var preds []query.Predicate
	if r.From != nil {
		preds = append(preds, query.Predicate{Field: field, Op: query.OpGTE, Value: *r.From})
	}
	if r.To != nil {
		preds = append(preds, query.Predicate{Field: field, Op: query.OpLTE, Value: *r.To})
	}
	return preds
}

// Resolve maps a period descriptor to a concrete range relative to now.
//
//	today   – local midnight of now through now
//	7days   – rolling window of 7 days ending at now
//	30days  – rolling window of 30 days ending at now
//	custom  – caller-supplied bounds, each optional
//	all     – no constraint
//
// Unknown descriptors also resolve to no constraint: the permissive
// default, not an error.
func Resolve(period string, customStart, customEnd *time.Time, now time.Time) Range {
	switch period {
	case Today:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Range{From: &midnight, To: &now}
	case Last7Days:
		from := now.AddDate(0, 0, -7)
		return Range{From: &from, To: &now}
	case Last30Days:
		from := now.AddDate(0, 0, -30)
		return Range{From: &from, To: &now}
	case Custom:
		return Range{From: customStart, To: customEnd}
	default:
		return Range{}
	}
}
