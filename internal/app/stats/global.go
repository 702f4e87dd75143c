// internal/app/stats/global.go
package stats

import (
	"context"

	"github.com/boubskouk/dossiervault/internal/app/store/query"
	"go.mongodb.org/mongo-driver/bson"
)

// NoDepartmentLabel labels dossiers whose record carries no department
// reference in the per-department breakdown.
const NoDepartmentLabel = "Sans département"

// DepartmentCount is one row of the per-department breakdown.
type DepartmentCount struct {
	DepartmentID string `json:"departmentId,omitempty"`
	Department   string `json:"department"`
	Dossiers     int64  `json:"dossiers"`
	Documents    int64  `json:"documents"`
	TotalSize    int64  `json:"totalSize"`
}

// GlobalStats is the headline dashboard: archive-wide totals over the
// active population plus a per-department breakdown.
type GlobalStats struct {
	TotalDossiers  int64             `json:"totalDossiers"`
	TotalDocuments int64             `json:"totalDocuments"`
	TotalSize      int64             `json:"totalSize"`
	LockedDossiers int64             `json:"lockedDossiers"`
	SharedDossiers int64             `json:"sharedDossiers"`
	ByDepartment   []DepartmentCount `json:"byDepartment"`
}

// coalesced document-array and size expressions. Older records store the
// embedded documents under "fichiers" and the byte total under "taille";
// the current field wins when both are present.
var (
	docsExpr = bson.M{"$ifNull": bson.A{"$documents", bson.M{"$ifNull": bson.A{"$fichiers", bson.A{}}}}}
	sizeExpr = bson.M{"$ifNull": bson.A{"$total_size", bson.M{"$ifNull": bson.A{"$taille", 0}}}}
)

// Global computes archive-wide totals for the period. The period constrains
// dossier creation time; "all" (or an unknown descriptor) counts everything.
func (e *Engine) Global(ctx context.Context, p PeriodQuery) (GlobalStats, error) {
	rng := e.resolve(p)

	preds := []query.Predicate{{Field: "deleted", Op: query.OpEq, Value: false}}
	preds = append(preds, rng.Predicates("created_at")...)
	match := query.ToBSON(preds)

	var out GlobalStats

	total, err := e.dossiers.Count(ctx, match)
	if err != nil {
		return GlobalStats{}, e.fail("global", err)
	}
	out.TotalDossiers = total

	lockedFilter := query.ToBSON(append(preds, query.Predicate{Field: "locked", Op: query.OpEq, Value: true}))
	locked, err := e.dossiers.Count(ctx, lockedFilter)
	if err != nil {
		return GlobalStats{}, e.fail("global", err)
	}
	out.LockedDossiers = locked

	// Shared means at least one share target recorded on the dossier.
	sharedFilter := query.ToBSON(preds)
	sharedFilter["shared_with.0"] = bson.M{"$exists": true}
	shared, err := e.dossiers.Count(ctx, sharedFilter)
	if err != nil {
		return GlobalStats{}, e.fail("global", err)
	}
	out.SharedDossiers = shared

	byDept, docs, size, err := e.departmentBreakdown(ctx, match)
	if err != nil {
		return GlobalStats{}, e.fail("global", err)
	}
	out.ByDepartment = byDept
	out.TotalDocuments = docs
	out.TotalSize = size

	return out, nil
}

// departmentBreakdown groups the matched dossiers by department, summing
// document counts and byte sizes with legacy-shape coalescing, and returns
// the archive-wide document and size totals alongside.
func (e *Engine) departmentBreakdown(ctx context.Context, match bson.M) ([]DepartmentCount, int64, int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":      "$department_id",
			"dossiers": bson.M{"$sum": 1},
			"docs":     bson.M{"$sum": bson.M{"$size": docsExpr}},
			"size":     bson.M{"$sum": sizeExpr},
		}},
		{"$sort": bson.M{"dossiers": -1, "_id": 1}},
	}
	cur, err := e.dossiers.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, 0, err
	}
	defer cur.Close(ctx)

	labels, err := e.departments.All(ctx)
	if err != nil {
		return nil, 0, 0, err
	}

	var (
		rows       []DepartmentCount
		totalDocs  int64
		totalBytes int64
	)
	for cur.Next(ctx) {
		var row struct {
			DepartmentID string `bson:"_id"`
			Dossiers     int64  `bson:"dossiers"`
			Docs         int64  `bson:"docs"`
			Size         int64  `bson:"size"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, 0, 0, err
		}
		totalDocs += row.Docs
		totalBytes += row.Size

		label := NoDepartmentLabel
		if row.DepartmentID != "" {
			label = row.DepartmentID
			if dept, ok := labels[row.DepartmentID]; ok && dept.DisplayName != "" {
				label = dept.DisplayName
			}
		}
		rows = append(rows, DepartmentCount{
			DepartmentID: row.DepartmentID,
			Department:   label,
			Dossiers:     row.Dossiers,
			Documents:    row.Docs,
			TotalSize:    row.Size,
		})
	}
	return rows, totalDocs, totalBytes, cur.Err()
}
