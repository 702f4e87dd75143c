// internal/app/stats/listings.go
package stats

import (
	"context"
	"regexp"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/store/query"
	"github.com/boubskouk/dossiervault/internal/app/system/paging"
	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListParams parameterizes a paginated listing: the reporting period, an
// optional free-text search, and the requested page window.
type ListParams struct {
	PeriodQuery
	Search string
	Page   int
	Limit  int
}

// DossierSummary is one listing row. Deletion fields are populated only in
// the deleted listing.
type DossierSummary struct {
	DossierID     string    `json:"dossierId"`
	Title         string    `json:"title"`
	Category      string    `json:"category,omitempty"`
	DepartmentID  string    `json:"departmentId,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatorName   string    `json:"creatorName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	DocumentCount int       `json:"documentCount"`
	TotalSize     int64     `json:"totalSize"`
	State         string    `json:"state"`

	LockedBy string     `json:"lockedBy,omitempty"`
	LockedAt *time.Time `json:"lockedAt,omitempty"`

	DeletedBy           string     `json:"deletedBy,omitempty"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty"`
	Motif               string     `json:"motif,omitempty"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
	DaysUntilExpiration *int       `json:"daysUntilExpiration,omitempty"`
}

// DossierPage is one page of a dossier listing.
type DossierPage struct {
	Items []DossierSummary `json:"items"`
	Meta  paging.Meta      `json:"meta"`
}

// searchFilter matches the search text as a case-insensitive literal
// substring of the title, external id, or category.
func searchFilter(search string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"title": pattern},
		{"dossier_id": pattern},
		{"category": pattern},
	}}
}

// ListActive pages through non-deleted dossiers, newest first. The period
// constrains creation time.
func (e *Engine) ListActive(ctx context.Context, params ListParams) (DossierPage, error) {
	preds := []query.Predicate{{Field: "deleted", Op: query.OpEq, Value: false}}
	preds = append(preds, e.resolve(params.PeriodQuery).Predicates("created_at")...)
	return e.listPage(ctx, "list-active", preds, params, "created_at", false)
}

// ListDeleted pages through soft-deleted dossiers, most recently deleted
// first, with the remaining recovery window attached to each row.
func (e *Engine) ListDeleted(ctx context.Context, params ListParams) (DossierPage, error) {
	preds := []query.Predicate{{Field: "deleted", Op: query.OpEq, Value: true}}
	preds = append(preds, e.resolve(params.PeriodQuery).Predicates("deleted_at")...)
	return e.listPage(ctx, "list-deleted", preds, params, "deleted_at", true)
}

// ListLocked pages through locked dossiers, most recently locked first.
func (e *Engine) ListLocked(ctx context.Context, params ListParams) (DossierPage, error) {
	preds := []query.Predicate{
		{Field: "deleted", Op: query.OpEq, Value: false},
		{Field: "locked", Op: query.OpEq, Value: true},
	}
	preds = append(preds, e.resolve(params.PeriodQuery).Predicates("locked_at")...)
	return e.listPage(ctx, "list-locked", preds, params, "locked_at", false)
}

func (e *Engine) listPage(ctx context.Context, op string, preds []query.Predicate, params ListParams, sortField string, deleted bool) (DossierPage, error) {
	filter := query.ToBSON(preds)
	if params.Search != "" {
		filter["$and"] = []bson.M{searchFilter(params.Search)}
	}

	page, limit := paging.Clamp(params.Page, params.Limit)

	total, err := e.dossiers.Count(ctx, filter)
	if err != nil {
		return DossierPage{}, e.fail(op, err)
	}

	skip, lim := paging.Window(page, limit)
	found, err := e.dossiers.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}}).
		SetSkip(skip).
		SetLimit(lim))
	if err != nil {
		return DossierPage{}, e.fail(op, err)
	}

	now := e.now()
	items := make([]DossierSummary, 0, len(found))
	for _, d := range found {
		items = append(items, summarize(d, deleted, now))
	}
	return DossierPage{Items: items, Meta: paging.NewMeta(page, limit, total)}, nil
}

func summarize(d models.Dossier, deleted bool, now time.Time) DossierSummary {
	s := DossierSummary{
		DossierID:     d.DossierID,
		Title:         d.Title,
		Category:      d.Category,
		DepartmentID:  d.DepartmentID,
		CreatedBy:     d.CreatedBy,
		CreatorName:   d.CreatorName,
		CreatedAt:     d.CreatedAt,
		DocumentCount: d.DocumentCount,
		TotalSize:     d.TotalSize,
		State:         d.State(),
		LockedBy:      d.LockedBy,
		LockedAt:      d.LockedAt,
	}
	if deleted {
		s.DeletedBy = d.DeletedBy
		s.DeletedAt = d.DeletedAt
		s.Motif = d.DeletionMotif
		s.ExpiresAt = d.ExpiresAt
		days := d.DaysUntilExpiration(now)
		s.DaysUntilExpiration = &days
	}
	return s
}

// DocumentRow is one flattened document with its parent back-reference.
type DocumentRow struct {
	DocumentID   string    `json:"documentId"`
	FileName     string    `json:"fileName"`
	Title        string    `json:"title"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
	DossierID    string    `json:"dossierId"`
	DossierTitle string    `json:"dossierTitle"`
}

// DocumentPage is one page of the flattened document listing.
type DocumentPage struct {
	Items []DocumentRow `json:"items"`
	Meta  paging.Meta   `json:"meta"`
}

// ListDocuments flattens the embedded documents of all non-deleted dossiers
// into one paginated listing, newest first. Legacy records that embed their
// documents under the old field name are included.
func (e *Engine) ListDocuments(ctx context.Context, params ListParams) (DocumentPage, error) {
	stages := []bson.M{
		{"$match": bson.M{"deleted": false}},
		{"$addFields": bson.M{"docs": docsExpr}},
		{"$unwind": "$docs"},
	}

	match := bson.M{}
	rng := e.resolve(params.PeriodQuery)
	if rng.From != nil || rng.To != nil {
		added := bson.M{}
		if rng.From != nil {
			added["$gte"] = *rng.From
		}
		if rng.To != nil {
			added["$lte"] = *rng.To
		}
		match["docs.added_at"] = added
	}
	if params.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		match["$or"] = []bson.M{
			{"docs.title": pattern},
			{"docs.file_name": pattern},
			{"docs.document_id": pattern},
			{"title": pattern},
		}
	}
	if len(match) > 0 {
		stages = append(stages, bson.M{"$match": match})
	}

	page, limit := paging.Clamp(params.Page, params.Limit)

	countPipeline := append(append([]bson.M{}, stages...), bson.M{"$count": "total"})
	cur, err := e.dossiers.Aggregate(ctx, countPipeline)
	if err != nil {
		return DocumentPage{}, e.fail("list-documents", err)
	}
	var total int64
	if cur.Next(ctx) {
		var row struct {
			Total int64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			cur.Close(ctx)
			return DocumentPage{}, e.fail("list-documents", err)
		}
		total = row.Total
	}
	if err := cur.Err(); err != nil {
		cur.Close(ctx)
		return DocumentPage{}, e.fail("list-documents", err)
	}
	cur.Close(ctx)

	skip, lim := paging.Window(page, limit)
	dataPipeline := append(append([]bson.M{}, stages...),
		bson.M{"$sort": bson.M{"docs.added_at": -1}},
		bson.M{"$skip": skip},
		bson.M{"$limit": lim},
		bson.M{"$project": bson.M{
			"_id":           0,
			"document_id":   "$docs.document_id",
			"file_name":     "$docs.file_name",
			"doc_title":     "$docs.title",
			"size":          "$docs.size",
			"content_type":  "$docs.content_type",
			"added_at":      "$docs.added_at",
			"dossier_id":    1,
			"dossier_title": "$title",
		}},
	)
	cur, err = e.dossiers.Aggregate(ctx, dataPipeline)
	if err != nil {
		return DocumentPage{}, e.fail("list-documents", err)
	}
	defer cur.Close(ctx)

	items := make([]DocumentRow, 0, limit)
	for cur.Next(ctx) {
		var row struct {
			DocumentID   string    `bson:"document_id"`
			FileName     string    `bson:"file_name"`
			Title        string    `bson:"doc_title"`
			Size         int64     `bson:"size"`
			ContentType  string    `bson:"content_type"`
			AddedAt      time.Time `bson:"added_at"`
			DossierID    string    `bson:"dossier_id"`
			DossierTitle string    `bson:"dossier_title"`
		}
		if err := cur.Decode(&row); err != nil {
			return DocumentPage{}, e.fail("list-documents", err)
		}
		items = append(items, DocumentRow{
			DocumentID:   row.DocumentID,
			FileName:     row.FileName,
			Title:        row.Title,
			Size:         row.Size,
			ContentType:  row.ContentType,
			AddedAt:      row.AddedAt,
			DossierID:    row.DossierID,
			DossierTitle: row.DossierTitle,
		})
	}
	if err := cur.Err(); err != nil {
		return DocumentPage{}, e.fail("list-documents", err)
	}
	return DocumentPage{Items: items, Meta: paging.NewMeta(page, limit, total)}, nil
}
