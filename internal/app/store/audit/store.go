// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Audit actions. One canonical action is recorded per physical event: a
// document download records ActionDownloaded with the document id in the
// details, never an additional dossier-level action for the same event.
const (
	ActionCreated       = "created"
	ActionDeleted       = "deleted"
	ActionLocked        = "locked"
	ActionShared        = "shared"
	ActionDownloaded    = "downloaded"
	ActionConsulted     = "consulted"
	ActionDocumentAdded = "document_added"
)

// Deletion classifications carried in the details of an ActionDeleted entry.
const (
	DeletionSoft      = "DELETED"
	DeletionPermanent = "PERMANENT_DELETE"
)

// Detail keys used by the aggregation engine when reading entries back.
const (
	DetailDossierID    = "dossier_id"
	DetailDossierTitle = "dossier_title"
	DetailDocumentID   = "document_id"
	DetailDocumentName = "document_name"
	DetailClass        = "classification"
)

// Entry is one immutable audit fact.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Action    string             `bson:"action"`
	Actor     string             `bson:"actor"`
	Timestamp time.Time          `bson:"timestamp"`
	Details   map[string]string  `bson:"details,omitempty"`
}

// QueryFilter narrows audit queries.
type QueryFilter struct {
	Actions   []string
	Actor     string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
}

// Store manages the append-only audit log. The lifecycle manager is the
// sole writer; reporting reads only.
type Store struct {
	c *mongo.Collection
}

// New creates an audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// EnsureIndexes creates indexes for time-ordered and per-action reads.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "actor", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records an entry. Entries are never updated or removed.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// Query retrieves entries matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	query := bson.M{}
	if len(filter.Actions) > 0 {
		query["action"] = bson.M{"$in": filter.Actions}
	}
	if filter.Actor != "" {
		query["actor"] = filter.Actor
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		rng := bson.M{}
		if filter.StartTime != nil {
			rng["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			rng["$lte"] = *filter.EndTime
		}
		query["timestamp"] = rng
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DocumentActivity is one row of a per-document activity grouping: how many
// times the action hit the document, plus the detail snapshot and actor of
// the most recent occurrence.
type DocumentActivity struct {
	DocumentID string            `bson:"_id"`
	Count      int64             `bson:"count"`
	LastActor  string            `bson:"last_actor"`
	LastAt     time.Time         `bson:"last_at"`
	Details    map[string]string `bson:"details"`
}

// TopDocumentsByAction groups entries for one action by the document id in
// their details, most frequent first. Entries without a document id are
// ignored. The detail snapshot kept for each document is the most recent one.
func (s *Store) TopDocumentsByAction(ctx context.Context, action string, start, end *time.Time, limit int64) ([]DocumentActivity, error) {
	match := bson.M{
		"action":                      action,
		"details." + DetailDocumentID: bson.M{"$exists": true, "$ne": ""},
	}
	if start != nil || end != nil {
		rng := bson.M{}
		if start != nil {
			rng["$gte"] = *start
		}
		if end != nil {
			rng["$lte"] = *end
		}
		match["timestamp"] = rng
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$sort": bson.M{"timestamp": -1}},
		{"$group": bson.M{
			"_id":        "$details." + DetailDocumentID,
			"count":      bson.M{"$sum": 1},
			"last_actor": bson.M{"$first": "$actor"},
			"last_at":    bson.M{"$first": "$timestamp"},
			"details":    bson.M{"$first": "$details"},
		}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "last_at", Value: -1}}},
		{"$limit": limit},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []DocumentActivity
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByAction returns entry counts grouped by action within the optional
// time range.
func (s *Store) CountByAction(ctx context.Context, start, end *time.Time) (map[string]int64, error) {
	match := bson.M{}
	if start != nil || end != nil {
		rng := bson.M{}
		if start != nil {
			rng["$gte"] = *start
		}
		if end != nil {
			rng["$lte"] = *end
		}
		match["timestamp"] = rng
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Action string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Action] = row.Count
	}
	return counts, cur.Err()
}

// DayCount is one day/action bucket of the activity timeline.
type DayCount struct {
	Day    string `bson:"day"`
	Action string `bson:"action"`
	Count  int64  `bson:"count"`
}

// CountByDay buckets entries per calendar day (UTC) and action within the
// optional time range, oldest day first.
func (s *Store) CountByDay(ctx context.Context, start, end *time.Time) ([]DayCount, error) {
	match := bson.M{}
	if start != nil || end != nil {
		rng := bson.M{}
		if start != nil {
			rng["$gte"] = *start
		}
		if end != nil {
			rng["$lte"] = *end
		}
		match["timestamp"] = rng
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id": bson.M{
				"day": bson.M{"$dateToString": bson.M{
					"format": "%Y-%m-%d",
					"date":   "$timestamp",
				}},
				"action": "$action",
			},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id.day": 1, "_id.action": 1}},
		{"$project": bson.M{
			"_id":    0,
			"day":    "$_id.day",
			"action": "$_id.action",
			"count":  1,
		}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []DayCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
