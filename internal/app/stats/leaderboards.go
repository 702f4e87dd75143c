// internal/app/stats/leaderboards.go
package stats

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/store/query"
	"github.com/boubskouk/dossiervault/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeletedDossier is one soft-deleted dossier attributed to an actor on the
// deletion leaderboard.
type DeletedDossier struct {
	DossierID           string     `json:"dossierId"`
	Title               string     `json:"title"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty"`
	Motif               string     `json:"motif,omitempty"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
	DaysUntilExpiration int        `json:"daysUntilExpiration"`
}

// LockedDossier is one locked dossier attributed to an actor on the lock
// leaderboard.
type LockedDossier struct {
	DossierID string     `json:"dossierId"`
	Title     string     `json:"title"`
	LockedAt  *time.Time `json:"lockedAt,omitempty"`
}

// ActorActivity is one leaderboard row: an actor from the scoped role and
// the dossiers currently attributed to them.
type ActorActivity struct {
	Actor     string           `json:"actor"`
	ActorName string           `json:"actorName,omitempty"`
	Email     string           `json:"email,omitempty"`
	Count     int              `json:"count"`
	Deleted   []DeletedDossier `json:"deleted,omitempty"`
	Locked    []LockedDossier  `json:"locked,omitempty"`
}

// DeletionsByRole ranks the members of the role at the given privilege
// level by the soft-deleted dossiers currently attributed to them, with the
// deletion timestamps constrained to the period. A level with no role, or a
// role with no members, yields an empty leaderboard.
func (e *Engine) DeletionsByRole(ctx context.Context, level int, p PeriodQuery) ([]ActorActivity, error) {
	members, err := e.roleMembers(ctx, level)
	if err != nil {
		return nil, e.fail("deletions-by-role", err)
	}
	if len(members) == 0 {
		return []ActorActivity{}, nil
	}

	rng := e.resolve(p)
	preds := []query.Predicate{
		{Field: "deleted", Op: query.OpEq, Value: true},
		{Field: "deleted_by", Op: query.OpIn, Value: members},
	}
	preds = append(preds, rng.Predicates("deleted_at")...)

	found, err := e.dossiers.Find(ctx, query.ToBSON(preds),
		options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}}))
	if err != nil {
		return nil, e.fail("deletions-by-role", err)
	}

	now := e.now()
	rows, order := groupByActor(found, func(d models.Dossier) string { return d.DeletedBy })
	for _, actor := range order {
		row := rows[actor]
		for _, d := range row.dossiers {
			row.entry.Deleted = append(row.entry.Deleted, DeletedDossier{
				DossierID:           d.DossierID,
				Title:               d.Title,
				DeletedAt:           d.DeletedAt,
				Motif:               d.DeletionMotif,
				ExpiresAt:           d.ExpiresAt,
				DaysUntilExpiration: d.DaysUntilExpiration(now),
			})
		}
	}

	out := finishLeaderboard(rows, order)
	if err := e.enrichActors(ctx, out); err != nil {
		return nil, e.fail("deletions-by-role", err)
	}
	return out, nil
}

// LocksByRole ranks the members of the role at the given privilege level by
// the dossiers they currently hold locked, with lock timestamps constrained
// to the period.
func (e *Engine) LocksByRole(ctx context.Context, level int, p PeriodQuery) ([]ActorActivity, error) {
	members, err := e.roleMembers(ctx, level)
	if err != nil {
		return nil, e.fail("locks-by-role", err)
	}
	if len(members) == 0 {
		return []ActorActivity{}, nil
	}

	rng := e.resolve(p)
	preds := []query.Predicate{
		{Field: "deleted", Op: query.OpEq, Value: false},
		{Field: "locked", Op: query.OpEq, Value: true},
		{Field: "locked_by", Op: query.OpIn, Value: members},
	}
	preds = append(preds, rng.Predicates("locked_at")...)

	found, err := e.dossiers.Find(ctx, query.ToBSON(preds),
		options.Find().SetSort(bson.D{{Key: "locked_at", Value: -1}}))
	if err != nil {
		return nil, e.fail("locks-by-role", err)
	}

	rows, order := groupByActor(found, func(d models.Dossier) string { return d.LockedBy })
	for _, actor := range order {
		row := rows[actor]
		for _, d := range row.dossiers {
			row.entry.Locked = append(row.entry.Locked, LockedDossier{
				DossierID: d.DossierID,
				Title:     d.Title,
				LockedAt:  d.LockedAt,
			})
		}
	}

	out := finishLeaderboard(rows, order)
	if err := e.enrichActors(ctx, out); err != nil {
		return nil, e.fail("locks-by-role", err)
	}
	return out, nil
}

// roleMembers returns the member usernames of the role at the given level;
// a missing role scopes to nobody rather than failing the report.
func (e *Engine) roleMembers(ctx context.Context, level int) ([]string, error) {
	role, err := e.roles.FindByLevel(ctx, level)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return role.Members, nil
}

type actorRow struct {
	entry    *ActorActivity
	dossiers []models.Dossier
}

func groupByActor(found []models.Dossier, actorOf func(models.Dossier) string) (map[string]*actorRow, []string) {
	rows := make(map[string]*actorRow)
	var order []string
	for _, d := range found {
		actor := actorOf(d)
		if actor == "" {
			continue
		}
		row, ok := rows[actor]
		if !ok {
			row = &actorRow{entry: &ActorActivity{Actor: actor}}
			rows[actor] = row
			order = append(order, actor)
		}
		row.entry.Count++
		row.dossiers = append(row.dossiers, d)
	}
	return rows, order
}

func finishLeaderboard(rows map[string]*actorRow, order []string) []ActorActivity {
	out := make([]ActorActivity, 0, len(order))
	for _, actor := range order {
		out = append(out, *rows[actor].entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// enrichActors resolves display names and emails for leaderboard rows.
func (e *Engine) enrichActors(ctx context.Context, rows []ActorActivity) error {
	if len(rows) == 0 {
		return nil
	}
	actors := make([]string, 0, len(rows))
	for _, row := range rows {
		actors = append(actors, row.Actor)
	}
	dir, err := e.users.FindMany(ctx, actors)
	if err != nil {
		return err
	}
	for i := range rows {
		if u, ok := dir[rows[i].Actor]; ok {
			rows[i].ActorName = u.DisplayName
			rows[i].Email = u.Email
		}
	}
	return nil
}
