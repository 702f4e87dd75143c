// internal/app/stats/rankings.go
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
)

// Shared entity kinds in the most-shared ranking.
const (
	KindDossier  = "dossier"
	KindDocument = "document"
)

// ShareDetail is one share event attached to a ranking entry, with the
// actor and recipient display names resolved from the user directory.
type ShareDetail struct {
	By       string    `json:"by"`
	ByName   string    `json:"byName,omitempty"`
	With     string    `json:"with"`
	WithName string    `json:"withName,omitempty"`
	At       time.Time `json:"at"`
}

// SharedEntity is one row of the most-shared ranking. The count keeps its
// legacy JSON key, which the dashboard chart reads directly.
type SharedEntity struct {
	EntityID string        `json:"id"`
	Kind     string        `json:"type"`
	Title    string        `json:"titre"`
	Count    int           `json:"nombrePartages"`
	Shares   []ShareDetail `json:"partages"`
}

// MostShared ranks dossiers and documents by share count within the period,
// capped at TopSize. Share records naming neither a dossier nor a document
// are malformed and skipped.
func (e *Engine) MostShared(ctx context.Context, p PeriodQuery) ([]SharedEntity, error) {
	rng := e.resolve(p)

	records, err := e.shares.InRange(ctx, rng.From, rng.To)
	if err != nil {
		return nil, e.fail("most-shared", err)
	}

	grouped := make(map[string]*SharedEntity)
	var order []string
	actorSet := make(map[string]struct{})

	for _, rec := range records {
		id, kind := rec.DossierID, KindDossier
		if rec.DocumentID != "" {
			id, kind = rec.DocumentID, KindDocument
		}
		if id == "" {
			continue
		}

		entry, ok := grouped[id]
		if !ok {
			entry = &SharedEntity{EntityID: id, Kind: kind}
			grouped[id] = entry
			order = append(order, id)
		}
		entry.Count++
		entry.Shares = append(entry.Shares, ShareDetail{
			By:   rec.SharedBy,
			With: rec.SharedWith,
			At:   rec.SharedAt,
		})
		actorSet[rec.SharedBy] = struct{}{}
		actorSet[rec.SharedWith] = struct{}{}
	}

	if err := e.resolveShareTitles(ctx, grouped); err != nil {
		return nil, e.fail("most-shared", err)
	}

	actors := make([]string, 0, len(actorSet))
	for a := range actorSet {
		actors = append(actors, a)
	}
	dir, err := e.users.FindMany(ctx, actors)
	if err != nil {
		return nil, e.fail("most-shared", err)
	}
	for _, entry := range grouped {
		for i := range entry.Shares {
			if u, ok := dir[entry.Shares[i].By]; ok {
				entry.Shares[i].ByName = u.DisplayName
			}
			if u, ok := dir[entry.Shares[i].With]; ok {
				entry.Shares[i].WithName = u.DisplayName
			}
		}
	}

	// Ties keep first-share order, which InRange's chronological sort makes
	// deterministic.
	out := make([]SharedEntity, 0, len(order))
	for _, id := range order {
		out = append(out, *grouped[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > TopSize {
		out = out[:TopSize]
	}
	return out, nil
}

// resolveShareTitles fills in display titles: dossier rows get the dossier
// title, document rows get the document title found on the parent dossier.
// Entities that no longer exist keep their id as the display title.
func (e *Engine) resolveShareTitles(ctx context.Context, grouped map[string]*SharedEntity) error {
	var dossierIDs, documentIDs []string
	for id, entry := range grouped {
		entry.Title = id
		if entry.Kind == KindDocument {
			documentIDs = append(documentIDs, id)
		} else {
			dossierIDs = append(dossierIDs, id)
		}
	}

	if len(dossierIDs) > 0 {
		found, err := e.dossiers.Find(ctx, bson.M{"dossier_id": bson.M{"$in": dossierIDs}})
		if err != nil {
			return err
		}
		for _, d := range found {
			if entry, ok := grouped[d.DossierID]; ok {
				entry.Title = d.Title
			}
		}
	}

	if len(documentIDs) > 0 {
		// Legacy records embed documents under "fichiers".
		parents, err := e.dossiers.Find(ctx, bson.M{"$or": []bson.M{
			{"documents.document_id": bson.M{"$in": documentIDs}},
			{"fichiers.document_id": bson.M{"$in": documentIDs}},
		}})
		if err != nil {
			return err
		}
		for _, d := range parents {
			for i := range d.Documents {
				if entry, ok := grouped[d.Documents[i].ID]; ok {
					entry.Title = d.Documents[i].Title
				}
			}
		}
	}
	return nil
}

// AccessedDocument is one row of the most-downloaded or most-consulted
// ranking, reconstructed from audit entries.
type AccessedDocument struct {
	DocumentID   string    `json:"documentId"`
	DocumentName string    `json:"documentName,omitempty"`
	DossierID    string    `json:"dossierId,omitempty"`
	DossierTitle string    `json:"dossierTitle,omitempty"`
	Count        int64     `json:"count"`
	LastBy       string    `json:"lastBy,omitempty"`
	LastByName   string    `json:"lastByName,omitempty"`
	LastAt       time.Time `json:"lastAt"`
}

// MostDownloaded ranks documents by download count within the period.
func (e *Engine) MostDownloaded(ctx context.Context, p PeriodQuery) ([]AccessedDocument, error) {
	return e.topAccessed(ctx, "most-downloaded", audit.ActionDownloaded, p)
}

// MostConsulted ranks documents by consultation count within the period.
func (e *Engine) MostConsulted(ctx context.Context, p PeriodQuery) ([]AccessedDocument, error) {
	return e.topAccessed(ctx, "most-consulted", audit.ActionConsulted, p)
}

func (e *Engine) topAccessed(ctx context.Context, op, action string, p PeriodQuery) ([]AccessedDocument, error) {
	rng := e.resolve(p)

	rows, err := e.audit.TopDocumentsByAction(ctx, action, rng.From, rng.To, TopSize)
	if err != nil {
		return nil, e.fail(op, err)
	}

	actors := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.LastActor != "" {
			actors = append(actors, row.LastActor)
		}
	}
	dir, err := e.users.FindMany(ctx, actors)
	if err != nil {
		return nil, e.fail(op, err)
	}

	out := make([]AccessedDocument, 0, len(rows))
	for _, row := range rows {
		doc := AccessedDocument{
			DocumentID:   row.DocumentID,
			DocumentName: row.Details[audit.DetailDocumentName],
			DossierID:    row.Details[audit.DetailDossierID],
			DossierTitle: row.Details[audit.DetailDossierTitle],
			Count:        row.Count,
			LastBy:       row.LastActor,
			LastAt:       row.LastAt,
		}
		if u, ok := dir[row.LastActor]; ok {
			doc.LastByName = u.DisplayName
		}
		out = append(out, doc)
	}
	return out, nil
}
