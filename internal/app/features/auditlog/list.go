// internal/app/features/auditlog/list.go
package auditlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/store/audit"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const maxListLimit = 500

type entryPayload struct {
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

// ServeList handles GET /audit - returns recent audit entries, newest
// first, filterable by action, actor, and time range.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	q := r.URL.Query()
	filter := audit.QueryFilter{
		Actor: strings.TrimSpace(q.Get("actor")),
	}
	if action := strings.TrimSpace(q.Get("action")); action != "" {
		filter.Actions = []string{action}
	}
	if t, err := time.Parse(time.RFC3339, q.Get("start")); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("end")); err == nil {
		filter.EndTime = &t
	}
	if n, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && n > 0 {
		if n > maxListLimit {
			n = maxListLimit
		}
		filter.Limit = n
	}

	entries, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogError(r, "audit list", err)
		uierrors.Write(w, http.StatusInternalServerError, uierrors.CodeInternal, "could not read audit log")
		return
	}

	out := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryPayload{
			Action:    e.Action,
			Actor:     e.Actor,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.Log.Warn("audit list encoding failed", zap.Error(err))
	}
}
