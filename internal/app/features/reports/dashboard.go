// internal/app/features/reports/dashboard.go
package reports

import (
	"net/http"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/stats"
	"github.com/boubskouk/dossiervault/internal/app/system/timeouts"
)

// ServeGlobal handles GET /reports/global.
func (h *Handler) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "global stats")
	defer cancel()

	out, err := h.Engine.Global(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "global stats", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeActivity handles GET /reports/activity.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity counters")
	defer cancel()

	out, err := h.Engine.Activity(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "activity counters", err)
		uierrors.WriteFromError(w, err)
		return
	}
	h.writeJSON(w, out)
}

// ServeTimeline handles GET /reports/timeline.
func (h *Handler) ServeTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity timeline")
	defer cancel()

	out, err := h.Engine.Timeline(ctx, periodFrom(r))
	if err != nil {
		h.ErrLog.LogError(r, "activity timeline", err)
		uierrors.WriteFromError(w, err)
		return
	}
	if out == nil {
		out = []stats.TimelineDay{}
	}
	h.writeJSON(w, out)
}
