// internal/app/features/reports/handler.go

// Package reports exposes the read-only statistics engine over HTTP:
// global dashboards, rankings, role-scoped leaderboards, activity
// timelines, and paginated listings.
package reports

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/boubskouk/dossiervault/internal/app/features/errors"
	"github.com/boubskouk/dossiervault/internal/app/stats"
	"github.com/boubskouk/dossiervault/internal/app/system/paging"
	"go.uber.org/zap"
)

// Handler holds the reports feature's dependencies.
type Handler struct {
	Engine *stats.Engine
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a reports feature handler.
func NewHandler(engine *stats.Engine, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		ErrLog: errLog,
		Log:    logger,
	}
}

// periodFrom reads the period descriptor and optional custom bounds from
// the query string. Bounds accept RFC 3339 timestamps or plain dates.
func periodFrom(r *http.Request) stats.PeriodQuery {
	q := r.URL.Query()
	p := stats.PeriodQuery{Period: strings.TrimSpace(q.Get("period"))}
	if t, ok := parseTime(q.Get("start")); ok {
		p.CustomStart = &t
	}
	if t, ok := parseTime(q.Get("end")); ok {
		p.CustomEnd = &t
	}
	return p
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// listParamsFrom reads period, search, and page window from the request.
func listParamsFrom(r *http.Request) stats.ListParams {
	page, limit := paging.Parse(r)
	return stats.ListParams{
		PeriodQuery: periodFrom(r),
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
		Page:        page,
		Limit:       limit,
	}
}

// levelFrom reads the privilege level scoping a leaderboard; defaults to 2.
func levelFrom(r *http.Request) int {
	if v := r.URL.Query().Get("level"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 2
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("report response encoding failed", zap.Error(err))
	}
}
