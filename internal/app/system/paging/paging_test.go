package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/boubskouk/dossiervault/internal/app/system/paging"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"valid", 3, 25, 3, 25},
		{"zero page", 0, 25, 1, 25},
		{"negative page", -4, 25, 1, 25},
		{"zero limit", 2, 0, 2, paging.DefaultLimit},
		{"limit over max", 1, 5000, 1, paging.MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := paging.Clamp(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestNewMeta_TotalPagesIsCeiling(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{41, 20, 3},
	}
	for _, tt := range tests {
		meta := paging.NewMeta(1, tt.limit, tt.total)
		if meta.TotalPages != tt.wantPages {
			t.Errorf("total=%d limit=%d: TotalPages = %d, want %d",
				tt.total, tt.limit, meta.TotalPages, tt.wantPages)
		}
		if meta.Total != tt.total {
			t.Errorf("Total = %d, want %d", meta.Total, tt.total)
		}
	}
}

func TestWindow(t *testing.T) {
	skip, lim := paging.Window(3, 20)
	if skip != 40 || lim != 20 {
		t.Errorf("got (%d, %d), want (40, 20)", skip, lim)
	}
	skip, _ = paging.Window(1, 20)
	if skip != 0 {
		t.Errorf("first page skip = %d, want 0", skip)
	}
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/dossiers?page=2&limit=50", nil)
	page, limit := paging.Parse(r)
	if page != 2 || limit != 50 {
		t.Errorf("got (%d, %d), want (2, 50)", page, limit)
	}

	r = httptest.NewRequest("GET", "/reports/dossiers?page=abc&limit=-1", nil)
	page, limit = paging.Parse(r)
	if page != 1 || limit != paging.DefaultLimit {
		t.Errorf("bad params: got (%d, %d), want (1, %d)", page, limit, paging.DefaultLimit)
	}
}
