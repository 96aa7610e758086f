package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestAnalytics() *services.Analytics {
	day := func(s string) time.Time {
		t, _ := time.Parse(models.DateLayout, s)
		return t
	}
	ds := models.NewDataset([]models.SalesRecord{
		{Date: day("2021-01-14"), Region: models.RegionNorth, Sales: decimal.RequireFromString("300")},
		{Date: day("2021-01-15"), Region: models.RegionSouth, Sales: decimal.RequireFromString("500")},
		{Date: day("2021-01-15"), Region: models.RegionEast, Sales: decimal.RequireFromString("1234.40")},
		{Date: day("2021-01-16"), Region: models.RegionNorth, Sales: decimal.RequireFromString("12.50")},
	})
	return services.NewAnalytics(ds, testLogger(), nil)
}

type salesEnvelope struct {
	Success bool          `json:"success"`
	Data    SalesResponse `json:"data"`
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewAPIHandlers(analytics, testLogger(), "test")

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}

	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleSales(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "test")

	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	w := httptest.NewRecorder()

	handlers.HandleSales(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
		t.Errorf("expected cache-control %q, got %q", cacheMaxAge, cc)
	}

	var resp salesEnvelope
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !resp.Success {
		t.Error("expected success=true in response")
	}

	if got := len(resp.Data.ByDateRegion); got != 4 {
		t.Errorf("expected 4 date/region rows, got %d", got)
	}

	wantOrder := []string{"east", "south", "north"}
	if len(resp.Data.ByRegion) != len(wantOrder) {
		t.Fatalf("expected %d region rows, got %d", len(wantOrder), len(resp.Data.ByRegion))
	}
	for i, region := range wantOrder {
		if resp.Data.ByRegion[i].Region != region {
			t.Errorf("by_region[%d] = %q, want %q", i, resp.Data.ByRegion[i].Region, region)
		}
	}

	if label := resp.Data.ByRegion[0].Label; label != "$1,234" {
		t.Errorf("expected label $1,234, got %q", label)
	}
}

func TestAPIHandlers_HandleSales_Filters(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "test")

	tests := []struct {
		query    string
		wantRows int
	}{
		{"?start=2021-01-15&end=2021-01-15", 2},
		{"?start=2021-01-15", 4},
		{"?region=north", 2},
		{"?region=north,south", 3},
		{"?region=north&region=east", 3},
		{"?region=all", 4},
		{"?region=central", 0},
		{"?start=2021-01-16&end=2021-01-14", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleSales(w, httptest.NewRequest(http.MethodGet, "/api/sales"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}

			var resp salesEnvelope
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			if got := len(resp.Data.ByDateRegion); got != tt.wantRows {
				t.Errorf("rows = %d, want %d", got, tt.wantRows)
			}
			if resp.Data.ByRegion == nil {
				t.Error("by_region should be an array, not null")
			}
		})
	}
}

func TestAPIHandlers_HandleSales_BadDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleSales(w, httptest.NewRequest(http.MethodGet, "/api/sales?start=15/01/2021", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	errBody, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in response")
	}
	if errBody["code"] != "BAD_REQUEST" {
		t.Errorf("code = %v, want BAD_REQUEST", errBody["code"])
	}
	if errBody["details"] != "start" {
		t.Errorf("details = %v, want start", errBody["details"])
	}
}

func TestAPIHandlers_HandleRegions(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleRegions(w, httptest.NewRequest(http.MethodGet, "/api/regions", nil))

	var resp struct {
		Data RegionsResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	want := []string{"north", "east", "south"}
	if len(resp.Data.Regions) != len(want) {
		t.Fatalf("regions = %v, want %v", resp.Data.Regions, want)
	}
	for i := range want {
		if resp.Data.Regions[i] != want[i] {
			t.Errorf("regions[%d] = %q, want %q", i, resp.Data.Regions[i], want[i])
		}
	}
	if resp.Data.StartDate != "2021-01-14" || resp.Data.EndDate != "2021-01-16" {
		t.Errorf("date range = %s..%s", resp.Data.StartDate, resp.Data.EndDate)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "1.2.3")

	w := httptest.NewRecorder()
	handlers.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if resp.Data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Data["status"])
	}
	if resp.Data["version"] != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", resp.Data["version"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger(), "test")

	w := httptest.NewRecorder()
	handlers.HandleStats(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if resp.Data["record_count"] != float64(4) {
		t.Errorf("record_count = %v, want 4", resp.Data["record_count"])
	}
}
