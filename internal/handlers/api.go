package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/models"
	"morsel-dashboard/internal/observability"
	"morsel-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type DateRegionRow struct {
	Date   string  `json:"date"`
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
}

type RegionRow struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
	Label  string  `json:"label"`
}

// SalesResponse is the chart-ready form of a models.SalesSummary.
type SalesResponse struct {
	ByDateRegion []DateRegionRow `json:"by_date_region"`
	ByRegion     []RegionRow     `json:"by_region"`
}

type RegionsResponse struct {
	Regions   []string `json:"regions"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

func newSalesResponse(s models.SalesSummary) SalesResponse {
	resp := SalesResponse{
		ByDateRegion: make([]DateRegionRow, 0, len(s.ByDateRegion)),
		ByRegion:     make([]RegionRow, 0, len(s.ByRegion)),
	}
	for _, row := range s.ByDateRegion {
		resp.ByDateRegion = append(resp.ByDateRegion, DateRegionRow{
			Date:   row.Date.Format(models.DateLayout),
			Region: row.Region.String(),
			Sales:  row.Sales.InexactFloat64(),
		})
	}
	for _, row := range s.ByRegion {
		resp.ByRegion = append(resp.ByRegion, RegionRow{
			Region: row.Region.String(),
			Sales:  row.Sales.InexactFloat64(),
			Label:  services.CurrencyLabel(row.Sales),
		})
	}
	return resp
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	version   string
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger, version string) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
		version:   version,
	}
}

func filterParamsFromQuery(r *http.Request) services.FilterParams {
	q := r.URL.Query()
	return services.FilterParams{
		Start:   q.Get("start"),
		End:     q.Get("end"),
		Regions: q["region"],
	}
}

func (h *APIHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	filter, err := filterParamsFromQuery(r).Filter()
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	summary := h.analytics.Sales(r.Context(), filter)

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, newSalesResponse(summary), headers)
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	resp := RegionsResponse{Regions: []string{}}
	for _, region := range h.analytics.Regions() {
		resp.Regions = append(resp.Regions, region.String())
	}
	if first, last, ok := h.analytics.DateRange(); ok {
		resp.StartDate = first.Format(models.DateLayout)
		resp.EndDate = last.Format(models.DateLayout)
	}

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, resp, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
