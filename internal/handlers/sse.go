package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"morsel-dashboard/internal/errors"
	"morsel-dashboard/internal/observability"
	"morsel-dashboard/internal/services"
)

var regionTableTemplate = template.Must(template.New("regionTable").Parse(`
<div id="regional-table">
<table class="modern-table">
<thead><tr><th>Region</th><th>Sales</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Region}}</td>
<td><strong>{{.Label}}</strong></td>
</tr>{{else}}<tr><td colspan="2">No sales in the selected range</td></tr>{{end}}
</tbody>
</table>
</div>`))

// SalesSignals are the datastar signals the dashboard sends with every
// filter change.
type SalesSignals struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Region    string `json:"region"`
}

func (s SalesSignals) params() services.FilterParams {
	p := services.FilterParams{Start: s.StartDate, End: s.EndDate}
	if s.Region != "" {
		p.Regions = []string{s.Region}
	}
	return p
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderRegionTable(rows []RegionRow) (string, error) {
	var buf strings.Builder
	err := regionTableTemplate.Execute(&buf, rows)
	return buf.String(), err
}

// HandleSales recomputes both aggregates for the signalled filter and
// patches the chart data and the region table.
func (h *SSEHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals SalesSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Invalid signals"), requestID)
		return
	}
	filter, err := signals.params().Filter()
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	resp := newSalesResponse(h.analytics.Sales(r.Context(), filter))

	sse := datastar.NewSSE(w, r)

	html, err := h.renderRegionTable(resp.ByRegion)
	if err != nil {
		h.logger.Error("render region table", "error", err, "request_id", requestID)
		return
	}
	sse.PatchElements(html)

	jsonData, err := json.Marshal(map[string]any{
		"timeSeries": resp.ByDateRegion,
		"regional":   resp.ByRegion,
	})
	if err != nil {
		h.logger.Error("marshal sales signals", "error", err, "request_id", requestID)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
