// Package templates holds the server-rendered dashboard page.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"morsel-dashboard/internal/models"
)

// DashboardData seeds the page's filter controls.
type DashboardData struct {
	Regions   []string
	StartDate string
	EndDate   string
}

// NewDashboardData builds the filter defaults from the loaded dataset.
func NewDashboardData(regions []models.Region, first, last string) DashboardData {
	names := make([]string, 0, len(regions))
	for _, r := range regions {
		names = append(names, r.String())
	}
	return DashboardData{Regions: names, StartDate: first, EndDate: last}
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Pink Morsel Sales Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f7f3f5; color: #2d2a2e; }
header { background: #c2185b; color: #fff; padding: 1.5rem 2rem; }
header h1 { margin: 0; }
.filters { display: flex; gap: 2rem; padding: 1rem 2rem; align-items: center; flex-wrap: wrap; }
.charts { display: grid; grid-template-columns: 2fr 1fr; gap: 1.5rem; padding: 0 2rem 2rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.modern-table { width: 100%; border-collapse: collapse; }
.modern-table th, .modern-table td { padding: .4rem .6rem; border-bottom: 1px solid #eee; text-align: left; }
</style>
</head>
<body data-signals='{"startDate": "{{.StartDate}}", "endDate": "{{.EndDate}}", "region": "all", "timeSeries": [], "regional": []}'
      data-on-load="@get('/sse/sales')">
<header>
<h1>Pink Morsel Sales Dashboard</h1>
<p>Daily Pink Morsel sales by region</p>
</header>

<section class="filters">
<label>From <input type="date" id="start-date" data-bind-start-date min="{{.StartDate}}" max="{{.EndDate}}" data-on-change="@get('/sse/sales')"></label>
<label>To <input type="date" id="end-date" data-bind-end-date min="{{.StartDate}}" max="{{.EndDate}}" data-on-change="@get('/sse/sales')"></label>
<fieldset id="region-filter">
<legend>Region</legend>
<label><input type="radio" name="region" value="all" data-bind-region data-on-change="@get('/sse/sales')"> All</label>
{{range .Regions}}<label><input type="radio" name="region" value="{{.}}" data-bind-region data-on-change="@get('/sse/sales')"> {{.}}</label>
{{end}}</fieldset>
</section>

<section class="charts">
<div class="card">
<h2>Sales over time</h2>
<canvas id="time-series-chart" data-effect="window.morselCharts && window.morselCharts.timeSeries($timeSeries)"></canvas>
</div>
<div class="card">
<h2>Sales by region</h2>
<canvas id="regional-chart" data-effect="window.morselCharts && window.morselCharts.regional($regional)"></canvas>
<div id="regional-table"></div>
</div>
</section>

<script>
window.morselCharts = (function () {
  const colors = { north: "#c2185b", east: "#1976d2", south: "#388e3c", west: "#f57c00" };
  let line, bar;
  return {
    timeSeries(rows) {
      const dates = [...new Set(rows.map(r => r.date))];
      const regions = [...new Set(rows.map(r => r.region))];
      const datasets = regions.map(region => ({
        label: region,
        borderColor: colors[region],
        data: dates.map(d => {
          const row = rows.find(r => r.date === d && r.region === region);
          return row ? row.sales : null;
        }),
        spanGaps: true,
      }));
      if (line) line.destroy();
      line = new Chart(document.getElementById("time-series-chart"), {
        type: "line",
        data: { labels: dates, datasets },
      });
    },
    regional(rows) {
      if (bar) bar.destroy();
      bar = new Chart(document.getElementById("regional-chart"), {
        type: "bar",
        data: {
          labels: rows.map(r => r.region),
          datasets: [{ label: "Sales", data: rows.map(r => r.sales), backgroundColor: rows.map(r => colors[r.region]) }],
        },
        options: { plugins: { tooltip: { callbacks: { label: ctx => rows[ctx.dataIndex].label } } } },
      });
    },
  };
})();
</script>
</body>
</html>
`))

// Dashboard renders the full dashboard page.
func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dashboardTemplate.Execute(w, data)
	})
}
