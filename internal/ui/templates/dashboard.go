// Package templates holds the dashboard page. The page is a thin shell:
// selector controls bound to Datastar signals, a metric strip, and chart
// containers that the SSE endpoint fills in on every filter change.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"sfpurchasing/internal/refdata"
)

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>San Francisco Purchasing Data Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@latest/bundles/datastar.js"></script>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
.sidebar { width: 280px; padding: 1rem; background: #f4f4f4; min-height: 100vh; }
.sidebar label { display: block; margin-top: 1rem; font-weight: bold; }
.sidebar select { width: 100%; margin-top: 0.25rem; }
.content { flex: 1; padding: 1.5rem; }
.metric-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; }
.metric-card { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; }
.metric-label { display: block; color: #666; font-size: 0.85rem; }
.metric-value { display: block; font-size: 1.5rem; font-weight: bold; }
.metric-delta.up { color: #0a0; }
.metric-delta.down { color: #a00; }
.no-data { font-size: 1.2rem; }
.chart { margin-top: 2rem; }
</style>
</head>
`

const refreshExpr = `@get('/sse/dashboard?days='+$days+'&department='+encodeURIComponent($department)+'&commodity='+encodeURIComponent($commodity)+'&vendor='+encodeURIComponent($vendor))`

var timeWindowLabels = map[int]string{
	7:   "Last week",
	30:  "Last 30 days",
	90:  "Last 90 days",
	120: "Last 120 days",
	180: "Last 180 days",
	360: "Last 360 days",
}

// Dashboard renders the single-page dashboard shell.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w,
			`<body data-signals="{days: %d, department: 'all', commodity: 'all', vendor: 'all', noData: false, weeklyData: [], weekdayData: [], topDepartments: [], topCommodities: [], topVendors: []}" data-on-load="%s">`,
			refdata.DefaultTimeWindowDays, refreshExpr,
		); err != nil {
			return err
		}

		if err := writeSidebar(w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `
<main class="content">
<h1>San Francisco Purchasing Data Dashboard</h1>
<div id="metrics-content"><p class="no-data">Loading&hellip;</p></div>
<div class="chart" id="weekly-chart" data-text="JSON.stringify($weeklyData)"></div>
<div class="chart" id="weekday-chart" data-text="JSON.stringify($weekdayData)"></div>
<div class="chart" id="top-departments" data-text="JSON.stringify($topDepartments)"></div>
<div class="chart" id="top-commodities" data-text="JSON.stringify($topCommodities)"></div>
<div class="chart" id="top-vendors" data-text="JSON.stringify($topVendors)"></div>
</main>
</body>
</html>`)
		return err
	})
}

func writeSidebar(w io.Writer) error {
	if _, err := io.WriteString(w, `<aside class="sidebar">`); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, `<label>Choose time frame</label><select data-bind-days data-on-change="%s">`, refreshExpr); err != nil {
		return err
	}
	for _, days := range refdata.TimeWindows() {
		if _, err := fmt.Fprintf(w, `<option value="%d">%s</option>`, days, timeWindowLabels[days]); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select>`); err != nil {
		return err
	}

	if err := writeSelect(w, "Choose department", "department", "All depts", refdata.DepartmentNames()); err != nil {
		return err
	}
	if err := writeSelect(w, "Choose commodity", "commodity", "All commodities", refdata.Commodities()); err != nil {
		return err
	}
	if err := writeSelect(w, "Choose vendor", "vendor", "All vendors", refdata.Vendors()); err != nil {
		return err
	}

	_, err := io.WriteString(w, `</aside>`)
	return err
}

func writeSelect(w io.Writer, label, signal, allLabel string, options []string) error {
	if _, err := fmt.Fprintf(w, `<label>%s</label><select data-bind-%s data-on-change="%s"><option value="all">%s</option>`,
		templ.EscapeString(label), signal, refreshExpr, templ.EscapeString(allLabel)); err != nil {
		return err
	}
	for _, option := range options {
		escaped := templ.EscapeString(option)
		if _, err := fmt.Fprintf(w, `<option value="%s">%s</option>`, escaped, escaped); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select>`)
	return err
}
