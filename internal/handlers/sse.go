package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sfpurchasing/internal/models"
	"sfpurchasing/internal/services"
)

var metricsTemplate = template.Must(template.New("metrics").Parse(`
<div id="metrics-content">
<div class="metric-grid">
{{range .}}<div class="metric-card">
<span class="metric-label">{{.Label}}</span>
<span class="metric-value">{{.Value}}</span>
{{if .Delta}}<span class="metric-delta {{if .Negative}}down{{else}}up{{end}}">{{.Delta}}</span>{{end}}
</div>
{{end}}</div>
</div>`))

var noDataTemplate = `<div id="metrics-content"><p class="no-data">` + NoDataMessage + `</p></div>`

const invalidSelectionTemplate = `<div id="metrics-content"><p class="no-data">Invalid filter selection.</p></div>`

type metricCell struct {
	Label    string
	Value    string
	Delta    string
	Negative bool
}

type SSEHandlers struct {
	loader   *services.Loader
	pipeline *services.Pipeline
	logger   *slog.Logger
}

func NewSSEHandlers(loader *services.Loader, pipeline *services.Pipeline, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		loader:   loader,
		pipeline: pipeline,
		logger:   logger,
	}
}

func metricCells(m models.MetricSet) []metricCell {
	cells := make([]metricCell, 0, 8)

	for _, item := range []struct {
		metric models.Metric
		money  bool
	}{
		{m.PurchaseCount, false},
		{m.DepartmentCount, false},
		{m.VendorCount, false},
		{m.CommodityCount, false},
		{m.SalesVolume, true},
		{m.PriceMean, true},
		{m.PriceMedian, true},
		{m.HighestSale, true},
	} {
		cell := metricCell{
			Label: item.metric.Label,
			Value: fmt.Sprintf("%.0f", item.metric.Value),
		}
		if item.money {
			cell.Value += " $"
		}
		if item.metric.Delta != nil {
			cell.Delta = fmt.Sprintf("%+d", *item.metric.Delta)
			cell.Negative = *item.metric.Delta < 0
		}
		cells = append(cells, cell)
	}

	return cells
}

func (h *SSEHandlers) renderMetrics(m models.MetricSet) (string, error) {
	var buf strings.Builder
	err := metricsTemplate.Execute(&buf, metricCells(m))
	return buf.String(), err
}

// HandleDashboard recomputes the whole dashboard for the current filter
// selection and streams it back: the metric strip as patched HTML, the
// chart tables as signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	criteria, appErr := criteriaFromQuery(r.URL.Query())
	if appErr != nil {
		h.logger.Warn("invalid filter selection", "error", appErr)
		sse.PatchElements(invalidSelectionTemplate)
		return
	}

	ds, err := h.loader.Load(r.Context())
	if err != nil {
		h.logger.Error("load dataset", "error", err)
		sse.PatchElements(`<div id="metrics-content"><p class="no-data">Failed to load purchasing data.</p></div>`)
		return
	}

	view := h.pipeline.ApplyFilters(ds, criteria)
	if len(view) == 0 {
		sse.PatchElements(noDataTemplate)

		empty, err := json.Marshal(map[string]any{
			"noData":         true,
			"weeklyData":     []models.WeeklyVolume{},
			"weekdayData":    []models.WeekdayVolume{},
			"topDepartments": []models.AggregateRow{},
			"topCommodities": []models.AggregateRow{},
			"topVendors":     []models.AggregateRow{},
		})
		if err == nil {
			sse.PatchSignals(empty)
		}

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		return
	}

	html, err := h.renderMetrics(h.pipeline.ComputeMetrics(view))
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"noData":         false,
		"weeklyData":     h.pipeline.WeeklyVolume(view),
		"weekdayData":    h.pipeline.WeekdayVolume(view),
		"topDepartments": h.pipeline.TopNByGroup(view, models.GroupDepartmentTitle, services.DefaultTopN),
		"topCommodities": h.pipeline.TopNByGroup(view, models.GroupCommodityTitle, services.DefaultTopN),
		"topVendors":     h.pipeline.TopNByGroup(view, models.GroupVendorName, services.DefaultTopN),
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
