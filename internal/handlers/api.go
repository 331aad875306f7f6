package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sfpurchasing/internal/errors"
	"sfpurchasing/internal/models"
	"sfpurchasing/internal/observability"
	"sfpurchasing/internal/refdata"
	"sfpurchasing/internal/services"
)

const cacheControl = "public, max-age=300"

// NoDataMessage is shown when the active filters leave no records. It is a
// valid terminal state, not an error.
const NoDataMessage = "No data available. Please filter differently."

type noDataPayload struct {
	NoData  bool   `json:"no_data"`
	Message string `json:"message"`
}

var noData = noDataPayload{NoData: true, Message: NoDataMessage}

type dashboardPayload struct {
	Metrics        models.MetricSet       `json:"metrics"`
	WeeklyVolume   []models.WeeklyVolume  `json:"weekly_volume"`
	WeekdayVolume  []models.WeekdayVolume `json:"weekday_volume"`
	TopDepartments []models.AggregateRow  `json:"top_departments"`
	TopCommodities []models.AggregateRow  `json:"top_commodities"`
	TopVendors     []models.AggregateRow  `json:"top_vendors"`
}

type departmentOption struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type filtersPayload struct {
	TimeWindows []int              `json:"time_windows"`
	Departments []departmentOption `json:"departments"`
	Commodities []string           `json:"commodities"`
	Vendors     []string           `json:"vendors"`
}

type APIHandlers struct {
	loader   *services.Loader
	pipeline *services.Pipeline
	logger   *slog.Logger
}

func NewAPIHandlers(loader *services.Loader, pipeline *services.Pipeline, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		loader:   loader,
		pipeline: pipeline,
		logger:   logger,
	}
}

// filteredView resolves the dataset and applies the request's filters. On
// failure it writes the error response and reports !ok.
func (h *APIHandlers) filteredView(w http.ResponseWriter, r *http.Request) ([]models.PurchaseRecord, bool) {
	requestID := observability.GetRequestID(r.Context())

	criteria, appErr := criteriaFromQuery(r.URL.Query())
	if appErr != nil {
		errors.WriteError(w, h.logger, appErr, requestID)
		return nil, false
	}

	ds, err := h.loader.Load(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	return h.pipeline.ApplyFilters(ds, criteria), true
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}

	if len(view) == 0 {
		errors.WriteSuccess(w, noData)
		return
	}

	payload := dashboardPayload{
		Metrics:        h.pipeline.ComputeMetrics(view),
		WeeklyVolume:   h.pipeline.WeeklyVolume(view),
		WeekdayVolume:  h.pipeline.WeekdayVolume(view),
		TopDepartments: h.pipeline.TopNByGroup(view, models.GroupDepartmentTitle, services.DefaultTopN),
		TopCommodities: h.pipeline.TopNByGroup(view, models.GroupCommodityTitle, services.DefaultTopN),
		TopVendors:     h.pipeline.TopNByGroup(view, models.GroupVendorName, services.DefaultTopN),
	}

	errors.WriteSuccess(w, payload)
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}

	if len(view) == 0 {
		errors.WriteSuccess(w, noData)
		return
	}

	errors.WriteSuccess(w, h.pipeline.ComputeMetrics(view))
}

func (h *APIHandlers) HandleTopDepartments(w http.ResponseWriter, r *http.Request) {
	h.handleTopN(w, r, models.GroupDepartmentTitle)
}

func (h *APIHandlers) HandleTopCommodities(w http.ResponseWriter, r *http.Request) {
	h.handleTopN(w, r, models.GroupCommodityTitle)
}

func (h *APIHandlers) HandleTopVendors(w http.ResponseWriter, r *http.Request) {
	h.handleTopN(w, r, models.GroupVendorName)
}

func (h *APIHandlers) handleTopN(w http.ResponseWriter, r *http.Request, field models.GroupField) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}

	if len(view) == 0 {
		errors.WriteSuccess(w, noData)
		return
	}

	data := h.pipeline.TopNByGroup(view, field, services.DefaultTopN)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleWeeklyVolume(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}

	if len(view) == 0 {
		errors.WriteSuccess(w, noData)
		return
	}

	errors.WriteSuccessWithHeaders(w, h.pipeline.WeeklyVolume(view), map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleWeekdayVolume(w http.ResponseWriter, r *http.Request) {
	view, ok := h.filteredView(w, r)
	if !ok {
		return
	}

	if len(view) == 0 {
		errors.WriteSuccess(w, noData)
		return
	}

	errors.WriteSuccessWithHeaders(w, h.pipeline.WeekdayVolume(view), map[string]string{"Cache-Control": cacheControl})
}

// HandleFilters serves the static selector option lists.
func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	options := filtersPayload{
		TimeWindows: refdata.TimeWindows(),
		Commodities: refdata.Commodities(),
		Vendors:     refdata.Vendors(),
	}

	codes := refdata.Departments()
	for _, name := range refdata.DepartmentNames() {
		options.Departments = append(options.Departments, departmentOption{Name: name, Code: codes[name]})
	}

	errors.WriteSuccessWithHeaders(w, options, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.loader.Stats())
}
