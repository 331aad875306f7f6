package services

import (
	"slices"
	"time"

	"sfpurchasing/internal/config"
	"sfpurchasing/internal/models"
)

// DefaultTopN is the chart table depth.
const DefaultTopN = 10

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Pipeline derives filtered views, summary metrics, and chart-ready
// aggregate tables from a loaded dataset. Every method is a pure function
// of its inputs; the only state is the calibration baselines.
type Pipeline struct {
	baselines config.BaselinesConfig
}

func NewPipeline(baselines config.BaselinesConfig) *Pipeline {
	return &Pipeline{baselines: baselines}
}

type predicate func(models.PurchaseRecord) bool

// buildPredicates turns criteria into a conjunctive predicate list. Absent
// criteria contribute no predicate at all, so an "All ..." selection is a
// true no-op rather than an empty-string match.
func buildPredicates(c models.FilterCriteria) []predicate {
	preds := []predicate{
		func(r models.PurchaseRecord) bool { return r.DaysAfterPurchase < c.MaxDaysAfterPurchase },
	}

	if c.Department != "" {
		preds = append(preds, func(r models.PurchaseRecord) bool { return r.Department == c.Department })
	}
	if c.CommodityTitle != "" {
		preds = append(preds, func(r models.PurchaseRecord) bool { return r.CommodityTitle == c.CommodityTitle })
	}
	if c.VendorName != "" {
		preds = append(preds, func(r models.PurchaseRecord) bool { return r.VendorName == c.VendorName })
	}

	return preds
}

// ApplyFilters returns the records satisfying every active criterion, in
// dataset order. An empty result is valid and means "no data", not an error.
func (p *Pipeline) ApplyFilters(ds *models.Dataset, c models.FilterCriteria) []models.PurchaseRecord {
	preds := buildPredicates(c)

	view := make([]models.PurchaseRecord, 0, len(ds.Records))
	for _, rec := range ds.Records {
		keep := true
		for _, pred := range preds {
			if !pred(rec) {
				keep = false
				break
			}
		}
		if keep {
			view = append(view, rec)
		}
	}
	return view
}

// ComputeMetrics computes the eight summary metrics over a non-empty view.
// Callers must not invoke it on an empty view; they report the no-data
// condition instead.
//
// Deltas deviate from the fixed baselines with the original calibration
// arithmetic reproduced exactly, truncation quirks included: the commodity
// delta is a per-day rate that is never scaled back to the window, while the
// purchase and volume deltas are. All deltas are nil when the view spans
// zero days.
func (p *Pipeline) ComputeMetrics(view []models.PurchaseRecord) models.MetricSet {
	minDate := view[0].Date
	maxDate := view[0].Date

	departments := make(map[string]struct{})
	vendors := make(map[string]struct{})
	commodities := make(map[string]struct{})

	var volume float64
	highest := view[0].Price
	prices := make([]float64, 0, len(view))

	for _, rec := range view {
		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}

		departments[rec.Department] = struct{}{}
		vendors[rec.VendorName] = struct{}{}
		commodities[rec.CommodityCode] = struct{}{}

		volume += rec.Price
		if rec.Price > highest {
			highest = rec.Price
		}
		prices = append(prices, rec.Price)
	}

	count := len(view)
	mean := volume / float64(count)
	median := medianOf(prices)
	days := int(maxDate.Sub(minDate).Hours() / 24)

	var purchaseDelta, commodityDelta, volumeDelta, meanDelta, medianDelta *int
	if days > 0 {
		purchaseDelta = intPtr(int(float64(count)/float64(days)-float64(p.baselines.PurchasesPerDay)) * days)
		commodityDelta = intPtr(int(float64(len(commodities))/float64(days) - float64(p.baselines.CommoditiesPerDay)))
		volumeDelta = intPtr(int(volume/float64(days)-float64(p.baselines.SalesVolumePerDay)) * days)
		meanDelta = intPtr(int(mean - float64(p.baselines.MeanPrice)))
		medianDelta = intPtr(int(median - float64(p.baselines.MedianPrice)))
	}

	return models.MetricSet{
		PurchaseCount:   models.Metric{Label: "Total purchases made", Value: float64(count), Delta: purchaseDelta},
		DepartmentCount: models.Metric{Label: "Department count", Value: float64(len(departments))},
		VendorCount:     models.Metric{Label: "Vendor count", Value: float64(len(vendors))},
		CommodityCount:  models.Metric{Label: "Unique goods purchased", Value: float64(len(commodities)), Delta: commodityDelta},
		SalesVolume:     models.Metric{Label: "Total sales volume", Value: volume, Delta: volumeDelta},
		PriceMean:       models.Metric{Label: "Average order volume", Value: mean, Delta: meanDelta},
		PriceMedian:     models.Metric{Label: "Median order volume", Value: median, Delta: medianDelta},
		HighestSale:     models.Metric{Label: "Highest sale", Value: highest},

		StartDate:  minDate,
		EndDate:    maxDate,
		WindowDays: days,
	}
}

// TopNByGroup groups the view on field, sums price per group, and returns
// the n largest groups in descending order of total. Ties keep first-seen
// group order (stable sort over encounter order).
func (p *Pipeline) TopNByGroup(view []models.PurchaseRecord, field models.GroupField, n int) []models.AggregateRow {
	if n <= 0 {
		n = DefaultTopN
	}

	totals := make(map[string]float64)
	order := make([]string, 0)

	for _, rec := range view {
		key := groupKey(rec, field)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += rec.Price
	}

	rows := make([]models.AggregateRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, models.AggregateRow{Group: key, Total: totals[key]})
	}

	slices.SortStableFunc(rows, func(a, b models.AggregateRow) int {
		if a.Total > b.Total {
			return -1
		}
		if a.Total < b.Total {
			return 1
		}
		return 0
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func groupKey(rec models.PurchaseRecord, field models.GroupField) string {
	switch field {
	case models.GroupCommodityTitle:
		return rec.CommodityTitle
	case models.GroupVendorName:
		return rec.VendorName
	default:
		return rec.DepartmentTitle
	}
}

// WeeklyVolume sums price by ISO calendar week number, ascending. Only
// weeks present in the view appear.
func (p *Pipeline) WeeklyVolume(view []models.PurchaseRecord) []models.WeeklyVolume {
	totals := make(map[int]float64)
	for _, rec := range view {
		_, week := rec.Date.ISOWeek()
		totals[week] += rec.Price
	}

	weeks := make([]int, 0, len(totals))
	for week := range totals {
		weeks = append(weeks, week)
	}
	slices.Sort(weeks)

	rows := make([]models.WeeklyVolume, 0, len(weeks))
	for _, week := range weeks {
		rows = append(rows, models.WeeklyVolume{Week: week, Total: totals[week]})
	}
	return rows
}

// WeekdayVolume sums price by weekday with Monday = 0, ascending. Only
// weekdays present in the view appear.
func (p *Pipeline) WeekdayVolume(view []models.PurchaseRecord) []models.WeekdayVolume {
	var totals [7]float64
	var present [7]bool

	for _, rec := range view {
		wd := mondayIndexed(rec.Date)
		totals[wd] += rec.Price
		present[wd] = true
	}

	rows := make([]models.WeekdayVolume, 0, 7)
	for wd := 0; wd < 7; wd++ {
		if present[wd] {
			rows = append(rows, models.WeekdayVolume{Weekday: wd, Label: weekdayLabels[wd], Total: totals[wd]})
		}
	}
	return rows
}

// mondayIndexed maps Go's Sunday-first weekday to the Monday-first
// convention of the ISO week standard.
func mondayIndexed(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// medianOf follows the usual convention: midpoint of the two middle values
// for an even count. Mutates its argument's order.
func medianOf(prices []float64) float64 {
	slices.Sort(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return (prices[mid-1] + prices[mid]) / 2
	}
	return prices[mid]
}

func intPtr(v int) *int {
	return &v
}
