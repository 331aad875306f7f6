package models

import "time"

// PurchaseRecord is one row of the purchasing dataset. Immutable after load.
type PurchaseRecord struct {
	Date              time.Time
	Department        string // department code, e.g. "AIR"
	DepartmentTitle   string
	CommodityCode     string
	CommodityTitle    string
	VendorName        string
	Price             float64
	DaysAfterPurchase int // days between Date and the newest date in the dataset
}

// Dataset is the full loaded table plus load metadata. Read-only after
// construction, safe to share across requests without locking.
type Dataset struct {
	Records  []PurchaseRecord
	MaxDate  time.Time
	LoadedAt time.Time
}

// FilterCriteria narrows the dataset to a view. Empty string fields mean
// "no filter" (the "All ..." selector choices).
type FilterCriteria struct {
	MaxDaysAfterPurchase int
	Department           string // department code
	CommodityTitle       string
	VendorName           string
}

// Metric is one labeled dashboard figure. Delta is the deviation from a
// fixed historical baseline; nil when no baseline applies or the filtered
// window spans zero days.
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Delta *int    `json:"delta,omitempty"`
}

// MetricSet holds the eight summary metrics for a filtered view, plus the
// date range the view spans.
type MetricSet struct {
	PurchaseCount   Metric `json:"purchase_count"`
	DepartmentCount Metric `json:"department_count"`
	VendorCount     Metric `json:"vendor_count"`
	CommodityCount  Metric `json:"commodity_count"`
	SalesVolume     Metric `json:"sales_volume"`
	PriceMean       Metric `json:"price_mean"`
	PriceMedian     Metric `json:"price_median"`
	HighestSale     Metric `json:"highest_sale"`

	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	WindowDays int       `json:"window_days"`
}

// GroupField selects the grouping key for top-N aggregation.
type GroupField string

const (
	GroupDepartmentTitle GroupField = "department_title"
	GroupCommodityTitle  GroupField = "commodity_title"
	GroupVendorName      GroupField = "vendor_name"
)

// AggregateRow is one entry of a ranked (group, summed price) table.
type AggregateRow struct {
	Group string  `json:"group"`
	Total float64 `json:"total"`
}

// WeeklyVolume is summed price for one ISO calendar week.
type WeeklyVolume struct {
	Week  int     `json:"week"`
	Total float64 `json:"total"`
}

// WeekdayVolume is summed price for one weekday, 0 = Monday.
type WeekdayVolume struct {
	Weekday int     `json:"weekday"`
	Label   string  `json:"label"`
	Total   float64 `json:"total"`
}
