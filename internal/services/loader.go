package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sfpurchasing/internal/config"
	"sfpurchasing/internal/errors"
	"sfpurchasing/internal/models"
	"sfpurchasing/internal/observability"
)

const (
	parseBatchSize = 10000
	parseWorkers   = 10
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Loader fetches the purchasing CSV once per process lifetime. Load is
// memoized by source URL with no eviction: the dataset is small, static,
// and read-only after construction.
type Loader struct {
	client *http.Client
	url    string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]*models.Dataset
}

func NewLoader(cfg config.DatasetConfig, logger *slog.Logger) *Loader {
	return &Loader{
		client: &http.Client{Timeout: cfg.FetchTimeout},
		url:    cfg.SourceURL,
		logger: logger,
		cache:  make(map[string]*models.Dataset),
	}
}

// Load returns the memoized dataset, fetching and parsing it on first call.
// Transport failures surface as LOAD_FAILED, unparsable rows as
// DATA_FORMAT_ERROR; in both cases nothing is cached and a later call
// retries from scratch.
func (l *Loader) Load(ctx context.Context) (*models.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ds, ok := l.cache[l.url]; ok {
		return ds, nil
	}

	start := time.Now()
	ds, err := l.fetchAndParse(ctx)
	if err != nil {
		return nil, err
	}

	l.cache[l.url] = ds
	l.logger.Info("dataset loaded",
		"source", l.url,
		"records", len(ds.Records),
		"max_date", ds.MaxDate.Format("2006-01-02"),
		"duration", time.Since(start),
	)
	return ds, nil
}

// SetDataset seeds the cache directly, bypassing the fetch. Used by tests.
func (l *Loader) SetDataset(ds *models.Dataset) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[l.url] = ds
}

func (l *Loader) fetchAndParse(ctx context.Context) (*models.Dataset, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load")
	defer span.Finish()
	span.SetTag("source.url", l.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		span.SetError(err)
		return nil, errors.LoadFailedWrap(err, "build dataset request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		span.SetError(err)
		return nil, errors.LoadFailedWrap(err, "fetch dataset")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		span.SetError(err)
		return nil, errors.LoadFailedWrap(err, "fetch dataset")
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		span.SetError(err)
		return nil, errors.DataFormatWrap(err, "read CSV header")
	}

	cols, err := columnIndex(header)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		span.SetError(err)
		return nil, errors.DataFormatWrap(err, "read CSV rows")
	}

	records, err := parseRows(ctx, rows, cols)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	ds := BuildDataset(records)
	span.SetTag("records", strconv.Itoa(len(ds.Records)))
	return ds, nil
}

// columns is the fixed schema of the processed purchasing CSV.
type columns struct {
	date, department, departmentTitle, commodityCode, commodityTitle, vendorName, price int
}

func columnIndex(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	cols := columns{}
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{"po_dt", &cols.date},
		{"department", &cols.department},
		{"department_title", &cols.departmentTitle},
		{"commodity_code", &cols.commodityCode},
		{"commodity_title", &cols.commodityTitle},
		{"vendor_name", &cols.vendorName},
		{"price", &cols.price},
	} {
		i, ok := index[c.name]
		if !ok {
			return columns{}, errors.DataFormat(fmt.Sprintf("missing column %q", c.name))
		}
		*c.dst = i
	}
	return cols, nil
}

// parseRows converts raw CSV rows in parallel batches. Row order is
// preserved; any unparsable row fails the whole load.
func parseRows(ctx context.Context, rows [][]string, cols columns) ([]models.PurchaseRecord, error) {
	records := make([]models.PurchaseRecord, len(rows))

	for offset := 0; offset < len(rows); offset += parseBatchSize {
		end := min(offset+parseBatchSize, len(rows))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parseWorkers)

		for i := offset; i < end; i++ {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				rec, err := parseRecord(rows[i], cols)
				if err != nil {
					return errors.DataFormatWrap(err, fmt.Sprintf("row %d", i+2))
				}
				records[i] = rec
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func parseRecord(row []string, cols columns) (models.PurchaseRecord, error) {
	maxCol := max(cols.date, cols.department, cols.departmentTitle,
		cols.commodityCode, cols.commodityTitle, cols.vendorName, cols.price)
	if len(row) <= maxCol {
		return models.PurchaseRecord{}, fmt.Errorf("insufficient columns: have %d", len(row))
	}

	date, err := parseDate(strings.TrimSpace(row[cols.date]))
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[cols.price]), 64)
	if err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("parse price: %w", err)
	}

	return models.PurchaseRecord{
		Date:            date,
		Department:      row[cols.department],
		DepartmentTitle: strings.TrimSpace(row[cols.departmentTitle]),
		CommodityCode:   strings.TrimSpace(row[cols.commodityCode]),
		CommodityTitle:  strings.TrimSpace(row[cols.commodityTitle]),
		VendorName:      strings.TrimSpace(row[cols.vendorName]),
		Price:           price,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", value)
}

// BuildDataset derives the recency column: days between each record's date
// and the newest date in the dataset. Zero for at least one record, never
// negative.
func BuildDataset(records []models.PurchaseRecord) *models.Dataset {
	var maxDate time.Time
	for _, rec := range records {
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}

	for i := range records {
		records[i].DaysAfterPurchase = int(maxDate.Sub(records[i].Date).Hours() / 24)
	}

	return &models.Dataset{
		Records:  records,
		MaxDate:  maxDate,
		LoadedAt: time.Now(),
	}
}

// Stats summarizes the loaded dataset for the admin endpoint.
func (l *Loader) Stats() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()

	ds, ok := l.cache[l.url]
	if !ok {
		return map[string]any{
			"source": l.url,
			"loaded": false,
		}
	}

	return map[string]any{
		"source":       l.url,
		"loaded":       true,
		"record_count": len(ds.Records),
		"max_date":     ds.MaxDate.Format("2006-01-02"),
		"loaded_at":    ds.LoadedAt,
	}
}
