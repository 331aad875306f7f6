package services

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"sfpurchasing/internal/config"
	"sfpurchasing/internal/errors"
)

const validCSV = `po_dt,department,department_title,commodity_code,commodity_title,vendor_name,price
2023-05-15,AIR,Airport Commission,425,FURNITURE: OFFICE,ZONES LLC,100.50
2023-05-05,AIR,Airport Commission,425,FURNITURE: OFFICE,MEDLINE INDUSTRIES INC,50
2023-04-05,POL,Police,680,POLICE AND PRISON EQUIPMENT AND SUPPLIES,GALLS LLC QUARTERMASTER LLC,200
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestLoader(url string) *Loader {
	return NewLoader(config.DatasetConfig{
		SourceURL:    url,
		FetchTimeout: 5 * time.Second,
	}, testLogger())
}

func TestLoader_Load(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validCSV))
	}))
	defer ts.Close()

	l := newTestLoader(ts.URL)
	ds, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(ds.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ds.Records))
	}

	wantMax := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	if !ds.MaxDate.Equal(wantMax) {
		t.Errorf("MaxDate = %v, want %v", ds.MaxDate, wantMax)
	}

	for i, want := range []int{0, 10, 40} {
		if got := ds.Records[i].DaysAfterPurchase; got != want {
			t.Errorf("record %d: DaysAfterPurchase = %d, want %d", i, got, want)
		}
	}

	if ds.Records[0].Price != 100.50 {
		t.Errorf("record 0 price = %v, want 100.50", ds.Records[0].Price)
	}
	if ds.Records[2].VendorName != "GALLS LLC QUARTERMASTER LLC" {
		t.Errorf("record 2 vendor = %q", ds.Records[2].VendorName)
	}
}

func TestLoader_LoadMemoized(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(validCSV))
	}))
	defer ts.Close()

	l := newTestLoader(ts.URL)

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("first Load() failed: %v", err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}

	if first != second {
		t.Error("Load() should return the same Dataset instance")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("source fetched %d times, want 1", got)
	}
}

func TestLoader_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	l := newTestLoader(ts.URL)
	_, err := l.Load(context.Background())
	assertErrorCode(t, err, errors.CodeLoadFailed)
}

func TestLoader_UnreachableSource(t *testing.T) {
	// Closed server: connection refused.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	l := newTestLoader(url)
	_, err := l.Load(context.Background())
	assertErrorCode(t, err, errors.CodeLoadFailed)
}

func TestLoader_BadDate(t *testing.T) {
	csv := `po_dt,department,department_title,commodity_code,commodity_title,vendor_name,price
not-a-date,AIR,Airport Commission,425,FURNITURE: OFFICE,ZONES LLC,100
`
	l := serveCSV(t, csv)
	_, err := l.Load(context.Background())
	assertErrorCode(t, err, errors.CodeDataFormat)
}

func TestLoader_BadPrice(t *testing.T) {
	csv := `po_dt,department,department_title,commodity_code,commodity_title,vendor_name,price
2023-05-15,AIR,Airport Commission,425,FURNITURE: OFFICE,ZONES LLC,not-a-price
`
	l := serveCSV(t, csv)
	_, err := l.Load(context.Background())
	assertErrorCode(t, err, errors.CodeDataFormat)
}

func TestLoader_PartialDatasetNotKept(t *testing.T) {
	// One good row followed by one broken row: the whole load fails and
	// nothing is cached.
	csv := `po_dt,department,department_title,commodity_code,commodity_title,vendor_name,price
2023-05-15,AIR,Airport Commission,425,FURNITURE: OFFICE,ZONES LLC,100
bad-date,POL,Police,680,POLICE AND PRISON EQUIPMENT AND SUPPLIES,GALLS LLC QUARTERMASTER LLC,200
`
	l := serveCSV(t, csv)
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected load failure")
	}

	stats := l.Stats()
	if stats["loaded"] != false {
		t.Error("a failed load must not leave a partial dataset behind")
	}
}

func TestLoader_MissingColumn(t *testing.T) {
	csv := `po_dt,department,commodity_code,commodity_title,vendor_name,price
2023-05-15,AIR,425,FURNITURE: OFFICE,ZONES LLC,100
`
	l := serveCSV(t, csv)
	_, err := l.Load(context.Background())
	assertErrorCode(t, err, errors.CodeDataFormat)
}

func TestLoader_TimestampDates(t *testing.T) {
	csv := `po_dt,department,department_title,commodity_code,commodity_title,vendor_name,price
2023-05-15 00:00:00,AIR,Airport Commission,425,FURNITURE: OFFICE,ZONES LLC,100
`
	l := serveCSV(t, csv)
	ds, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(ds.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds.Records))
	}
}

func TestLoader_Stats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validCSV))
	}))
	defer ts.Close()

	l := newTestLoader(ts.URL)

	stats := l.Stats()
	if stats["loaded"] != false {
		t.Error("Stats() before Load() should report loaded=false")
	}

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	stats = l.Stats()
	if stats["loaded"] != true {
		t.Error("Stats() after Load() should report loaded=true")
	}
	if stats["record_count"] != 3 {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
}

func serveCSV(t *testing.T, csv string) *Loader {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	t.Cleanup(ts.Close)
	return newTestLoader(ts.URL)
}

func assertErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("error code = %s, want %s", appErr.Code, code)
	}
}
