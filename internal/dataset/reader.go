package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// dateLayout is the only accepted date format in the input files.
const dateLayout = "2006-01-02"

// Read loads the dataset from dataPath. If the per-entity files are present
// (users.csv as the marker) they are read directly; otherwise the combined
// dataset file is split in memory. A directory with neither input is a
// configuration error, not a data error.
func Read(dataPath string) (*Dataset, error) {
	if _, err := os.Stat(filepath.Join(dataPath, UsersFile)); err == nil {
		return ReadEntityFiles(dataPath)
	}
	combined := filepath.Join(dataPath, rawload.CombinedDatasetFile)
	if _, err := os.Stat(combined); err == nil {
		return ReadCombined(combined)
	}
	return nil, fmt.Errorf("%w: no %s or %s found in %s",
		rawload.ErrInvalidConfig, UsersFile, rawload.CombinedDatasetFile, dataPath)
}

// ReadEntityFiles reads the four per-entity CSV files from dir.
func ReadEntityFiles(dir string) (*Dataset, error) {
	ds := &Dataset{}

	users, err := readTable(filepath.Join(dir, UsersFile), parseUserRow)
	if err != nil {
		return nil, err
	}
	ds.Users = users

	plans, err := readTable(filepath.Join(dir, PlansFile), parsePlanRow)
	if err != nil {
		return nil, err
	}
	ds.Plans = plans

	subs, err := readTable(filepath.Join(dir, SubscriptionsFile), parseSubscriptionRow)
	if err != nil {
		return nil, err
	}
	ds.Subscriptions = subs

	nps, err := readTable(filepath.Join(dir, NPSFile), parseNPSRow)
	if err != nil {
		return nil, err
	}
	ds.NPS = nps

	return ds, nil
}

// record is one data row with its header index and source position.
type record struct {
	file    string
	line    int
	columns map[string]int
	fields  []string
}

// get returns the trimmed value of the named column.
func (r *record) get(name string) (string, error) {
	idx, ok := r.columns[name]
	if !ok {
		return "", r.errorf("missing column %q", name)
	}
	return strings.TrimSpace(r.fields[idx]), nil
}

// require is get plus a non-empty check.
func (r *record) require(name string) (string, error) {
	v, err := r.get(name)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", r.errorf("column %q must not be empty", name)
	}
	return v, nil
}

// date parses a required ISO-8601 date column.
func (r *record) date(name string) (time.Time, error) {
	v, err := r.require(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, r.errorf("column %q: %q is not a valid date (want YYYY-MM-DD)", name, v)
	}
	return t, nil
}

// optionalDate parses a date column that may be empty.
func (r *record) optionalDate(name string) (*time.Time, error) {
	v, err := r.get(name)
	if err != nil || v == "" {
		return nil, err
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, r.errorf("column %q: %q is not a valid date (want YYYY-MM-DD)", name, v)
	}
	return &t, nil
}

// errorf builds a data format error naming the file and 1-based line.
// The header is line 1, so the first data row reports line 2.
func (r *record) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s",
		rawload.ErrDataFormat, filepath.Base(r.file), r.line, fmt.Sprintf(format, args...))
}

// readTable streams a CSV file through parse, aborting on the first
// malformed row. A headers-only file yields an empty, valid slice.
func readTable[T any](path string, parse func(*record) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", rawload.ErrDataFormat, filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: file is empty, expected a header row",
			rawload.ErrDataFormat, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading header: %w", rawload.ErrDataFormat, filepath.Base(path), err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var rows []T
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w",
				rawload.ErrDataFormat, filepath.Base(path), line, err)
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%w: %s line %d: expected %d fields, got %d",
				rawload.ErrDataFormat, filepath.Base(path), line, len(header), len(fields))
		}

		row, err := parse(&record{file: path, line: line, columns: columns, fields: fields})
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func parseUserRow(r *record) (UserRow, error) {
	var row UserRow
	var err error

	if row.UserID, err = r.require("user_id"); err != nil {
		return row, err
	}
	if row.CreatedAt, err = r.date("created_at"); err != nil {
		return row, err
	}
	if row.Industry, err = r.get("industry"); err != nil {
		return row, err
	}
	if row.Region, err = r.get("region"); err != nil {
		return row, err
	}
	if row.SalesRep, err = r.get("sales_rep"); err != nil {
		return row, err
	}
	return row, nil
}

func parsePlanRow(r *record) (PlanRow, error) {
	var row PlanRow
	var err error

	if row.PlanID, err = r.require("plan_id"); err != nil {
		return row, err
	}
	if row.PlanName, err = r.require("plan_name"); err != nil {
		return row, err
	}
	price, err := r.require("price_usd")
	if err != nil {
		return row, err
	}
	if row.PriceUSD, err = normalizePrice(price); err != nil {
		return row, r.errorf("column %q: %v", "price_usd", err)
	}
	period, err := r.require("billing_period")
	if err != nil {
		return row, err
	}
	if period != BillingMonthly && period != BillingAnnual {
		return row, r.errorf("column %q: %q is not one of %q, %q",
			"billing_period", period, BillingMonthly, BillingAnnual)
	}
	row.BillingPeriod = period
	return row, nil
}

func parseSubscriptionRow(r *record) (SubscriptionRow, error) {
	var row SubscriptionRow
	var err error

	if row.SubscriptionID, err = r.require("subscription_id"); err != nil {
		return row, err
	}
	if row.UserID, err = r.require("user_id"); err != nil {
		return row, err
	}
	if row.PlanID, err = r.require("plan_id"); err != nil {
		return row, err
	}
	if row.StartAt, err = r.date("start_at"); err != nil {
		return row, err
	}
	if row.EndAt, err = r.optionalDate("end_at"); err != nil {
		return row, err
	}
	status, err := r.require("status")
	if err != nil {
		return row, err
	}
	if status != StatusActive && status != StatusCanceled {
		return row, r.errorf("column %q: %q is not one of %q, %q",
			"status", status, StatusActive, StatusCanceled)
	}
	row.Status = status

	reason, err := r.get("cancel_reason")
	if err != nil {
		return row, err
	}
	if reason != "" {
		row.CancelReason = &reason
	}
	return row, nil
}

func parseNPSRow(r *record) (NPSRow, error) {
	var row NPSRow
	var err error

	if row.NPSID, err = r.require("nps_id"); err != nil {
		return row, err
	}
	if row.UserID, err = r.require("user_id"); err != nil {
		return row, err
	}
	if row.SurveyAt, err = r.date("survey_at"); err != nil {
		return row, err
	}
	score, err := r.require("nps_score")
	if err != nil {
		return row, err
	}
	if row.Score, err = strconv.Atoi(score); err != nil {
		return row, r.errorf("column %q: %q is not an integer", "nps_score", score)
	}
	return row, nil
}

// normalizePrice validates a non-negative decimal amount and normalizes it
// to exactly two fraction digits, e.g. "99" -> "99.00".
func normalizePrice(v string) (string, error) {
	cents, err := parseCents(v)
	if err != nil {
		return "", err
	}
	return formatCents(cents), nil
}

// parseCents converts a decimal string into integer cents. Floats are
// avoided so prices survive the round trip into NUMERIC(10,2) exactly.
func parseCents(v string) (int64, error) {
	whole, frac, _ := strings.Cut(v, ".")
	if whole == "" || strings.HasPrefix(whole, "-") || len(frac) > 2 {
		return 0, errors.New("not a non-negative amount with at most two decimals")
	}
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errors.New("not a non-negative amount with at most two decimals")
	}
	cents := int64(0)
	if frac != "" {
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, errors.New("not a non-negative amount with at most two decimals")
		}
		if len(frac) == 1 {
			cents *= 10
		}
	}
	return dollars*100 + cents, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
