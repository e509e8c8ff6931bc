// Package loader implements the load workflow: read and validate the CSV
// input, ensure the raw schema, and upsert the four raw tables in foreign
// key dependency order, one transaction per table.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/rawload/internal/dataset"
	"github.com/vvka-141/rawload/internal/db"
	"github.com/vvka-141/rawload/internal/schema"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// LoadService orchestrates dataset loads. It implements rawload.Loader.
//
// The service is stateless across runs; all per-run state lives in the
// LoadConfig and the returned LoadReport.
type LoadService struct {
	connector rawload.Connector
	logger    rawload.Logger
}

// NewLoadService creates a LoadService with the given dependencies.
// Panics if any dependency is nil (fail-fast on wiring errors).
func NewLoadService(connector rawload.Connector, logger rawload.Logger) *LoadService {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{connector: connector, logger: logger}
}

// Run executes a load. The input is read and validated in full before the
// first row is written, so a malformed CSV never leaves a half-loaded
// table behind. Tables already loaded when a later table fails keep their
// rows; each table is atomic, the run as a whole is not.
func (s *LoadService) Run(ctx context.Context, config rawload.LoadConfig) (*rawload.LoadReport, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	report := &rawload.LoadReport{
		RunID:    uuid.New(),
		Database: config.DatabaseName,
		Started:  time.Now(),
	}

	s.logger.Info("Reading dataset from %s", config.DataPath)
	ds, err := dataset.Read(config.DataPath)
	if err != nil {
		return nil, err
	}
	s.dedupe(ds)

	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if err := s.execute(ctx, db.NewPoolAdapter(pool), config, ds, report); err != nil {
		return nil, err
	}
	return report, nil
}

// execute runs the database half of a load against an established
// connection: schema assurance, skip/truncate handling, the four table
// loads, count verification, and the run log watermark.
func (s *LoadService) execute(ctx context.Context, conn rawload.DBConnection,
	config rawload.LoadConfig, ds *dataset.Dataset, report *rawload.LoadReport) error {

	s.logger.Verbose("Ensuring raw schema")
	if err := schema.Ensure(ctx, conn); err != nil {
		return err
	}

	if config.ForceReload {
		s.logger.Info("Force reload requested, truncating raw tables")
		if err := schema.Truncate(ctx, conn); err != nil {
			return err
		}
	} else {
		loaded, err := hasData(ctx, conn)
		if err != nil {
			return err
		}
		if loaded {
			s.logger.Info("Data already loaded, skipping (set FORCE_RELOAD=1 to reload)")
			report.Skipped = true
			if report.Tables, err = countAll(ctx, conn); err != nil {
				return err
			}
			report.Finished = time.Now()
			return nil
		}
	}

	// Referenced tables first so the FK constraints on subscriptions and
	// nps always see their targets.
	var err error
	counts := make(map[string]int64, 4)
	counts[rawload.TableUsers], err = loadRows(ctx, conn, rawload.TableUsers, upsertUserSQL,
		ds.Users, func(r dataset.UserRow) []any {
			return []any{r.UserID, r.CreatedAt, r.Industry, r.Region, r.SalesRep}
		})
	if err != nil {
		return err
	}
	counts[rawload.TablePlans], err = loadRows(ctx, conn, rawload.TablePlans, upsertPlanSQL,
		ds.Plans, func(r dataset.PlanRow) []any {
			return []any{r.PlanID, r.PlanName, r.PriceUSD, r.BillingPeriod}
		})
	if err != nil {
		return err
	}
	counts[rawload.TableSubscriptions], err = loadRows(ctx, conn, rawload.TableSubscriptions, upsertSubscriptionSQL,
		ds.Subscriptions, func(r dataset.SubscriptionRow) []any {
			return []any{r.SubscriptionID, r.UserID, r.PlanID, r.StartAt, r.EndAt, r.Status, r.CancelReason}
		})
	if err != nil {
		return err
	}
	counts[rawload.TableNPS], err = loadRows(ctx, conn, rawload.TableNPS, upsertNPSSQL,
		ds.NPS, func(r dataset.NPSRow) []any {
			return []any{r.NPSID, r.UserID, r.SurveyAt, r.Score}
		})
	if err != nil {
		return err
	}

	if report.Tables, err = countAll(ctx, conn); err != nil {
		return err
	}
	for i := range report.Tables {
		report.Tables[i].Loaded = counts[report.Tables[i].Table]
	}

	if _, err := conn.Exec(ctx, upsertRunLogSQL, rawload.PipelineName, report.RunID); err != nil {
		return fmt.Errorf("failed to record run in raw_etl_run_log: %w", err)
	}

	report.Finished = time.Now()
	s.logger.Info("Loaded %d rows across %d tables in %s",
		report.TotalLoaded(), len(report.Tables), report.Duration().Round(time.Millisecond))
	return nil
}

// dedupe resolves primary key collisions within one file: the last
// occurrence wins, matching what sequential upserts would produce anyway
// but keeping per-table counts honest.
func (s *LoadService) dedupe(ds *dataset.Dataset) {
	ds.Users = dedupeLast(s.logger, rawload.TableUsers, ds.Users,
		func(r dataset.UserRow) string { return r.UserID })
	ds.Plans = dedupeLast(s.logger, rawload.TablePlans, ds.Plans,
		func(r dataset.PlanRow) string { return r.PlanID })
	ds.Subscriptions = dedupeLast(s.logger, rawload.TableSubscriptions, ds.Subscriptions,
		func(r dataset.SubscriptionRow) string { return r.SubscriptionID })
	ds.NPS = dedupeLast(s.logger, rawload.TableNPS, ds.NPS,
		func(r dataset.NPSRow) string { return r.NPSID })
}

func dedupeLast[T any](logger rawload.Logger, table string, rows []T, key func(T) string) []T {
	index := make(map[string]int, len(rows))
	out := rows[:0]
	dropped := 0
	for _, row := range rows {
		k := key(row)
		if at, seen := index[k]; seen {
			out[at] = row
			dropped++
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	if dropped > 0 {
		logger.Verbose("%s: %d duplicate key(s) in input, keeping last occurrence", table, dropped)
	}
	return out
}

// loadRows upserts one table inside a single transaction. The first
// failing row rolls the whole table back.
func loadRows[T any](ctx context.Context, conn rawload.DBConnection, table, sql string,
	rows []T, args func(T) []any) (int64, error) {

	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx, sql, args(row)...); err != nil {
			return 0, classifyLoadError(table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, classifyLoadError(table, err)
	}
	return int64(len(rows)), nil
}

// hasData reports whether a previous run populated raw_users.
func hasData(ctx context.Context, conn rawload.DBConnection) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, anyUsersSQL).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for existing data: %w", err)
	}
	return exists, nil
}

// countAll returns the post-load row counts in load order.
func countAll(ctx context.Context, conn rawload.DBConnection) ([]rawload.TableCount, error) {
	tables := []string{rawload.TableUsers, rawload.TablePlans, rawload.TableSubscriptions, rawload.TableNPS}
	counts := make([]rawload.TableCount, 0, len(tables))
	for _, table := range tables {
		n, err := schema.CountRows(ctx, conn, table)
		if err != nil {
			return nil, err
		}
		counts = append(counts, rawload.TableCount{Table: table, Total: n})
	}
	return counts, nil
}

// classifyLoadError maps constraint violations (SQLSTATE class 23, e.g. a
// subscription referencing an unknown user) to rawload.ErrIntegrity so they
// exit with the integrity code instead of the generic one.
func classifyLoadError(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		detail := pgErr.Message
		if pgErr.Detail != "" {
			detail += " (" + pgErr.Detail + ")"
		}
		return fmt.Errorf("%w: %s: %s", rawload.ErrIntegrity, table, detail)
	}
	return fmt.Errorf("failed to load %s: %w", table, err)
}

var _ rawload.Loader = (*LoadService)(nil)
