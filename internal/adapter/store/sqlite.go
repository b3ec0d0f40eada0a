// Package store persists event reports in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/irenelivia/DakarNowcasting/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS cold_pool_reports (
	id               TEXT PRIMARY KEY,
	station          TEXT NOT NULL,
	sample_index     INTEGER NOT NULL,
	passage_time     TEXT NOT NULL,
	temperature_drop REAL NOT NULL,
	temperature_pre  REAL NOT NULL,
	rainfall_sum     REAL NOT NULL,
	rainfall_max     REAL NOT NULL,
	pressure_rise    REAL,
	wind_gust        REAL,
	detected_at      TEXT NOT NULL
)`

const insertStmt = `
INSERT OR IGNORE INTO cold_pool_reports
	(id, station, sample_index, passage_time, temperature_drop, temperature_pre,
	 rainfall_sum, rainfall_max, pressure_rise, wind_gust, detected_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store writes reports to a SQLite table, once per report ID.
// It implements pipeline.ReportSink.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file if needed and ensures the schema exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	s, err := NewWithDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing database handle, creating the schema if needed.
func NewWithDB(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create report schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Name identifies this sink in logs and metrics.
func (s *Store) Name() string { return "store" }

// Store inserts the reports in one transaction. Re-runs over the same series
// produce the same IDs, which INSERT OR IGNORE silently skips.
func (s *Store) Store(ctx context.Context, reports []domain.Report) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStmt)
	if err != nil {
		return fmt.Errorf("prepare report insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		_, err := stmt.ExecContext(ctx,
			r.ID,
			r.Station,
			r.Index,
			r.Time.Format(time.RFC3339),
			r.TemperatureDrop,
			r.TemperaturePre,
			r.RainfallSum,
			r.RainfallMax,
			nullable(r.PressureRise),
			nullable(r.WindGust),
			r.DetectedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert report %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report transaction: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("reports stored", "count", len(reports))
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
