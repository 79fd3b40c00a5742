package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// ClickHouseAlertStore implements AlertStore on a MergeTree table ordered by
// (clean_ticker, ts), so ranged reads come back already sorted.
type ClickHouseAlertStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHouseAlertStore creates the store.
func NewClickHouseAlertStore(db *sql.DB, table string) domrepo.AlertStore {
	return &ClickHouseAlertStore{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *ClickHouseAlertStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseAlertStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseAlertStore) Append(ctx context.Context, a *models.Alert) error {
	var conf string
	if a.Confluence != nil {
		b, err := json.Marshal(a.Confluence.Readings)
		if err == nil {
			conf = string(b)
		}
	}
	var momentum float64
	if a.Signal.MomentumPercent != nil {
		momentum = *a.Signal.MomentumPercent
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (id, ts, ticker, clean_ticker, timeframe, category, direction, price, momentum_pct, ts_extracted, confluence) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.table)
	_, err := s.db.ExecContext(ctx, q,
		a.ID,
		a.Timestamp,
		a.Asset.Ticker,
		a.Asset.CleanTicker,
		a.Asset.Timeframe,
		string(a.Signal.Category),
		int8(a.Signal.Direction),
		a.Signal.Price,
		momentum,
		boolToUint8(a.Signal.TimestampExtracted),
		conf,
	)
	return err
}

func (s *ClickHouseAlertStore) Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.Alert, error) {
	var (
		where []string
		args  []interface{}
	)
	if ticker != "" {
		where = append(where, "clean_ticker = ?")
		args = append(args, ticker)
	}
	where = append(where, "ts >= ?", "ts <= ?")
	args = append(args, from, to)
	args = append(args, limit)

	q := fmt.Sprintf(
		"SELECT id, ts, ticker, clean_ticker, timeframe, category, direction, price, momentum_pct, ts_extracted, confluence FROM %s WHERE %s ORDER BY ts ASC LIMIT ?",
		s.table, strings.Join(where, " AND "))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse alert query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var (
			a         models.Alert
			category  string
			direction int8
			momentum  float64
			extracted uint8
			conf      string
		)
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.Asset.Ticker, &a.Asset.CleanTicker,
			&a.Asset.Timeframe, &category, &direction, &a.Signal.Price, &momentum, &extracted, &conf); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Signal.Category = models.Category(category)
		a.Signal.Direction = int(direction)
		a.Signal.TimestampExtracted = extracted != 0
		if momentum != 0 {
			m := momentum
			a.Signal.MomentumPercent = &m
		}
		if conf != "" {
			var readings [4]float64
			if err := json.Unmarshal([]byte(conf), &readings); err == nil {
				a.Confluence = &models.Confluence{Readings: readings}
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *ClickHouseAlertStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseAlertStore) Close() error {
	return nil // Managed by pkg
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
