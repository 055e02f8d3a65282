package data

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/posturelab/pm-go/model"
)

type sqliteService struct {
	conn *sql.DB
}

// NewSQLite opens (and migrates, if needed) the readings database.
func NewSQLite(dbPath string) (IService, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The monitor is the single writer; one connection keeps sqlite happy.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	svc := &sqliteService{conn: conn}
	if err := svc.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return svc, nil
}

func (svc *sqliteService) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posture_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		observed_at DATETIME NOT NULL,
		label TEXT NOT NULL,
		confidence REAL NOT NULL,
		is_good INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posture_readings_observed_at
		ON posture_readings(observed_at);

	CREATE TABLE IF NOT EXISTS monitor_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		processor TEXT NOT NULL,
		message TEXT NOT NULL,
		detail TEXT
	);

	CREATE TABLE IF NOT EXISTS component_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		component TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	`
	_, err := svc.conn.Exec(schema)
	return err
}

func (svc *sqliteService) AppendReading(reading model.Reading, isGood bool) error {
	_, err := svc.conn.Exec(
		"INSERT INTO posture_readings (observed_at, label, confidence, is_good) VALUES (?, ?, ?, ?)",
		reading.ObservedAt.UTC(), reading.Label, reading.Confidence, boolToInt(isGood),
	)
	if err != nil {
		return fmt.Errorf("failed to append reading: %w", err)
	}
	return nil
}

func (svc *sqliteService) RetrieveReadingsSince(since time.Time) ([]model.StoredReading, error) {
	rows, err := svc.conn.Query(
		"SELECT observed_at, label, confidence, is_good FROM posture_readings WHERE observed_at > ? ORDER BY observed_at",
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve readings: %w", err)
	}
	defer rows.Close()

	readings := []model.StoredReading{}
	for rows.Next() {
		var r model.StoredReading
		var isGood int
		if err := rows.Scan(&r.ObservedAt, &r.Label, &r.Confidence, &isGood); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.IsGood = isGood != 0
		readings = append(readings, r)
	}

	return readings, rows.Err()
}

func (svc *sqliteService) NewError(err interface{}) error {
	processor := "unknown"
	message := fmt.Sprintf("%v", err)
	detail := ""

	if custom, ok := err.(model.CustomError); ok {
		processor = custom.Processor
		message = custom.Message
		if custom.Inner != nil {
			detail = custom.Inner.Error()
		}
	}

	_, dbErr := svc.conn.Exec(
		"INSERT INTO monitor_errors (created_at, processor, message, detail) VALUES (?, ?, ?, ?)",
		time.Now().UTC(), processor, message, detail,
	)
	return dbErr
}

func (svc *sqliteService) NewMonitorStats(stats model.MonitorStats) error {
	return svc.insertStats("monitor", stats)
}

func (svc *sqliteService) NewFramerStats(stats model.FramerStats) error {
	return svc.insertStats("framer", stats)
}

func (svc *sqliteService) NewSchedulerStats(stats model.SchedulerStats) error {
	return svc.insertStats("scheduler", stats)
}

func (svc *sqliteService) NewAlerterStats(stats model.AlerterStats) error {
	return svc.insertStats("alerter", stats)
}

func (svc *sqliteService) NewAlertEngineStats(stats model.AlertEngineStats) error {
	return svc.insertStats("alertengine", stats)
}

func (svc *sqliteService) insertStats(component string, stats interface{}) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal %s stats: %w", component, err)
	}

	_, err = svc.conn.Exec(
		"INSERT INTO component_stats (created_at, component, payload) VALUES (?, ?, ?)",
		time.Now().UTC(), component, string(payload),
	)
	return err
}

func (svc *sqliteService) Close() error {
	return svc.conn.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
