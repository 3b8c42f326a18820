// Package alertlog persists query-degradation alerts in a local SQLite file,
// the service-side analogue of the browser-local alert log the web client
// kept. The log is diagnostic only: storage failures degrade to an empty
// log with a warning, never to a caller-visible error from List.
package alertlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS index_alerts (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	message    TEXT NOT NULL,
	index_link TEXT NOT NULL,
	path       TEXT NOT NULL,
	count      INTEGER NOT NULL DEFAULT 1,
	first_seen INTEGER NOT NULL,
	last_seen  INTEGER NOT NULL,
	details    TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_index_alerts_last_seen ON index_alerts(last_seen DESC);
`

// Store is the index-alert log. A Store whose backing file could not be
// opened still satisfies every method: Record becomes a logged no-op and
// List returns an empty slice.
type Store struct {
	db         *sql.DB
	maxEntries int
	logger     *zap.Logger
	now        func() time.Time
}

// Open opens (or creates) the alert log at path. maxEntries caps the log;
// once exceeded, entries with the oldest last_seen are evicted. Open never
// fails: an unusable backing file produces a degraded store and a warning.
func Open(path string, maxEntries int, logger *zap.Logger) *Store {
	s := &Store{
		maxEntries: maxEntries,
		logger:     logger.Named("alertlog"),
		now:        time.Now,
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		s.logger.Warn("failed to open alert log, alerts will not persist",
			zap.String("path", path), zap.Error(err))
		return s
	}

	if _, err := db.Exec(schema); err != nil {
		s.logger.Warn("failed to initialize alert log schema, alerts will not persist",
			zap.String("path", path), zap.Error(err))
		_ = db.Close()
		return s
	}

	s.db = db
	return s
}

// Close releases the backing database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts an alert by key: the first occurrence inserts with count=1
// and firstSeen=lastSeen=now; recurrences increment count and refresh
// lastSeen and message.
func (s *Store) Record(alert *models.IndexAlert) error {
	if s.db == nil {
		s.logger.Warn("alert log unavailable, dropping alert", zap.String("key", alert.Key))
		return nil
	}
	if alert.Key == "" {
		return fmt.Errorf("alert key is required")
	}

	details, err := json.Marshal(alert.Details)
	if err != nil {
		details = []byte("{}")
	}

	now := s.now().UTC()
	_, err = s.db.Exec(`
		INSERT INTO index_alerts (key, source, message, index_link, path, count, first_seen, last_seen, details)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			count = count + 1,
			last_seen = excluded.last_seen,
			message = excluded.message`,
		alert.Key, alert.Source, alert.Message, alert.IndexLink, alert.Path,
		now.UnixMilli(), now.UnixMilli(), string(details),
	)
	if err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}

	s.evict()
	return nil
}

// evict trims the log to maxEntries, dropping the entries least recently seen.
func (s *Store) evict() {
	if s.maxEntries <= 0 {
		return
	}

	_, err := s.db.Exec(`
		DELETE FROM index_alerts WHERE key NOT IN (
			SELECT key FROM index_alerts ORDER BY last_seen DESC, key LIMIT ?
		)`, s.maxEntries)
	if err != nil {
		s.logger.Warn("failed to evict old alerts", zap.Error(err))
	}
}

// List returns all alerts sorted by lastSeen descending. Storage failures
// degrade to an empty list with a logged warning.
func (s *Store) List() []*models.IndexAlert {
	if s.db == nil {
		return []*models.IndexAlert{}
	}

	rows, err := s.db.Query(`
		SELECT key, source, message, index_link, path, count, first_seen, last_seen, details
		FROM index_alerts
		ORDER BY last_seen DESC, key`)
	if err != nil {
		s.logger.Warn("failed to list alerts", zap.Error(err))
		return []*models.IndexAlert{}
	}
	defer rows.Close()

	alerts := []*models.IndexAlert{}
	for rows.Next() {
		alert := &models.IndexAlert{}
		var firstSeen, lastSeen int64
		var details string
		if err := rows.Scan(
			&alert.Key, &alert.Source, &alert.Message, &alert.IndexLink, &alert.Path,
			&alert.Count, &firstSeen, &lastSeen, &details,
		); err != nil {
			s.logger.Warn("failed to scan alert row", zap.Error(err))
			return []*models.IndexAlert{}
		}
		alert.FirstSeen = time.UnixMilli(firstSeen).UTC()
		alert.LastSeen = time.UnixMilli(lastSeen).UTC()
		if err := json.Unmarshal([]byte(details), &alert.Details); err != nil {
			alert.Details = nil
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("error iterating alerts", zap.Error(err))
		return []*models.IndexAlert{}
	}

	return alerts
}

// Dismiss removes one alert by key.
func (s *Store) Dismiss(key string) error {
	if s.db == nil {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM index_alerts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	return nil
}

// Clear removes all alerts.
func (s *Store) Clear() error {
	if s.db == nil {
		return nil
	}

	if _, err := s.db.Exec(`DELETE FROM index_alerts`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	return nil
}
