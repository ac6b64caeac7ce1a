package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	_ "modernc.org/sqlite"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/canaryerr"
)

type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the SQLite file at dbPath and creates the
// metric_set_lists table if it does not exist. The caller must call Close().
func NewSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	const stmt = `
CREATE TABLE IF NOT EXISTS metric_set_lists (
    id         TEXT PRIMARY KEY,
    account    TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_metric_set_lists_account ON metric_set_lists(account, created_at);
`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create metric_set_lists table: %w", err)
	}
	klog.V(2).Infof("SQLite migration applied")
	return nil
}

func (s *SQLite) Save(ctx context.Context, accountName string, metricSets []canary.MetricSet) (string, error) {
	body, err := json.Marshal(metricSets)
	if err != nil {
		return "", fmt.Errorf("encode metric sets: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO metric_set_lists (id, account, created_at, body) VALUES (?, ?, ?, ?)`,
		id, accountName, s.now().UTC(), string(body))
	if err != nil {
		return "", fmt.Errorf("insert metric set list: %w", err)
	}

	klog.V(4).Infof("Stored metric set list %s with %d metric sets for account %s", id, len(metricSets), accountName)
	return id, nil
}

func (s *SQLite) Load(ctx context.Context, id string) ([]canary.MetricSet, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM metric_set_lists WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, canaryerr.NotFound("Metric set list %s does not exist.", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select metric set list %s: %w", id, err)
	}

	var metricSets []canary.MetricSet
	if err := json.Unmarshal([]byte(body), &metricSets); err != nil {
		return nil, fmt.Errorf("decode metric set list %s: %w", id, err)
	}
	return metricSets, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
