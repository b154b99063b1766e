// Package storage persists audit results in a local SQLite database so
// successive audits of the same page can be compared over time.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wanifuchi/seonavi/pkg/schema"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS audits (
  id            INTEGER PRIMARY KEY,
  url           TEXT NOT NULL,
  domain        TEXT NOT NULL,
  score         INTEGER NOT NULL,
  item_count    INTEGER NOT NULL,
  gap_count     INTEGER NOT NULL,
  snippet_count INTEGER NOT NULL,
  result_json   TEXT NOT NULL,
  markdown      TEXT NOT NULL,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audits_url ON audits(url, created_at);
CREATE INDEX IF NOT EXISTS idx_audits_domain ON audits(domain);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Audit is one stored audit run.
type Audit struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Domain       string    `json:"domain"`
	Score        int       `json:"score"`
	ItemCount    int       `json:"item_count"`
	GapCount     int       `json:"gap_count"`
	SnippetCount int       `json:"snippet_count"`
	ResultJSON   string    `json:"result_json,omitempty"`
	Markdown     string    `json:"markdown,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaveAudit stores one audit result together with its rendered markdown and
// returns the row ID. The registrable domain is derived from the audited URL
// so history queries can group a site's pages together.
func (d *DB) SaveAudit(ctx context.Context, result *schema.AuditResult, markdown string) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("encoding audit result: %w", err)
	}

	gapCount := len(result.MissingHigh) + len(result.MissingMid) + len(result.MissingLow)

	res, err := d.sql.ExecContext(ctx, `
INSERT INTO audits (url, domain, score, item_count, gap_count, snippet_count, result_json, markdown, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.URL,
		RegistrableDomain(result.URL),
		schema.Score(result),
		len(result.Items),
		gapCount,
		len(result.Snippets),
		string(payload),
		markdown,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListOptions filters audit listings.
type ListOptions struct {
	Domain string // registrable domain, empty for all
	URL    string // exact URL, empty for all
	Limit  int    // 0 means no limit
}

func (d *DB) ListAudits(ctx context.Context, opts ListOptions) ([]Audit, error) {
	query := `SELECT id, url, domain, score, item_count, gap_count, snippet_count, created_at FROM audits`
	var (
		conds []string
		args  []any
	)
	if opts.Domain != "" {
		conds = append(conds, "domain = ?")
		args = append(args, opts.Domain)
	}
	if opts.URL != "" {
		conds = append(conds, "url = ?")
		args = append(args, opts.URL)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []Audit
	for rows.Next() {
		var a Audit
		if err := rows.Scan(&a.ID, &a.URL, &a.Domain, &a.Score, &a.ItemCount, &a.GapCount, &a.SnippetCount, &a.CreatedAt); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

// LatestByURL returns the newest stored audit for a URL, including the full
// result payload. sql.ErrNoRows when the URL was never audited.
func (d *DB) LatestByURL(ctx context.Context, url string) (*Audit, error) {
	row := d.sql.QueryRowContext(ctx, `
SELECT id, url, domain, score, item_count, gap_count, snippet_count, result_json, markdown, created_at
FROM audits WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT 1`, url)

	var a Audit
	if err := row.Scan(&a.ID, &a.URL, &a.Domain, &a.Score, &a.ItemCount, &a.GapCount, &a.SnippetCount, &a.ResultJSON, &a.Markdown, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ScoreChange is a score movement between two consecutive audits of one URL.
type ScoreChange struct {
	URL        string    `json:"url"`
	Domain     string    `json:"domain"`
	OldScore   int       `json:"old_score"`
	NewScore   int       `json:"new_score"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListScoreChanges returns the most recent score movements, newest first.
func (d *DB) ListScoreChanges(ctx context.Context, limit int) ([]ScoreChange, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT url, domain, prev_score, score, created_at FROM (
  SELECT url, domain, score, created_at,
         LAG(score) OVER (PARTITION BY url ORDER BY created_at, id) AS prev_score
  FROM audits
) WHERE prev_score IS NOT NULL AND prev_score != score
ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []ScoreChange
	for rows.Next() {
		var c ScoreChange
		if err := rows.Scan(&c.URL, &c.Domain, &c.OldScore, &c.NewScore, &c.OccurredAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// DomainStats aggregates stored audits per registrable domain.
type DomainStats struct {
	Domain     string  `json:"domain"`
	AuditCount int     `json:"audit_count"`
	AvgScore   float64 `json:"avg_score"`
	MinScore   int     `json:"min_score"`
	MaxScore   int     `json:"max_score"`
}

func (d *DB) GetStats(ctx context.Context) ([]DomainStats, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT domain, COUNT(*), AVG(score), MIN(score), MAX(score)
FROM audits GROUP BY domain ORDER BY domain`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DomainStats
	for rows.Next() {
		var s DomainStats
		if err := rows.Scan(&s.Domain, &s.AuditCount, &s.AvgScore, &s.MinScore, &s.MaxScore); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
