// Package crawlstore reads and writes the SQLite page database produced by
// the crawling collaborator. It is an import/export surface only; planning
// itself never touches SQLite.
package crawlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"siteplan/internal/inventory"
)

// Store wraps a crawl page database.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Open opens or creates a crawl page database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve crawl db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure crawl db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open crawl db: %w", err)
	}

	store := &Store{DBPath: absPath, db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS pages (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	audit_score REAL,
	word_count INTEGER,
	internal_links INTEGER,
	external_links INTEGER,
	schema_types TEXT,
	gsc_clicks INTEGER,
	gsc_impressions INTEGER,
	gsc_position REAL,
	striking_keywords TEXT,
	cwv_assessment TEXT,
	cor_score REAL,
	dom_size_kb REAL,
	ttfb_ms REAL,
	match_confidence REAL,
	google_canonical TEXT,
	index_status TEXT
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create crawl schema: %w", err)
	}
	return nil
}

// Pages returns every crawled page as an inventory item, ordered by id.
func (s *Store) Pages() ([]inventory.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, url, audit_score, word_count, internal_links, external_links,
		       schema_types, gsc_clicks, gsc_impressions, gsc_position,
		       striking_keywords, cwv_assessment, cor_score, dom_size_kb,
		       ttfb_ms, match_confidence, google_canonical, index_status
		FROM pages ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []inventory.Item
	for rows.Next() {
		var (
			item                          inventory.Item
			auditScore, position          sql.NullFloat64
			corScore, domSize, ttfb       sql.NullFloat64
			confidence                    sql.NullFloat64
			wordCount, internal, external sql.NullInt64
			clicks, impressions           sql.NullInt64
			schemaTypes, strikingKeywords sql.NullString
			cwv, canonical, indexStatus   sql.NullString
		)

		err := rows.Scan(
			&item.ID, &item.URL, &auditScore, &wordCount, &internal, &external,
			&schemaTypes, &clicks, &impressions, &position,
			&strikingKeywords, &cwv, &corScore, &domSize,
			&ttfb, &confidence, &canonical, &indexStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}

		item.AuditScore = nullFloat(auditScore)
		item.WordCount = nullInt(wordCount)
		item.InternalLinkCount = nullInt(internal)
		item.ExternalLinkCount = nullInt(external)
		item.GSCClicks = nullInt(clicks)
		item.GSCImpressions = nullInt(impressions)
		item.GSCPosition = nullFloat(position)
		item.CORScore = nullFloat(corScore)
		item.DOMSizeKB = nullFloat(domSize)
		item.TTFBMs = nullFloat(ttfb)
		item.MatchConfidence = nullFloat(confidence)
		item.CWVAssessment = cwv.String
		item.GoogleCanonical = canonical.String
		item.IndexStatus = indexStatus.String

		if item.SchemaTypes, err = decodeStrings(schemaTypes, "schema_types", item.ID); err != nil {
			return nil, err
		}
		if item.StrikingDistanceKeywords, err = decodeStrings(strikingKeywords, "striking_keywords", item.ID); err != nil {
			return nil, err
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return items, nil
}

// UpsertPage inserts or replaces one page row.
func (s *Store) UpsertPage(item inventory.Item) error {
	if item.ID == "" {
		return fmt.Errorf("page id is required")
	}
	if item.URL == "" {
		return fmt.Errorf("page url is required")
	}

	schemaTypes, err := encodeStrings(item.SchemaTypes)
	if err != nil {
		return fmt.Errorf("encode schema_types: %w", err)
	}
	strikingKeywords, err := encodeStrings(item.StrikingDistanceKeywords)
	if err != nil {
		return fmt.Errorf("encode striking_keywords: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO pages (
			id, url, audit_score, word_count, internal_links, external_links,
			schema_types, gsc_clicks, gsc_impressions, gsc_position,
			striking_keywords, cwv_assessment, cor_score, dom_size_kb,
			ttfb_ms, match_confidence, google_canonical, index_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID, item.URL, floatArg(item.AuditScore), intArg(item.WordCount),
		intArg(item.InternalLinkCount), intArg(item.ExternalLinkCount),
		schemaTypes, intArg(item.GSCClicks), intArg(item.GSCImpressions),
		floatArg(item.GSCPosition), strikingKeywords, nullableString(item.CWVAssessment),
		floatArg(item.CORScore), floatArg(item.DOMSizeKB), floatArg(item.TTFBMs),
		floatArg(item.MatchConfidence), nullableString(item.GoogleCanonical),
		nullableString(item.IndexStatus),
	)
	if err != nil {
		return fmt.Errorf("upsert page %s: %w", item.ID, err)
	}
	return nil
}

func decodeStrings(raw sql.NullString, column, pageID string) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, fmt.Errorf("decode %s for page %s: %w", column, pageID, err)
	}
	return values, nil
}

func encodeStrings(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
