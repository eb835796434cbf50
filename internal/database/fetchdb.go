package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pagescout/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "pagescout.db"

// timeLayout stores timestamps in UTC with a fixed width so that string
// comparison in SQL matches chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// ErrNotFound is returned when no record matches a query.
var ErrNotFound = errors.New("record not found")

// FetchDB is the fetch history store.
type FetchDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures FetchDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the database in dbDir.
func Open(dbDir string, opts Options) (*FetchDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("database not found at %s: %w", dbPath, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		mode = "rw"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FetchDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return fdb, nil
}

// Path returns the database file path.
func (fdb *FetchDB) Path() string {
	return fdb.dbPath
}

// Close closes the database connection.
func (fdb *FetchDB) Close() error {
	return fdb.db.Close()
}

func (fdb *FetchDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		final_url TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		content_type TEXT NOT NULL DEFAULT '',
		charset TEXT NOT NULL DEFAULT '',
		encoding TEXT NOT NULL DEFAULT '',
		bytes INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		decision_reason TEXT NOT NULL DEFAULT '',
		backend TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);

	CREATE TABLE IF NOT EXISTS links (
		fetch_id INTEGER NOT NULL REFERENCES fetches(id),
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (fetch_id, position)
	);
	`
	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// FetchRecord is a stored fetch.
type FetchRecord struct {
	ID             int64
	URL            string
	FinalURL       string
	FetchedAt      time.Time
	StatusCode     int
	ContentType    string
	Charset        string
	Encoding       string
	Bytes          int
	Elapsed        time.Duration
	Error          string
	DecisionReason string
	Backend        string

	// Links is filled by GetFetch and LatestFetch only.
	Links []string
}

// recordFromResult flattens a fetch result into a record. URLs are stored
// redacted so credentials never reach the database.
func recordFromResult(r *model.FetchResult, backend string, links []string) FetchRecord {
	rec := FetchRecord{
		FetchedAt:      time.Now(),
		Elapsed:        r.Elapsed(),
		DecisionReason: r.DecisionReason,
		Backend:        backend,
		Links:          links,
	}
	if r.URI != nil {
		rec.URL = r.URI.Redacted()
	}
	if r.RequestStarted != nil {
		rec.FetchedAt = *r.RequestStarted
	}
	if r.Request != nil && r.Request.FinalURL != nil {
		rec.FinalURL = r.Request.FinalURL.Redacted()
	}
	if r.Response != nil {
		rec.StatusCode = r.Response.StatusCode
		rec.ContentType = r.ContentType()
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	if r.Content != nil {
		rec.Charset = r.Content.Charset
		rec.Encoding = r.Content.EncodingName
		rec.Bytes = r.Content.Size()
	}
	return rec
}

// SaveFetch stores a fetch result together with its extracted links and
// returns the new record ID.
func (fdb *FetchDB) SaveFetch(ctx context.Context, r *model.FetchResult, backend string, links []string) (int64, error) {
	if r == nil {
		return 0, errors.New("nil fetch result")
	}
	rec := recordFromResult(r, backend, links)

	tx, err := fdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO fetches (url, final_url, fetched_at, status_code, content_type, charset,
		encoding, bytes, elapsed_ms, error, decision_reason, backend)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.URL,
		rec.FinalURL,
		rec.FetchedAt.UTC().Format(timeLayout),
		rec.StatusCode,
		rec.ContentType,
		rec.Charset,
		rec.Encoding,
		rec.Bytes,
		rec.Elapsed.Milliseconds(),
		rec.Error,
		rec.DecisionReason,
		rec.Backend,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert fetch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read fetch id: %w", err)
	}

	for i, link := range rec.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (fetch_id, position, url) VALUES (?, ?, ?)`, id, i, link); err != nil {
			return 0, fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit fetch: %w", err)
	}
	return id, nil
}

const selectFetch = `
	SELECT id, url, final_url, fetched_at, status_code, content_type, charset,
		encoding, bytes, elapsed_ms, error, decision_reason, backend
	FROM fetches`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (FetchRecord, error) {
	var (
		rec       FetchRecord
		fetchedAt string
		elapsedMs int64
	)
	err := row.Scan(
		&rec.ID,
		&rec.URL,
		&rec.FinalURL,
		&fetchedAt,
		&rec.StatusCode,
		&rec.ContentType,
		&rec.Charset,
		&rec.Encoding,
		&rec.Bytes,
		&elapsedMs,
		&rec.Error,
		&rec.DecisionReason,
		&rec.Backend,
	)
	if err != nil {
		return FetchRecord{}, err
	}
	rec.FetchedAt = parseTimestamp(fetchedAt)
	rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return rec, nil
}

// GetFetch returns the record with the given ID, including its links.
// It returns ErrNotFound when no such record exists.
func (fdb *FetchDB) GetFetch(ctx context.Context, id int64) (*FetchRecord, error) {
	return fdb.getOne(ctx, selectFetch+` WHERE id = ?`, id)
}

// LatestFetch returns the most recent record for url, including its links.
// It returns ErrNotFound when url was never saved.
func (fdb *FetchDB) LatestFetch(ctx context.Context, url string) (*FetchRecord, error) {
	return fdb.getOne(ctx, selectFetch+` WHERE url = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`, url)
}

func (fdb *FetchDB) getOne(ctx context.Context, query string, args ...any) (*FetchRecord, error) {
	rec, err := scanRecord(fdb.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch: %w", err)
	}

	rec.Links, err = fdb.links(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (fdb *FetchDB) links(ctx context.Context, fetchID int64) ([]string, error) {
	rows, err := fdb.db.QueryContext(ctx,
		`SELECT url FROM links WHERE fetch_id = ? ORDER BY position`, fetchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := []string{}
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// FetchHistory returns the records for url, newest first, without links.
// A limit of zero or less returns every record.
func (fdb *FetchDB) FetchHistory(ctx context.Context, url string, limit int) ([]FetchRecord, error) {
	query := selectFetch + ` WHERE url = ? ORDER BY fetched_at DESC, id DESC`
	args := []any{url}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := fdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch history: %w", err)
	}
	defer rows.Close()

	var records []FetchRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// URLSummary is one row of ListURLs.
type URLSummary struct {
	URL       string
	Fetches   int
	LastFetch time.Time
}

// ListURLs returns every saved URL with its fetch count, ordered by URL.
func (fdb *FetchDB) ListURLs(ctx context.Context) ([]URLSummary, error) {
	rows, err := fdb.db.QueryContext(ctx, `
	SELECT url, COUNT(*), MAX(fetched_at) FROM fetches
	GROUP BY url
	ORDER BY url`)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var summaries []URLSummary
	for rows.Next() {
		var (
			s    URLSummary
			last string
		)
		if err := rows.Scan(&s.URL, &s.Fetches, &last); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		s.LastFetch = parseTimestamp(last)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored UTC timestamp. It returns the zero time
// when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
