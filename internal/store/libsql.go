package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// EmbeddingDim is the dimension of stored embedding vectors
// (Cohere embed-english-v3.0).
const EmbeddingDim = 1024

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	url        TEXT NOT NULL,
	title      TEXT NOT NULL,
	og_image   TEXT NOT NULL DEFAULT '',
	favicon    TEXT NOT NULL DEFAULT '',
	summary    TEXT NOT NULL,
	content    TEXT NOT NULL,
	embedding  F32_BLOB(1024),
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	UNIQUE(user_id, url)
);
CREATE INDEX IF NOT EXISTS idx_readings_user_created ON readings(user_id, created_at);
`

type SQLStore struct {
	db *sql.DB
}

// Local sqlite: "file:./data/readlater.db" or ":memory:"
// TursoDB: "libsql://[db-name]-[org].turso.io?authToken=..."
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// enable foreign keys for SQLite
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		// Ignore error for remote TursoDB (may not support PRAGMA)
		_ = err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// returns the database connection for migrations and tests
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) CreateReading(ctx context.Context, reading *Reading) error {
	query := `
		INSERT INTO readings (id, user_id, url, title, og_image, favicon, summary, content, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		reading.ID,
		reading.UserID,
		reading.URL,
		reading.Title,
		reading.OGImage,
		reading.Favicon,
		reading.Summary,
		reading.Content,
		boolToInt(reading.IsRead),
		reading.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

const readingColumns = `id, user_id, url, title, og_image, favicon, summary, content, is_read, created_at`

func (s *SQLStore) GetReadingByID(ctx context.Context, userID, id string) (*Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE id = ? AND user_id = ?`
	return s.scanReading(s.db.QueryRowContext(ctx, query, id, userID))
}

func (s *SQLStore) GetReadingByURL(ctx context.Context, userID, url string) (*Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = ? AND url = ?`
	return s.scanReading(s.db.QueryRowContext(ctx, query, userID, url))
}

func (s *SQLStore) ListReadingsByUserID(ctx context.Context, userID string) ([]Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		reading, err := scanReadingColumns(rows.Scan)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *reading)
	}
	return readings, rows.Err()
}

func (s *SQLStore) ToggleReadingRead(ctx context.Context, userID, id string) (*Reading, error) {
	query := `UPDATE readings SET is_read = 1 - is_read WHERE id = ? AND user_id = ?`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle reading: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetReadingByID(ctx, userID, id)
}

func (s *SQLStore) DeleteReading(ctx context.Context, userID, id string) error {
	query := `DELETE FROM readings WHERE id = ? AND user_id = ?`
	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetReadingEmbedding(ctx context.Context, id string, embedding []float32) error {
	query := `UPDATE readings SET embedding = vector32(?) WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, vectorText(embedding), id)
	if err != nil {
		return fmt.Errorf("set reading embedding: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListReadingsMissingEmbedding(ctx context.Context, limit int) ([]Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE embedding IS NULL ORDER BY created_at LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings missing embedding: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		reading, err := scanReadingColumns(rows.Scan)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *reading)
	}
	return readings, rows.Err()
}

// SearchReadings runs the similarity search server-side with libsql's
// vector_distance_cos. Rows without an embedding never match.
func (s *SQLStore) SearchReadings(ctx context.Context, userID string, embedding []float32, threshold float64, limit int) ([]SearchResult, error) {
	query := `
		SELECT ` + readingColumns + `,
			(1.0 - vector_distance_cos(embedding, vector32(?))) AS similarity
		FROM readings
		WHERE user_id = ? AND embedding IS NOT NULL
			AND (1.0 - vector_distance_cos(embedding, vector32(?))) >= ?
		ORDER BY similarity DESC
		LIMIT ?
	`
	vec := vectorText(embedding)
	rows, err := s.db.QueryContext(ctx, query, vec, userID, vec, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("search readings: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var isRead int
		var createdAt string
		err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.URL,
			&r.Title,
			&r.OGImage,
			&r.Favicon,
			&r.Summary,
			&r.Content,
			&isRead,
			&createdAt,
			&r.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		r.IsRead = isRead == 1
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLStore) scanReading(row *sql.Row) (*Reading, error) {
	reading, err := scanReadingColumns(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return reading, err
}

func scanReadingColumns(scan func(dest ...any) error) (*Reading, error) {
	var reading Reading
	var isRead int
	var createdAt string

	err := scan(
		&reading.ID,
		&reading.UserID,
		&reading.URL,
		&reading.Title,
		&reading.OGImage,
		&reading.Favicon,
		&reading.Summary,
		&reading.Content,
		&isRead,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan reading: %w", err)
	}

	reading.IsRead = isRead == 1
	reading.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &reading, nil
}

// vectorText renders an embedding in the textual form vector32() accepts,
// e.g. "[0.1,0.2,0.3]".
func vectorText(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// isUniqueConstraintError checks if the error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

// boolToInt converts a boolean to SQLite integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
