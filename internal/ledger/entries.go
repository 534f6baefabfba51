package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "document_id, sources, output_path, raw_path, status, failure_kind, error_message, language, encoding, sentences, tokens, ignored_blocks, run_id, created_at, updated_at"

// Record stores the outcome for entry.DocumentID, replacing any earlier
// outcome for the same document. CreatedAt survives replacement.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if strings.TrimSpace(entry.DocumentID) == "" {
		return errors.New("entry document id is empty")
	}
	if entry.Status != StatusConverted && entry.Status != StatusFailed {
		return fmt.Errorf("entry status %q is not recordable", entry.Status)
	}
	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO conversions (`+entryColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(document_id) DO UPDATE SET
             sources = excluded.sources,
             output_path = excluded.output_path,
             raw_path = excluded.raw_path,
             status = excluded.status,
             failure_kind = excluded.failure_kind,
             error_message = excluded.error_message,
             language = excluded.language,
             encoding = excluded.encoding,
             sentences = excluded.sentences,
             tokens = excluded.tokens,
             ignored_blocks = excluded.ignored_blocks,
             run_id = excluded.run_id,
             updated_at = excluded.updated_at`,
		entry.DocumentID,
		string(sources),
		nullableString(entry.OutputPath),
		nullableString(entry.RawPath),
		entry.Status,
		nullableString(entry.FailureKind),
		nullableString(entry.ErrorMessage),
		nullableString(entry.Language),
		nullableString(entry.Encoding),
		entry.Sentences,
		entry.Tokens,
		entry.IgnoredBlocks,
		nullableString(entry.RunID),
		entry.CreatedAt.Format(timeLayout),
		entry.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", entry.DocumentID, err)
	}
	return nil
}

// Get fetches the entry for a document. A missing document yields nil, nil.
func (s *Store) Get(ctx context.Context, documentID string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM conversions WHERE document_id = ?`, documentID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns entries filtered by status set (or all entries when no
// status is provided), most recently updated last.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + entryColumns + ` FROM conversions`
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
	}
	query += ` ORDER BY updated_at, document_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM conversions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Clear removes entries with the given statuses, or every entry when none
// is provided. It returns the number of removed entries.
func (s *Store) Clear(ctx context.Context, statuses ...Status) (int64, error) {
	query := `DELETE FROM conversions`
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	return res.RowsAffected()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		documentID   string
		sources      string
		outputPath   sql.NullString
		rawPath      sql.NullString
		status       string
		failureKind  sql.NullString
		errorMessage sql.NullString
		language     sql.NullString
		encoding     sql.NullString
		sentences    int
		tokens       int
		ignored      int
		runID        sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&documentID,
		&sources,
		&outputPath,
		&rawPath,
		&status,
		&failureKind,
		&errorMessage,
		&language,
		&encoding,
		&sentences,
		&tokens,
		&ignored,
		&runID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		DocumentID:    documentID,
		OutputPath:    outputPath.String,
		RawPath:       rawPath.String,
		Status:        Status(status),
		FailureKind:   failureKind.String,
		ErrorMessage:  errorMessage.String,
		Language:      language.String,
		Encoding:      encoding.String,
		Sentences:     sentences,
		Tokens:        tokens,
		IgnoredBlocks: ignored,
		RunID:         runID.String,
	}
	if err := json.Unmarshal([]byte(sources), &entry.Sources); err != nil {
		return nil, fmt.Errorf("decode sources for %s: %w", documentID, err)
	}
	if created, err := time.Parse(timeLayout, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := time.Parse(timeLayout, updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
