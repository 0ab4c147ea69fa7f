package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/irs990"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ irs990.SavedFilingService = (*SavedFilingService)(nil)

// SavedFilingService implements irs990.SavedFilingService using SQLite.
type SavedFilingService struct {
	db *DB
}

// NewSavedFilingService creates a new SavedFilingService.
func NewSavedFilingService(db *DB) *SavedFilingService {
	return &SavedFilingService{db: db}
}

// hashFields computes xxHash over the rendered fields in name order. Two
// extractions of the same document with the same registry hash identically.
func hashFields(fields map[string]irs990.Value) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	h := xxhash.New()
	for _, name := range names {
		h.WriteString(name)
		h.WriteString("=")
		h.WriteString(fields[name].String())
		h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// CreateSavedFiling persists a new saved filing with a generated ID,
// timestamp, and content hash. An identical extraction for the same object
// ID returns ECONFLICT.
func (s *SavedFilingService) CreateSavedFiling(ctx context.Context, f *irs990.SavedFiling) error {
	if err := f.Validate(); err != nil {
		return err
	}

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now().UTC()
	f.ContentHash = hashFields(f.Fields)

	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return err
	}

	var n int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM saved_filings WHERE object_id = ? AND content_hash = ?
	`, f.ObjectID, f.ContentHash).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return irs990.Errorf(irs990.ECONFLICT, "filing %s already saved with identical fields", f.ObjectID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_filings (id, object_id, fields, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.ObjectID, string(fields), f.ContentHash, f.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSavedFilingByID retrieves a saved filing by ID.
func (s *SavedFilingService) FindSavedFilingByID(ctx context.Context, id string) (*irs990.SavedFiling, error) {
	var f irs990.SavedFiling
	var fields, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, object_id, fields, content_hash, created_at
		FROM saved_filings
		WHERE id = ?
	`, id).Scan(&f.ID, &f.ObjectID, &fields, &f.ContentHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, irs990.Errorf(irs990.ENOTFOUND, "saved filing not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(fields), &f.Fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}
	f.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// FindSavedFilings retrieves saved filings matching the filter, newest
// first.
func (s *SavedFilingService) FindSavedFilings(ctx context.Context, filter irs990.SavedFilingFilter) ([]*irs990.SavedFiling, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, object_id, fields, content_hash, created_at FROM saved_filings WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ObjectID != nil {
		query.WriteString(" AND object_id = ?")
		args = append(args, *filter.ObjectID)
	}

	// rowid breaks ties between rows created within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filings []*irs990.SavedFiling
	for rows.Next() {
		var f irs990.SavedFiling
		var fields, createdAt string

		if err := rows.Scan(&f.ID, &f.ObjectID, &fields, &f.ContentHash, &createdAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(fields), &f.Fields); err != nil {
			return nil, fmt.Errorf("failed to parse fields: %w", err)
		}
		f.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		filings = append(filings, &f)
	}

	return filings, rows.Err()
}

// DeleteSavedFiling permanently removes a saved filing.
func (s *SavedFilingService) DeleteSavedFiling(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM saved_filings WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return irs990.Errorf(irs990.ENOTFOUND, "saved filing not found")
	}

	return nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses if the values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
