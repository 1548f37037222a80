// ABOUTME: Repository for schemaless table records
// ABOUTME: Fields are stored as JSON objects; updates merge into existing fields
package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidFields  = errors.New("invalid fields")
)

// RecordIDPrefix starts every generated record id.
const RecordIDPrefix = "rec"

type Record struct {
	ID          string
	Table       string
	Fields      map[string]any
	CreatedTime time.Time
}

// Filter selects records whose field equals value. A zero Filter matches all.
type Filter struct {
	Field string
	Value string
}

type RecordsRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecordsRepository(db *sql.DB) *RecordsRepository {
	return &RecordsRepository{db: db, now: time.Now}
}

// NewRecordID returns a fresh, time-ordered record id.
func NewRecordID(t time.Time) string {
	return RecordIDPrefix + ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// List returns the records of table in creation order.
func (r *RecordsRepository) List(ctx context.Context, table string, filter Filter) ([]Record, error) {
	query := `
		SELECT id, table_name, fields, created_time
		FROM records
		WHERE table_name = ?
	`
	args := []any{table}
	if filter.Field != "" {
		query += ` AND json_extract(fields, ?) = ?`
		args = append(args, jsonPath(filter.Field), filter.Value)
	}
	query += ` ORDER BY created_time, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get retrieves one record of table by id.
func (r *RecordsRepository) Get(ctx context.Context, table, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, table_name, fields, created_time
		FROM records
		WHERE table_name = ? AND id = ?
	`, table, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

// Create inserts a record with a generated id.
func (r *RecordsRepository) Create(ctx context.Context, table string, fields map[string]any) (Record, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}

	now := r.now().UTC()
	rec := Record{
		ID:          NewRecordID(now),
		Table:       table,
		Fields:      fields,
		CreatedTime: now,
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (id, table_name, fields, created_time, updated_time)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, table, string(encoded), now, now)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create record: %w", err)
	}
	return rec, nil
}

// Update merges patch into the record's fields. Fields not named in patch keep
// their values.
func (r *RecordsRepository) Update(ctx context.Context, table, id string, patch map[string]any) (Record, error) {
	rec, err := r.Get(ctx, table, id)
	if err != nil {
		return Record{}, err
	}

	for k, v := range patch {
		rec.Fields[k] = v
	}
	encoded, err := json.Marshal(rec.Fields)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE records SET fields = ?, updated_time = ?
		WHERE table_name = ? AND id = ?
	`, string(encoded), r.now().UTC(), table, id)
	if err != nil {
		return Record{}, fmt.Errorf("failed to update record: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var fieldsJSON string
	if err := s.Scan(&rec.ID, &rec.Table, &fieldsJSON, &rec.CreatedTime); err != nil {
		return Record{}, err
	}
	rec.Fields = map[string]any{}
	if fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			return Record{}, fmt.Errorf("failed to decode fields of %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}
