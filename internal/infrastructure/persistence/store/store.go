// Package store implements the generic embedded object store: named
// collections of JSON documents with secondary indexes, bulk writes and
// whole-collection export/clear, independent of the domain model.
//
// Each collection is one SQLite table (id TEXT PRIMARY KEY, doc TEXT, one
// column per declared index). Concurrent writers to the same collection are
// serialized; every read returns an independent copy of the stored document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/alacena/v2/pkg/errors"
)

// IndexSpec declares a secondary index over a top-level document field.
// The Name doubles as the JSON field the value is extracted from.
type IndexSpec struct {
	Name   string
	Unique bool
}

// CollectionSpec declares a named collection and its secondary indexes
type CollectionSpec struct {
	Name    string
	Indexes []IndexSpec
}

// Store is the embedded store handle. Construct one per process (or per
// test) and pass it around explicitly; there is no package-level singleton.
type Store struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *Metrics

	mu      sync.Mutex
	specs   map[string]CollectionSpec
	writers map[string]*sync.Mutex
}

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Open opens (or creates) the embedded store at path. An empty path selects
// an in-memory store. Open failure is reported as StorageUnavailable and is
// not retried.
func Open(path string, logger *zap.Logger, metrics *Metrics) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	// A single connection keeps same-collection writers strictly ordered
	// and keeps an in-memory database alive.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	sqlDB.SetMaxOpenConns(1)

	logger.Info("Embedded store opened",
		zap.String("path", dsn),
		zap.Bool("in_memory", dsn == ":memory:"),
	)

	return &Store{
		db:      db,
		logger:  logger.Named("store"),
		metrics: metrics,
		specs:   make(map[string]CollectionSpec),
		writers: make(map[string]*sync.Mutex),
	}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema creates any missing collections and indexes. It is idempotent
// and safe against an already-populated store: existing tables, columns and
// indexes are left untouched, only missing ones are created. A column added
// for a new index is backfilled from the stored documents.
func (s *Store) EnsureSchema(specs ...CollectionSpec) error {
	for _, spec := range specs {
		if !identPattern.MatchString(spec.Name) {
			return apperrors.NewValidationError(fmt.Sprintf("invalid collection name %q", spec.Name))
		}

		createSQL := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc TEXT NOT NULL)",
			spec.Name,
		)
		if err := s.db.Exec(createSQL).Error; err != nil {
			return apperrors.NewStorageError("create collection "+spec.Name, err)
		}

		existing, err := s.tableColumns(spec.Name)
		if err != nil {
			return err
		}

		for _, idx := range spec.Indexes {
			if !identPattern.MatchString(idx.Name) {
				return apperrors.NewValidationError(fmt.Sprintf("invalid index name %q", idx.Name))
			}

			col := indexColumn(idx.Name)
			if !existing[col] {
				alterSQL := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", spec.Name, col)
				if err := s.db.Exec(alterSQL).Error; err != nil {
					return apperrors.NewStorageError("add index column "+col, err)
				}
				if err := s.backfillIndex(spec.Name, idx.Name); err != nil {
					return err
				}
			}

			unique := ""
			if idx.Unique {
				unique = "UNIQUE "
			}
			indexSQL := fmt.Sprintf(
				"CREATE %sINDEX IF NOT EXISTS ix_%s_%s ON %s (%s)",
				unique, spec.Name, idx.Name, spec.Name, col,
			)
			if err := s.db.Exec(indexSQL).Error; err != nil {
				return apperrors.NewStorageError("create index "+idx.Name, err)
			}
		}

		s.mu.Lock()
		s.specs[spec.Name] = spec
		if _, ok := s.writers[spec.Name]; !ok {
			s.writers[spec.Name] = &sync.Mutex{}
		}
		s.mu.Unlock()
	}

	return nil
}

// Collection returns a handle for a declared collection. The collection must
// have been declared through EnsureSchema first.
func (s *Store) Collection(name string) (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.specs[name]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("collection %q is not declared", name))
	}
	return &Collection{store: s, spec: spec, writer: s.writers[name]}, nil
}

// tableColumns returns the set of column names for a table
func (s *Store) tableColumns(table string) (map[string]bool, error) {
	type columnInfo struct {
		Name string
	}
	var cols []columnInfo
	if err := s.db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)).Scan(&cols).Error; err != nil {
		return nil, apperrors.NewStorageError("inspect collection "+table, err)
	}

	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[c.Name] = true
	}
	return set, nil
}

// backfillIndex populates a freshly added index column from existing docs
func (s *Store) backfillIndex(table, index string) error {
	type row struct {
		ID  string
		Doc string
	}
	var rows []row
	if err := s.db.Raw(fmt.Sprintf("SELECT id, doc FROM %s", table)).Scan(&rows).Error; err != nil {
		return apperrors.NewStorageError("backfill index "+index, err)
	}

	col := indexColumn(index)
	for _, r := range rows {
		value := extractIndexValue(json.RawMessage(r.Doc), index)
		updateSQL := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, col)
		if err := s.db.Exec(updateSQL, value, r.ID).Error; err != nil {
			return apperrors.NewStorageError("backfill index "+index, err)
		}
	}
	return nil
}

// Collection is a handle over one named collection
type Collection struct {
	store  *Store
	spec   CollectionSpec
	writer *sync.Mutex
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.spec.Name
}

// Put inserts or replaces a document by primary key and returns the stored
// form. A unique-index collision is reported as a constraint violation.
func (c *Collection) Put(ctx context.Context, id string, doc any) (json.RawMessage, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("document requires an identifier")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewValidationError("document is not serializable").WithCause(err)
	}

	c.writer.Lock()
	defer c.writer.Unlock()

	err = c.upsert(ctx, id, data)
	c.observe("put", err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// upsert writes one document without taking the writer lock
func (c *Collection) upsert(ctx context.Context, id string, data json.RawMessage) error {
	columns := []string{"id", "doc"}
	args := []any{id, string(data)}
	updates := []string{"doc=excluded.doc"}

	for _, idx := range c.spec.Indexes {
		col := indexColumn(idx.Name)
		columns = append(columns, col)
		args = append(args, extractIndexValue(data, idx.Name))
		updates = append(updates, fmt.Sprintf("%s=excluded.%s", col, col))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		c.spec.Name,
		strings.Join(columns, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	if err := c.store.db.WithContext(ctx).Exec(sql, args...).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConstraintViolationError(
				fmt.Sprintf("duplicate value for a unique index in %s", c.spec.Name),
			).WithCause(err).WithMetadata("id", id)
		}
		return apperrors.NewStorageError("write to "+c.spec.Name, err)
	}
	return nil
}

// Get fetches a document by id. A miss is a nil result, not an error.
func (c *Collection) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var doc string
	tx := c.store.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", c.spec.Name), id).
		Scan(&doc)
	c.observe("get", tx.Error)
	if tx.Error != nil {
		return nil, apperrors.NewStorageError("read from "+c.spec.Name, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return json.RawMessage(doc), nil
}

// GetAll returns a full snapshot of the collection in insertion order
func (c *Collection) GetAll(ctx context.Context) ([]json.RawMessage, error) {
	var docs []string
	err := c.store.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT doc FROM %s ORDER BY rowid", c.spec.Name)).
		Scan(&docs).Error
	c.observe("getAll", err)
	if err != nil {
		return nil, apperrors.NewStorageError("read from "+c.spec.Name, err)
	}

	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out, nil
}

// GetByIndex returns all documents whose indexed field equals value
func (c *Collection) GetByIndex(ctx context.Context, index string, value any) ([]json.RawMessage, error) {
	declared := false
	for _, idx := range c.spec.Indexes {
		if idx.Name == index {
			declared = true
			break
		}
	}
	if !declared {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("index %q is not declared on collection %s", index, c.spec.Name),
		)
	}

	var docs []string
	err := c.store.db.WithContext(ctx).
		Raw(
			fmt.Sprintf("SELECT doc FROM %s WHERE %s = ? ORDER BY rowid", c.spec.Name, indexColumn(index)),
			indexValueString(value),
		).
		Scan(&docs).Error
	c.observe("getByIndex", err)
	if err != nil {
		return nil, apperrors.NewStorageError("read from "+c.spec.Name, err)
	}

	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out, nil
}

// Delete removes a document by id. Deleting an absent id is not an error.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.writer.Lock()
	defer c.writer.Unlock()

	err := c.store.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.spec.Name), id).Error
	c.observe("delete", err)
	if err != nil {
		return apperrors.NewStorageError("delete from "+c.spec.Name, err)
	}
	return nil
}

// Clear removes every document in the collection
func (c *Collection) Clear(ctx context.Context) error {
	c.writer.Lock()
	defer c.writer.Unlock()

	err := c.store.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s", c.spec.Name)).Error
	c.observe("clear", err)
	if err != nil {
		return apperrors.NewStorageError("clear "+c.spec.Name, err)
	}
	return nil
}

// Count returns the number of documents in the collection
func (c *Collection) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.store.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", c.spec.Name)).
		Scan(&n).Error
	c.observe("count", err)
	if err != nil {
		return 0, apperrors.NewStorageError("count "+c.spec.Name, err)
	}
	return n, nil
}

// BulkItem is one document in a bulk write
type BulkItem struct {
	ID  string
	Doc any
}

// BulkError reports one failed item of a bulk write by input position
type BulkError struct {
	Position int
	ID       string
	Err      error
}

func (e BulkError) Error() string {
	return fmt.Sprintf("item %d (%s): %v", e.Position, e.ID, e.Err)
}

// BulkPut inserts or replaces many documents in one call. Semantics are
// best-effort, not all-or-nothing: an individual item's failure does not
// revert items already written by the same call. Returns the written count
// and one error per failed item.
func (c *Collection) BulkPut(ctx context.Context, items []BulkItem) (int, []BulkError) {
	c.writer.Lock()
	defer c.writer.Unlock()

	written := 0
	var failures []BulkError

	for i, item := range items {
		if item.ID == "" {
			failures = append(failures, BulkError{
				Position: i,
				Err:      apperrors.NewValidationError("document requires an identifier"),
			})
			continue
		}

		data, err := json.Marshal(item.Doc)
		if err != nil {
			failures = append(failures, BulkError{
				Position: i,
				ID:       item.ID,
				Err:      apperrors.NewValidationError("document is not serializable").WithCause(err),
			})
			continue
		}

		if err := c.upsert(ctx, item.ID, data); err != nil {
			failures = append(failures, BulkError{Position: i, ID: item.ID, Err: err})
			continue
		}
		written++
	}

	var status error
	if len(failures) > 0 {
		status = failures[0].Err
	}
	c.observe("bulkPut", status)
	return written, failures
}

func (c *Collection) observe(operation string, err error) {
	if c.store.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.store.metrics.Observe(c.spec.Name, operation, status)
}

// indexColumn maps an index name to its backing column
func indexColumn(index string) string {
	return "idx_" + index
}

// extractIndexValue pulls the indexed top-level field out of a document.
// Missing or null fields index as NULL.
func extractIndexValue(doc json.RawMessage, field string) any {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil
	}
	v, ok := m[field]
	if !ok || v == nil {
		return nil
	}
	return indexValueString(v)
}

// indexValueString renders an index value the way it is stored: as text
func indexValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// isUniqueViolation reports whether err is a unique-index collision
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
