package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/media"
	storageutil "github.com/indieinfra/mediavault/storage/util"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

const recordColumns = "id, owner_id, original_name, file_type, mime_type, size_bytes, storage_backend, backend_ref, location, created_at"

// SQLRepository persists media records in Postgres or MySQL over
// database/sql. MySQL DSNs must enable parseTime so created_at scans into
// time.Time.
type SQLRepository struct {
	cfg         *config.SqlRecordStrategy
	db          *sql.DB
	table       string
	placeholder placeholderStyle
}

func NewSQLRepository(cfg *config.SqlRecordStrategy, tablePrefix *string) (*SQLRepository, error) {
	repo, err := newSQLRepositoryWithDB(cfg, tablePrefix, nil)
	if err != nil {
		return nil, err
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	repo.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return repo, nil
}

func newSQLRepositoryWithDB(cfg *config.SqlRecordStrategy, tablePrefix *string, db *sql.DB) (*SQLRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("records sql config is nil")
	}

	prefix := "mediavault"
	if tablePrefix != nil {
		prefix = *tablePrefix
	}

	placeholder, err := detectPlaceholderStyle(cfg.Driver)
	if err != nil {
		return nil, err
	}

	return &SQLRepository{
		cfg:         cfg,
		db:          db,
		table:       storageutil.DeriveTableName(prefix, "records"),
		placeholder: placeholder,
	}, nil
}

func detectPlaceholderStyle(driver string) (placeholderStyle, error) {
	driverName, err := resolveSQLDriverName(driver)
	if err != nil {
		return placeholderQuestion, err
	}

	if driverName == "pgx" {
		return placeholderDollar, nil
	}

	return placeholderQuestion, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (r *SQLRepository) initSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.schemaQuery()); err != nil {
		return err
	}

	// MySQL declares the index inline; Postgres needs a second statement.
	if r.placeholder == placeholderDollar {
		if _, err := r.db.ExecContext(ctx, r.indexQuery()); err != nil {
			return err
		}
	}

	return nil
}

func (r *SQLRepository) schemaQuery() string {
	if r.placeholder == placeholderQuestion {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(36) PRIMARY KEY,
owner_id VARCHAR(191) NOT NULL,
original_name TEXT NOT NULL,
file_type VARCHAR(8) NOT NULL,
mime_type VARCHAR(64) NOT NULL,
size_bytes BIGINT NOT NULL,
storage_backend VARCHAR(16) NOT NULL,
backend_ref TEXT NOT NULL,
location TEXT NOT NULL,
created_at TIMESTAMP NOT NULL,
KEY %s_owner_type_created (owner_id, file_type, created_at)
)`, r.table, r.table)
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(36) PRIMARY KEY,
owner_id VARCHAR(191) NOT NULL,
original_name TEXT NOT NULL,
file_type VARCHAR(8) NOT NULL,
mime_type VARCHAR(64) NOT NULL,
size_bytes BIGINT NOT NULL,
storage_backend VARCHAR(16) NOT NULL,
backend_ref TEXT NOT NULL,
location TEXT NOT NULL,
created_at TIMESTAMP NOT NULL
)`, r.table)
}

func (r *SQLRepository) indexQuery() string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_owner_type_created ON %s (owner_id, file_type, created_at)",
		r.table, r.table,
	)
}

func (r *SQLRepository) Insert(ctx context.Context, rec *media.Record) error {
	_, err := r.db.ExecContext(ctx, r.insertQuery(),
		rec.ID,
		rec.OwnerID,
		rec.OriginalName,
		string(rec.FileType),
		rec.MIMEType,
		rec.SizeBytes,
		rec.StorageBackend,
		rec.BackendRef,
		rec.Location,
		rec.CreatedAt.UTC(),
	)

	return err
}

func (r *SQLRepository) FindPage(ctx context.Context, filter ListFilter) ([]*media.Record, int64, error) {
	filter.normalize()

	args := []any{filter.OwnerID}
	if filter.FileType != nil {
		args = append(args, string(*filter.FileType))
	}

	var total int64
	row := r.db.QueryRowContext(ctx, r.countQuery(filter.FileType != nil), args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(args, filter.Limit, filter.Offset())
	rows, err := r.db.QueryContext(ctx, r.selectPageQuery(filter.FileType != nil), pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*media.Record, 0, filter.Limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *SQLRepository) FindOne(ctx context.Context, ownerID, id string) (*media.Record, error) {
	row := r.db.QueryRowContext(ctx, r.selectOneQuery(), ownerID, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, media.ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

func (r *SQLRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.deleteQuery(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return media.ErrNotFound
	}

	return nil
}

func (r *SQLRepository) AggregateByType(ctx context.Context, ownerID string) (map[media.FileType]TypeStat, error) {
	rows, err := r.db.QueryContext(ctx, r.aggregateQuery(), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[media.FileType]TypeStat)
	for rows.Next() {
		var fileType string
		var stat TypeStat
		if err := rows.Scan(&fileType, &stat.Count, &stat.TotalSizeBytes); err != nil {
			return nil, err
		}
		stats[media.FileType(fileType)] = stat
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*media.Record, error) {
	var rec media.Record
	var fileType string

	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.OriginalName,
		&fileType,
		&rec.MIMEType,
		&rec.SizeBytes,
		&rec.StorageBackend,
		&rec.BackendRef,
		&rec.Location,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.FileType = media.FileType(fileType)
	return &rec, nil
}

func (r *SQLRepository) insertQuery() string {
	placeholders := make([]string, 10)
	for i := range placeholders {
		placeholders[i] = r.placeholderFor(i + 1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.table, recordColumns, strings.Join(placeholders, ", "),
	)
}

func (r *SQLRepository) selectPageQuery(withType bool) string {
	next := 1
	where := fmt.Sprintf("owner_id = %s", r.placeholderFor(next))
	next++

	if withType {
		where += fmt.Sprintf(" AND file_type = %s", r.placeholderFor(next))
		next++
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY created_at DESC, id DESC LIMIT %s OFFSET %s",
		recordColumns, r.table, where, r.placeholderFor(next), r.placeholderFor(next+1),
	)
}

func (r *SQLRepository) countQuery(withType bool) string {
	where := fmt.Sprintf("owner_id = %s", r.placeholderFor(1))
	if withType {
		where += fmt.Sprintf(" AND file_type = %s", r.placeholderFor(2))
	}

	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.table, where)
}

func (r *SQLRepository) selectOneQuery() string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE owner_id = %s AND id = %s",
		recordColumns, r.table, r.placeholderFor(1), r.placeholderFor(2),
	)
}

func (r *SQLRepository) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", r.table, r.placeholderFor(1))
}

func (r *SQLRepository) aggregateQuery() string {
	return fmt.Sprintf(
		"SELECT file_type, COUNT(*), COALESCE(SUM(size_bytes), 0) FROM %s WHERE owner_id = %s GROUP BY file_type",
		r.table, r.placeholderFor(1),
	)
}

func (r *SQLRepository) placeholderFor(index int) string {
	if r.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", index)
	}

	return "?"
}
