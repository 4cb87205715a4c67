package record

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	cloudflare "github.com/cloudflare/cloudflare-go/v6"
	cfd1 "github.com/cloudflare/cloudflare-go/v6/d1"
	"github.com/cloudflare/cloudflare-go/v6/option"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/media"
	storageutil "github.com/indieinfra/mediavault/storage/util"
)

// D1Repository persists media records in Cloudflare D1 via the HTTP API.
// It mirrors the schema of SQLRepository to keep parity across backends;
// timestamps are stored as RFC 3339 strings, which sort correctly under
// SQLite's text ordering.
type D1Repository struct {
	cfg    *config.D1RecordStrategy
	client *cloudflare.Client
	table  string
}

// NewD1Repository builds a repository and ensures the schema exists.
func NewD1Repository(cfg *config.D1RecordStrategy, tablePrefix *string) (*D1Repository, error) {
	return newD1RepositoryWithClient(cfg, tablePrefix, nil)
}

// newD1RepositoryWithClient creates a D1 repository with a custom HTTP
// client. This is used for testing to inject a mock server.
func newD1RepositoryWithClient(cfg *config.D1RecordStrategy, tablePrefix *string, httpClient *http.Client) (*D1Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("records d1 config is nil")
	}

	prefix := "mediavault"
	if tablePrefix != nil {
		prefix = *tablePrefix
	}

	repo := &D1Repository{
		cfg:    cfg,
		client: buildD1Client(cfg, httpClient),
		table:  storageutil.DeriveTableName(prefix, "records"),
	}

	if err := repo.initSchema(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// buildD1Client creates a Cloudflare client configured with API token and
// optional custom endpoint. The httpClient parameter is used for testing;
// pass nil for production use.
func buildD1Client(cfg *config.D1RecordStrategy, httpClient *http.Client) *cloudflare.Client {
	opts := []option.RequestOption{option.WithAPIToken(strings.TrimSpace(cfg.APIToken))}

	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	if base := strings.TrimSpace(cfg.Endpoint); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}

	return cloudflare.NewClient(opts...)
}

// initSchema ensures the records table exists. This also serves as a health
// check, validating connectivity and authentication.
func (r *D1Repository) initSchema(ctx context.Context) error {
	if _, err := r.executeQuery(ctx, r.schemaQuery(), nil); err != nil {
		return fmt.Errorf("d1 initialization failed (check account_id, database_id, and api_token): %w", err)
	}

	if _, err := r.executeQuery(ctx, r.indexQuery(), nil); err != nil {
		return fmt.Errorf("d1 index creation failed: %w", err)
	}

	return nil
}

func (r *D1Repository) schemaQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id TEXT PRIMARY KEY,
owner_id TEXT NOT NULL,
original_name TEXT NOT NULL,
file_type TEXT NOT NULL,
mime_type TEXT NOT NULL,
size_bytes INTEGER NOT NULL,
storage_backend TEXT NOT NULL,
backend_ref TEXT NOT NULL,
location TEXT NOT NULL,
created_at TEXT NOT NULL
)`, r.table)
}

func (r *D1Repository) indexQuery() string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_owner_type_created ON %s (owner_id, file_type, created_at)",
		r.table, r.table,
	)
}

func (r *D1Repository) insertQuery() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", r.table, recordColumns)
}

func (r *D1Repository) selectPageQuery(withType bool) string {
	where := "owner_id = ?"
	if withType {
		where += " AND file_type = ?"
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		recordColumns, r.table, where,
	)
}

func (r *D1Repository) countQuery(withType bool) string {
	where := "owner_id = ?"
	if withType {
		where += " AND file_type = ?"
	}

	return fmt.Sprintf("SELECT COUNT(*) AS total FROM %s WHERE %s", r.table, where)
}

func (r *D1Repository) selectOneQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE owner_id = ? AND id = ? LIMIT 1", recordColumns, r.table)
}

func (r *D1Repository) existsQuery() string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", r.table)
}

func (r *D1Repository) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
}

func (r *D1Repository) aggregateQuery() string {
	return fmt.Sprintf(
		"SELECT file_type, COUNT(*) AS cnt, COALESCE(SUM(size_bytes), 0) AS total_size FROM %s WHERE owner_id = ? GROUP BY file_type",
		r.table,
	)
}

func (r *D1Repository) Insert(ctx context.Context, rec *media.Record) error {
	_, err := r.executeQuery(ctx, r.insertQuery(), []any{
		rec.ID,
		rec.OwnerID,
		rec.OriginalName,
		string(rec.FileType),
		rec.MIMEType,
		rec.SizeBytes,
		rec.StorageBackend,
		rec.BackendRef,
		rec.Location,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	})

	return err
}

func (r *D1Repository) FindPage(ctx context.Context, filter ListFilter) ([]*media.Record, int64, error) {
	filter.normalize()

	args := []any{filter.OwnerID}
	if filter.FileType != nil {
		args = append(args, string(*filter.FileType))
	}

	countRows, err := r.executeQuery(ctx, r.countQuery(filter.FileType != nil), args)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if len(countRows) > 0 {
		total, err = intColumn(countRows[0], "total")
		if err != nil {
			return nil, 0, err
		}
	}

	pageArgs := append(args, filter.Limit, filter.Offset())
	rows, err := r.executeQuery(ctx, r.selectPageQuery(filter.FileType != nil), pageArgs)
	if err != nil {
		return nil, 0, err
	}

	records := make([]*media.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}

	return records, total, nil
}

func (r *D1Repository) FindOne(ctx context.Context, ownerID, id string) (*media.Record, error) {
	rows, err := r.executeQuery(ctx, r.selectOneQuery(), []any{ownerID, id})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, media.ErrNotFound
	}

	return rowToRecord(rows[0])
}

func (r *D1Repository) DeleteByID(ctx context.Context, id string) error {
	// D1 query results do not carry affected-row counts, so existence is
	// checked first to distinguish not-found from success.
	rows, err := r.executeQuery(ctx, r.existsQuery(), []any{id})
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return media.ErrNotFound
	}

	_, err = r.executeQuery(ctx, r.deleteQuery(), []any{id})
	return err
}

func (r *D1Repository) AggregateByType(ctx context.Context, ownerID string) (map[media.FileType]TypeStat, error) {
	rows, err := r.executeQuery(ctx, r.aggregateQuery(), []any{ownerID})
	if err != nil {
		return nil, err
	}

	stats := make(map[media.FileType]TypeStat)
	for _, row := range rows {
		fileType, _ := row["file_type"].(string)

		count, err := intColumn(row, "cnt")
		if err != nil {
			return nil, err
		}

		totalSize, err := intColumn(row, "total_size")
		if err != nil {
			return nil, err
		}

		stats[media.FileType(fileType)] = TypeStat{Count: count, TotalSizeBytes: totalSize}
	}

	return stats, nil
}

// rowToRecord converts one D1 result row into a media record.
func rowToRecord(row map[string]any) (*media.Record, error) {
	sizeBytes, err := intColumn(row, "size_bytes")
	if err != nil {
		return nil, err
	}

	rawCreated, _ := row["created_at"].(string)
	createdAt, err := time.Parse(time.RFC3339Nano, rawCreated)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", rawCreated, err)
	}

	fileType, _ := row["file_type"].(string)

	return &media.Record{
		ID:             stringColumn(row, "id"),
		OwnerID:        stringColumn(row, "owner_id"),
		OriginalName:   stringColumn(row, "original_name"),
		FileType:       media.FileType(fileType),
		MIMEType:       stringColumn(row, "mime_type"),
		SizeBytes:      sizeBytes,
		StorageBackend: stringColumn(row, "storage_backend"),
		BackendRef:     stringColumn(row, "backend_ref"),
		Location:       stringColumn(row, "location"),
		CreatedAt:      createdAt,
	}, nil
}

func stringColumn(row map[string]any, name string) string {
	s, _ := row[name].(string)
	return s
}

// intColumn reads a numeric column that D1 may return as a JSON number or a
// string.
func intColumn(row map[string]any, name string) (int64, error) {
	switch v := row[name].(type) {
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s is not an integer: %w", name, err)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected type %T for column %s", v, name)
	}
}

// executeQuery sends a SQL query to the D1 database and returns the result
// rows. Returns nil rows (no error) when the query succeeds but produces no
// results.
func (r *D1Repository) executeQuery(ctx context.Context, sql string, params []any) ([]map[string]any, error) {
	body := cfd1.DatabaseQueryParamsBodyD1SingleQuery{Sql: cloudflare.F(sql)}
	if len(params) > 0 {
		body.Params = cloudflare.F(convertParams(params))
	}

	resp, err := r.client.D1.Database.Query(ctx, r.cfg.DatabaseID, cfd1.DatabaseQueryParams{
		AccountID: cloudflare.F(strings.TrimSpace(r.cfg.AccountID)),
		Body:      body,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Result) == 0 {
		return nil, nil
	}

	result := resp.Result[0]
	if !result.Success {
		return nil, fmt.Errorf("d1 query execution failed")
	}

	rows := make([]map[string]any, 0, len(result.Results))
	for _, raw := range result.Results {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected row type %T", raw)
		}
		rows = append(rows, m)
	}

	return rows, nil
}

// convertParams converts query parameters to D1's string-based parameter
// format. Booleans become "1"/"0"; everything else uses Sprint.
func convertParams(params []any) []string {
	if len(params) == 0 {
		return nil
	}

	out := make([]string, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case bool:
			if v {
				out = append(out, "1")
			} else {
				out = append(out, "0")
			}
		default:
			out = append(out, fmt.Sprint(p))
		}
	}

	return out
}
