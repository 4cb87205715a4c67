package record

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/media"
)

type d1Expectation struct {
	contains string
	rows     []map[string]any
	status   int
	success  bool
}

func newD1TestRepo(t *testing.T, expectations []d1Expectation) *D1Repository {
	t.Helper()

	idx := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		if !strings.HasSuffix(r.URL.Path, "/query") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			SQL    string   `json:"sql"`
			Params []string `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}

		if idx >= len(expectations) {
			t.Fatalf("unexpected request for sql: %s", req.SQL)
		}

		exp := expectations[idx]
		idx++

		if !strings.Contains(req.SQL, exp.contains) {
			t.Fatalf("expected sql containing %q, got %q", exp.contains, req.SQL)
		}

		status := exp.status
		if status == 0 {
			status = http.StatusOK
		}

		w.WriteHeader(status)
		if !exp.success {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "errors": []map[string]any{{"message": "fail"}}})
			return
		}

		result := map[string]any{"success": true}
		if exp.rows != nil {
			result["results"] = exp.rows
		}

		resp := map[string]any{
			"success": true,
			"result":  []map[string]any{result},
		}

		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.D1RecordStrategy{
		AccountID:  "acc",
		DatabaseID: "db",
		APIToken:   "token",
		Endpoint:   srv.URL,
	}

	repo, err := newD1RepositoryWithClient(cfg, nil, srv.Client())
	if err != nil {
		t.Fatalf("repo init: %v", err)
	}

	return repo
}

func d1Row(id, owner, fileType string, size int64, created time.Time) map[string]any {
	return map[string]any{
		"id":              id,
		"owner_id":        owner,
		"original_name":   id + ".bin",
		"file_type":       fileType,
		"mime_type":       "image/png",
		"size_bytes":      float64(size),
		"storage_backend": "s3",
		"backend_ref":     "ref-" + id,
		"location":        "https://media.example.test/ref-" + id,
		"created_at":      created.UTC().Format(time.RFC3339Nano),
	}
}

func TestD1Repository_InsertAndFindOne(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := newD1TestRepo(t, []d1Expectation{
		{contains: "CREATE TABLE", success: true},
		{contains: "CREATE INDEX", success: true},
		{contains: "INSERT INTO", success: true},
		{contains: "SELECT id, owner_id", success: true, rows: []map[string]any{d1Row("rec-1", "owner-1", "image", 2048, created)}},
	})

	ctx := context.Background()
	rec := &media.Record{
		ID:             "rec-1",
		OwnerID:        "owner-1",
		OriginalName:   "rec-1.bin",
		FileType:       media.FileTypeImage,
		MIMEType:       "image/png",
		SizeBytes:      2048,
		StorageBackend: "s3",
		BackendRef:     "ref-rec-1",
		Location:       "https://media.example.test/ref-rec-1",
		CreatedAt:      created,
	}

	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	fetched, err := repo.FindOne(ctx, "owner-1", "rec-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if fetched.ID != "rec-1" || fetched.SizeBytes != 2048 || !fetched.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", fetched)
	}
}

func TestD1Repository_FindPage(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := newD1TestRepo(t, []d1Expectation{
		{contains: "CREATE TABLE", success: true},
		{contains: "CREATE INDEX", success: true},
		{contains: "SELECT COUNT(*)", success: true, rows: []map[string]any{{"total": float64(3)}}},
		{contains: "ORDER BY created_at DESC, id DESC", success: true, rows: []map[string]any{
			d1Row("rec-3", "owner-1", "video", 900, created.Add(2*time.Minute)),
			d1Row("rec-2", "owner-1", "image", 200, created.Add(time.Minute)),
		}},
	})

	records, total, err := repo.FindPage(context.Background(), ListFilter{OwnerID: "owner-1", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("find page failed: %v", err)
	}

	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}

	if len(records) != 2 || records[0].ID != "rec-3" || records[1].ID != "rec-2" {
		t.Fatalf("unexpected page: %+v", records)
	}
}

func TestD1Repository_FindOne_NotFound(t *testing.T) {
	repo := newD1TestRepo(t, []d1Expectation{
		{contains: "CREATE TABLE", success: true},
		{contains: "CREATE INDEX", success: true},
		{contains: "LIMIT 1", success: true, rows: []map[string]any{}},
	})

	if _, err := repo.FindOne(context.Background(), "owner-1", "missing"); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestD1Repository_DeleteByID(t *testing.T) {
	repo := newD1TestRepo(t, []d1Expectation{
		{contains: "CREATE TABLE", success: true},
		{contains: "CREATE INDEX", success: true},
		{contains: "SELECT 1", success: true, rows: []map[string]any{{"1": float64(1)}}},
		{contains: "DELETE FROM", success: true},
		{contains: "SELECT 1", success: true, rows: []map[string]any{}},
	})

	ctx := context.Background()
	if err := repo.DeleteByID(ctx, "rec-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if err := repo.DeleteByID(ctx, "rec-1"); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
}

func TestD1Repository_AggregateByType(t *testing.T) {
	repo := newD1TestRepo(t, []d1Expectation{
		{contains: "CREATE TABLE", success: true},
		{contains: "CREATE INDEX", success: true},
		{contains: "GROUP BY file_type", success: true, rows: []map[string]any{
			{"file_type": "image", "cnt": float64(3), "total_size": float64(600)},
			{"file_type": "video", "cnt": float64(2), "total_size": float64(3000)},
		}},
	})

	stats, err := repo.AggregateByType(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if stats[media.FileTypeImage] != (TypeStat{Count: 3, TotalSizeBytes: 600}) {
		t.Fatalf("unexpected image stat: %+v", stats[media.FileTypeImage])
	}

	if stats[media.FileTypeVideo] != (TypeStat{Count: 2, TotalSizeBytes: 3000}) {
		t.Fatalf("unexpected video stat: %+v", stats[media.FileTypeVideo])
	}
}

func TestD1Repository_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "errors": []map[string]any{{"code": 100, "message": "bad"}}})
	}))
	t.Cleanup(srv.Close)

	cfg := &config.D1RecordStrategy{
		AccountID:  "acc",
		DatabaseID: "db",
		APIToken:   "token",
		Endpoint:   srv.URL,
	}

	if _, err := newD1RepositoryWithClient(cfg, nil, srv.Client()); err == nil {
		t.Fatalf("expected schema failure due to api error")
	}
}
