package health_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dalemusser/scholarhub/internal/app/features/health"
	"github.com/dalemusser/scholarhub/internal/testutil"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func serve(t *testing.T, h *health.Handler) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var body healthBody
	testutil.DecodeJSON(t, rec, &body)
	return rec.Code, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	code, body := serve(t, health.NewHandler(db.Client(), nil, zap.NewNop()))

	if code != http.StatusOK {
		t.Errorf("status code = %d, want 200", code)
	}
	if body.Status != "ok" || body.Database != "connected" || body.Redis != "" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestServe_Redis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := health.NewHandler(db.Client(), rdb, zap.NewNop())
	code, body := serve(t, h)
	if code != http.StatusOK || body.Redis != "connected" {
		t.Fatalf("with redis up: %d %+v", code, body)
	}

	mr.Close()
	code, body = serve(t, h)
	if code != http.StatusServiceUnavailable || body.Status != "error" || body.Redis != "disconnected" {
		t.Errorf("with redis down: %d %+v", code, body)
	}
	if body.Database != "connected" {
		t.Errorf("database = %q, want connected", body.Database)
	}
}
