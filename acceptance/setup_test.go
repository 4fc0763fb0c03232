package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elan19/vteam/api"
	"github.com/elan19/vteam/city"
	"github.com/elan19/vteam/internal/o11y"
	"github.com/elan19/vteam/migrations"
	"github.com/elan19/vteam/rental"
	"github.com/elan19/vteam/scooter"
	"github.com/elan19/vteam/user"
	"github.com/elan19/vteam/zone"
)

// testSchedule keeps the arithmetic in scenarios easy to follow.
var testSchedule = rental.Schedule{UnlockFeeCents: 0, PerMinuteCents: 10}

type TestServer struct {
	DB     *sqlx.DB
	Router *gin.Engine
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping acceptance tests")
	}

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	cleanupTestData(t, db)

	ur := user.NewRepository(db)
	sr := scooter.NewRepository(db)
	zr := zone.NewRepository(db)
	cr := city.NewRepository(db)
	rr := rental.NewRepository(db)
	lc := rental.NewLifecycle(rr, testSchedule)

	obs := &o11y.Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	}

	a := api.New(ur, sr, zr, cr, rr, lc, obs, api.Config{
		MetricsUsername: "metrics",
		MetricsPassword: "metrics",
	})

	return &TestServer{DB: db, Router: a.Router()}
}

func (ts *TestServer) Close() {
	ts.DB.Close()
}

func cleanupTestData(t *testing.T, db *sqlx.DB) {
	t.Helper()

	// Delete in order of dependencies.
	for _, table := range []string{"rental_sessions", "zones", "scooters", "users", "cities"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Logf("warning: failed to clean %s: %v", table, err)
		}
	}
}

func (ts *TestServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) GET(path string) *httptest.ResponseRecorder {
	return ts.do(http.MethodGet, path, nil)
}

func (ts *TestServer) POST(path string, body any) *httptest.ResponseRecorder {
	return ts.do(http.MethodPost, path, body)
}

func (ts *TestServer) PUT(path string, body any) *httptest.ResponseRecorder {
	return ts.do(http.MethodPut, path, body)
}

func (ts *TestServer) DELETE(path string) *httptest.ResponseRecorder {
	return ts.do(http.MethodDelete, path, nil)
}

// decode unmarshals a response body, failing the test with a dump of the
// raw payload when it does not parse.
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %s: %v", w.Body.String(), err)
	}
	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, spew.Sdump(w.Body.String()))
	}
}

// CreateTestUser registers a user through the API and returns its id.
func (ts *TestServer) CreateTestUser(t *testing.T, username string) string {
	t.Helper()
	w := ts.POST("/users", map[string]any{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "passwordpassword",
	})
	requireStatus(t, w, http.StatusCreated)
	return decode[map[string]any](t, w)["id"].(string)
}

// CreateTestScooter places a scooter through the API and returns its id.
func (ts *TestServer) CreateTestScooter(t *testing.T, lat, lon float64) string {
	t.Helper()
	w := ts.POST("/scooters", map[string]any{
		"lat":     lat,
		"lon":     lon,
		"battery": 100,
	})
	requireStatus(t, w, http.StatusCreated)
	return decode[map[string]any](t, w)["id"].(string)
}
