package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrmflow/internal/platform/config"
	"hrmflow/internal/platform/db"
)

// The journey test needs a real database; set TEST_DATABASE_URL to run it.
func testApp(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dsn,
		JWTSecret:          "journey-test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@example.com",
		SeedAdminPassword:  "test-password",
		SeedSampleData:     true,
		MigrationsDir:      "../../../migrations",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 10000,
		MetricsEnabled:     true,
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	app := New(cfg, pool)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	status, env := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status = %d", email, status)
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil || result.Token == "" {
		t.Fatalf("login %s: no token in response", email)
	}
	return result.Token
}

func TestRequestLifecycleJourney(t *testing.T) {
	ts := testApp(t)

	employeeToken := login(t, ts, "employee@example.com", "test-password")
	managerToken := login(t, ts, "manager@example.com", "test-password")

	// Employee opens a request.
	status, env := call(t, ts, http.MethodPost, "/api/v1/requests", employeeToken, map[string]string{
		"category": "IT",
		"priority": "HIGH",
		"subject":  fmt.Sprintf("laptop replacement %d", time.Now().UnixNano()),
		"body":     "screen flickers",
	})
	if status != http.StatusCreated {
		t.Fatalf("create request: status = %d", status)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.ID == "" {
		t.Fatal("create request: no id in response")
	}
	requestPath := "/api/v1/requests/" + created.ID

	// The employee cannot start progress on their own request.
	status, env = call(t, ts, http.MethodPost, requestPath+"/status", employeeToken, map[string]string{"status": "IN_PROGRESS"})
	if status != http.StatusBadRequest {
		t.Fatalf("employee transition: status = %d, want 400", status)
	}
	if env.Error == nil || env.Error.Code != "invalid_transition" {
		t.Fatalf("employee transition: error = %+v, want invalid_transition", env.Error)
	}

	// The manager can.
	status, _ = call(t, ts, http.MethodPost, requestPath+"/status", managerToken, map[string]string{"status": "IN_PROGRESS"})
	if status != http.StatusOK {
		t.Fatalf("manager transition: status = %d, want 200", status)
	}

	// Replaying the same move conflicts: the row already left OPEN.
	status, env = call(t, ts, http.MethodPost, requestPath+"/status", managerToken, map[string]string{"status": "IN_PROGRESS"})
	if status == http.StatusOK {
		t.Fatal("duplicate transition unexpectedly succeeded")
	}
	if env.Error == nil || (env.Error.Code != "invalid_transition" && env.Error.Code != "version_conflict") {
		t.Fatalf("duplicate transition: error = %+v", env.Error)
	}

	// Resolve and let the owner close.
	status, _ = call(t, ts, http.MethodPost, requestPath+"/status", managerToken, map[string]string{"status": "RESOLVED"})
	if status != http.StatusOK {
		t.Fatalf("resolve: status = %d", status)
	}
	status, env = call(t, ts, http.MethodPost, requestPath+"/status", employeeToken, map[string]string{"status": "CLOSED"})
	if status != http.StatusOK {
		t.Fatalf("owner close: status = %d, error = %+v", status, env.Error)
	}

	// Closed is terminal.
	status, env = call(t, ts, http.MethodGet, requestPath+"/transitions", employeeToken, nil)
	if status != http.StatusOK {
		t.Fatalf("transitions: status = %d", status)
	}
	var transitions struct {
		Transitions []string `json:"transitions"`
	}
	if err := json.Unmarshal(env.Data, &transitions); err != nil {
		t.Fatalf("transitions: decode: %v", err)
	}
	if len(transitions.Transitions) != 0 {
		t.Errorf("transitions from CLOSED = %v, want none", transitions.Transitions)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := testApp(t)

	status, env := call(t, ts, http.MethodGet, "/api/v1/requests", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if env.Error == nil || env.Error.Code != "unauthorized" {
		t.Fatalf("error = %+v, want unauthorized", env.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := testApp(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		status, _ := call(t, ts, http.MethodGet, path, "", nil)
		if status != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, status)
		}
	}
}
