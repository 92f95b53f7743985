package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrmflow/internal/domain/auth"
)

const testSecret = "test-secret"

func authedHandler(t *testing.T, gotUser *auth.UserContext, gotOK *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		*gotUser = user
		*gotOK = ok
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthParsesValidBearerToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID:     "user-1",
		EmployeeID: "emp-1",
		Role:       string(auth.RoleManager),
	}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUser auth.UserContext
	var gotOK bool
	handler := Auth(testSecret, nil)(authedHandler(t, &gotUser, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK {
		t.Fatal("expected user context to be set")
	}
	if gotUser.UserID != "user-1" || gotUser.EmployeeID != "emp-1" || gotUser.Role != auth.RoleManager {
		t.Errorf("unexpected user context: %+v", gotUser)
	}
}

func TestAuthPassesThroughWithoutToken(t *testing.T) {
	var gotUser auth.UserContext
	var gotOK bool
	handler := Auth(testSecret, nil)(authedHandler(t, &gotUser, &gotOK))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotOK {
		t.Error("expected no user context without a token")
	}
}

func TestAuthIgnoresForgedToken(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "user-1", Role: string(auth.RoleAdmin)}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUser auth.UserContext
	var gotOK bool
	handler := Auth(testSecret, nil)(authedHandler(t, &gotUser, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotOK {
		t.Error("expected forged token to leave the request unauthenticated")
	}
}

type staticSessions struct {
	valid   bool
	gotHash string
}

func (s *staticSessions) SessionValid(ctx context.Context, userID, tokenHash string) (bool, error) {
	s.gotHash = tokenHash
	return s.valid, nil
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "user-1", Role: string(auth.RoleAdmin)}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUser auth.UserContext
	var gotOK bool
	sessions := &staticSessions{valid: false}
	handler := Auth(testSecret, sessions)(authedHandler(t, &gotUser, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotOK {
		t.Error("expected revoked session to leave the request unauthenticated")
	}
	if sessions.gotHash != auth.TokenHash(token) {
		t.Errorf("session looked up with hash %q, want %q", sessions.gotHash, auth.TokenHash(token))
	}
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "user-1", EmployeeID: "emp-1", Role: string(auth.RoleEmployee)}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotUser auth.UserContext
	var gotOK bool
	handler := Auth(testSecret, &staticSessions{valid: true})(authedHandler(t, &gotUser, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK {
		t.Fatal("expected live session to authenticate")
	}
	if gotUser.UserID != "user-1" {
		t.Errorf("unexpected user context: %+v", gotUser)
	}
}

func TestRequireCapabilityRejectsAnonymous(t *testing.T) {
	handler := RequireCapability(auth.CapPayrollApprove)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireCapabilityEnforcesRole(t *testing.T) {
	protected := RequireCapability(auth.CapPayrollApprove)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleEmployee, http.StatusForbidden},
		{auth.RoleManager, http.StatusForbidden},
		{auth.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", Role: tc.role}))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %s: status = %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}
