package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", EmployeeID: "e-1", Role: string(RoleManager)}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-1" || claims.EmployeeID != "e-1" || claims.Role != string(RoleManager) {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", Role: string(RoleAdmin)}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u-1", Role: string(RoleEmployee)}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "hunter2!"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "hunter3!"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestCapabilityMatrix(t *testing.T) {
	cases := []struct {
		role       Role
		capability string
		want       bool
	}{
		{RoleEmployee, CapRequestsWrite, true},
		{RoleEmployee, CapRequestsAssign, false},
		{RoleEmployee, CapPayrollApprove, false},
		{RoleEmployee, CapAuditRead, false},
		{RoleManager, CapRequestsAssign, true},
		{RoleManager, CapOnboardingReview, true},
		{RoleManager, CapPayrollApprove, false},
		{RoleManager, CapEmployeesWrite, false},
		{RoleAdmin, CapPayrollApprove, true},
		{RoleAdmin, CapAuditRead, true},
		{RoleAdmin, CapMetricsRead, true},
	}
	for _, tc := range cases {
		if got := HasCapability(tc.role, tc.capability); got != tc.want {
			t.Errorf("HasCapability(%s, %s) = %v, want %v", tc.role, tc.capability, got, tc.want)
		}
	}
}

func TestIsManagerOrAdmin(t *testing.T) {
	if (UserContext{Role: RoleEmployee}).IsManagerOrAdmin() {
		t.Error("employee counted as manager or admin")
	}
	if !(UserContext{Role: RoleManager}).IsManagerOrAdmin() {
		t.Error("manager not counted")
	}
	if !(UserContext{Role: RoleAdmin}).IsManagerOrAdmin() {
		t.Error("admin not counted")
	}
}
