package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/fleetdesk/fleetdesk-backend/pkg/auth"
	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "fleetdesk-test", ExpirationMinutes: 30}
}

func mintToken(t *testing.T, kind enums.PrincipalKind, role string, companyID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: companyID,
		Kind:      kind,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	companyID := uuid.New()
	token := mintToken(t, enums.PrincipalKindStaff, "admin", &companyID)

	var gotRole, gotCompany string
	var gotKind enums.PrincipalKind
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = RoleFromContext(r.Context())
		gotCompany = CompanyIDFromContext(r.Context())
		gotKind = KindFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	if gotRole != "admin" || gotCompany != companyID.String() || gotKind != enums.PrincipalKindStaff {
		t.Fatalf("context: role=%s company=%s kind=%s", gotRole, gotCompany, gotKind)
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status: %d", rec.Code)
	}
}

func TestRequireStaffAdmin(t *testing.T) {
	handler := RequireStaffAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithKind(req.Context(), enums.PrincipalKindStaff)
	ctx = WithRole(ctx, "admin")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin status: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx = WithKind(req.Context(), enums.PrincipalKindStaff)
	ctx = WithRole(ctx, "worker")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("worker status: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx = WithKind(req.Context(), enums.PrincipalKindAgent)
	ctx = WithRole(ctx, "admin")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("agent status: %d", rec.Code)
	}
}

func TestMayEditTenant(t *testing.T) {
	company := uuid.NewString()
	other := uuid.NewString()

	ctx := WithKind(WithRole(WithCompanyID(context.Background(), company), "mainadmin"), enums.PrincipalKindStaff)
	if !MayEditTenant(ctx, other) {
		t.Fatal("mainadmin should edit any tenant")
	}

	ctx = WithKind(WithRole(WithCompanyID(context.Background(), company), "admin"), enums.PrincipalKindStaff)
	if !MayEditTenant(ctx, company) {
		t.Fatal("admin should edit own tenant")
	}
	if MayEditTenant(ctx, other) {
		t.Fatal("admin must not edit other tenants")
	}

	ctx = WithKind(WithRole(WithCompanyID(context.Background(), company), "admin"), enums.PrincipalKindAgent)
	if !MayEditTenant(ctx, company) {
		t.Fatal("agent admin should edit own tenant")
	}
	if MayEditTenant(ctx, other) {
		t.Fatal("agent admin must not edit other tenants")
	}
}

func TestMayEditTenantRequiresAdministrativeRole(t *testing.T) {
	company := uuid.NewString()

	ctx := WithKind(WithRole(WithCompanyID(context.Background(), company), "worker"), enums.PrincipalKindStaff)
	if MayEditTenant(ctx, company) {
		t.Fatal("staff worker must not edit tenant data, even its own company's")
	}

	ctx = WithKind(WithRole(WithCompanyID(context.Background(), company), "agent"), enums.PrincipalKindAgent)
	if MayEditTenant(ctx, company) {
		t.Fatal("plain agent must not edit tenant data, even its own company's")
	}

	ctx = WithKind(WithRole(WithCompanyID(context.Background(), company), "admin"), enums.PrincipalKindStaff)
	if !MayEditTenant(ctx, company) {
		t.Fatal("staff admin should edit its own tenant")
	}
}
