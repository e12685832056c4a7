package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWithActorParsesBearerToken(t *testing.T) {
	token, err := SignJWT("secret", TokenClaims{Sub: "user-1", Role: RoleAdmin, Exp: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var got Actor
	var ok bool
	handler := WithActor("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ActorFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !ok || got.UserID != "user-1" || got.Role != RoleAdmin {
		t.Fatalf("actor = %+v ok=%v", got, ok)
	}
}

func TestWithActorIgnoresInvalidToken(t *testing.T) {
	token, _ := SignJWT("other-secret", TokenClaims{Sub: "user-1"})

	var ok bool
	handler := WithActor("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ActorFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if ok {
		t.Fatal("forged token must not yield an actor")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("guest flow must pass through, got %d", w.Code)
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "user-1", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireRole(RoleAdmin, RoleStaff)(next)

	serve := func(token string) int {
		r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		WithActor("secret")(guard).ServeHTTP(w, r)
		return w.Code
	}

	if code := serve(""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d, want 401", code)
	}

	customer, _ := SignJWT("secret", TokenClaims{Sub: "u1", Role: "customer"})
	if code := serve(customer); code != http.StatusForbidden {
		t.Fatalf("customer = %d, want 403", code)
	}

	staff, _ := SignJWT("secret", TokenClaims{Sub: "u2", Role: RoleStaff})
	if code := serve(staff); code != http.StatusOK {
		t.Fatalf("staff = %d, want 200", code)
	}
}
