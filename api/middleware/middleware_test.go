package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, wantOperator bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := OperatorFromContext(r.Context())
		assert.Equal(t, wantOperator, ok)
		if ok {
			assert.Equal(t, "alice", op.Username)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateDisabledPassesThrough(t *testing.T) {
	k := NewKeycloakMiddleware(KeycloakConfig{})
	rec := httptest.NewRecorder()

	k.Authenticate(okHandler(t, false)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	assert.False(t, k.Enabled())
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	k := NewKeycloakMiddleware(KeycloakConfig{URL: "http://keycloak.invalid", Realm: "soil"})
	rec := httptest.NewRecorder()

	k.Authenticate(okHandler(t, false)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"no token provided"}`, rec.Body.String())
}

func keycloakStub(t *testing.T, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticateRejectsInactiveToken(t *testing.T) {
	srv := keycloakStub(t, `{"active":false}`)
	k := NewKeycloakMiddleware(KeycloakConfig{URL: srv.URL, Realm: "soil", ClientID: "hub", ClientSecret: "s"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	k.Authenticate(okHandler(t, false)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAcceptsActiveToken(t *testing.T) {
	srv := keycloakStub(t, `{"active":true,"sub":"u-1","preferred_username":"alice"}`)
	k := NewKeycloakMiddleware(KeycloakConfig{URL: srv.URL, Realm: "soil", ClientID: "hub", ClientSecret: "s"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	k.Authenticate(okHandler(t, true)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoverJSON(t *testing.T) {
	h := RecoverJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map write")
	}))
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/device/report", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal error"}`, rec.Body.String())
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, extractToken(req))

	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	assert.Empty(t, extractToken(req))

	req.Header.Set("Authorization", "Bearer tok")
	assert.Equal(t, "tok", extractToken(req))
}
