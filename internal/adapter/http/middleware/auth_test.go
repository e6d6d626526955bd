package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	user domain.User
}

func (s stubAuthenticator) Authenticate(_ context.Context, email, password string) (domain.User, error) {
	if email == s.user.Email && password == "secret" {
		return s.user, nil
	}
	return domain.User{}, errors.New("invalid credentials")
}

func TestBasicAuthAttachesPrincipal(t *testing.T) {
	auth := stubAuthenticator{user: domain.User{ID: "user-1", Email: "jordan@example.com", IsAdmin: true}}

	var seen Principal
	handler := BasicAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		seen = principal
	}))

	request := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	request.SetBasicAuth("jordan@example.com", "secret")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "user-1", seen.UserID)
	require.True(t, seen.IsAdmin)
}

func TestBasicAuthRejectsMissingOrBadCredentials(t *testing.T) {
	auth := stubAuthenticator{user: domain.User{ID: "user-1", Email: "jordan@example.com"}}
	handler := BasicAuth(auth)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	missing := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, missing)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("WWW-Authenticate"))

	wrong := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	wrong.SetBasicAuth("jordan@example.com", "nope")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, wrong)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	admin := httptest.NewRequest(http.MethodGet, "/admin/external-transfers", nil)
	admin = admin.WithContext(context.WithValue(admin.Context(), principalKey, Principal{UserID: "user-1", IsAdmin: true}))
	recorder := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(recorder, admin)
	require.Equal(t, http.StatusOK, recorder.Code)

	regular := httptest.NewRequest(http.MethodGet, "/admin/external-transfers", nil)
	regular = regular.WithContext(context.WithValue(regular.Context(), principalKey, Principal{UserID: "user-2"}))
	recorder = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(recorder, regular)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	anonymous := httptest.NewRequest(http.MethodGet, "/admin/external-transfers", nil)
	recorder = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(recorder, anonymous)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
