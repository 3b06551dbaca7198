package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authedHandler(t *testing.T, gotUserID *uuid.UUID) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return Auth(testSecret, zap.NewNop().Sugar())(next)
}

func TestAuthPassesValidToken(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()

	var gotUserID uuid.UUID
	handler := authedHandler(t, &gotUserID)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/servers", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	req.Equal(http.StatusNoContent, w.Code)
	req.Equal(userID, gotUserID)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", signToken(t, testSecret, uuid.NewString())},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", uuid.NewString())},
		{"non-uuid subject", "Bearer " + signToken(t, testSecret, "not-a-uuid")},
		{"garbage token", "Bearer zzz"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			var gotUserID uuid.UUID
			handler := authedHandler(t, &gotUserID)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/servers", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			req.Equal(http.StatusUnauthorized, w.Code)
			req.Equal(uuid.Nil, gotUserID)

			// The rejection is a JSON error envelope, not a plain-text body.
			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
			req.Equal("UNAUTHORIZED", body.Error.Code)
		})
	}
}
