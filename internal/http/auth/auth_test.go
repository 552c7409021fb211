package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestMiddleware(t *testing.T) {
	const secret = "test-secret"

	userID := uuid.New()

	var gotUserID uuid.UUID
	var called bool

	handler := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = UserID(r.Context())
	}))

	type testCase struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}

	testCases := []testCase{
		{
			name:       "ValidToken",
			header:     "Bearer " + signToken(t, secret, userID.String()),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "MissingHeader",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "NotBearer",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "WrongSecret",
			header:     "Bearer " + signToken(t, "other-secret", userID.String()),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "NonUUIDSubject",
			header:     "Bearer " + signToken(t, secret, "alice"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "ExpiredToken",
			header: "Bearer " + func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
					Subject:   userID.String(),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				})
				signed, err := token.SignedString([]byte(secret))
				require.NoError(t, err)
				return signed
			}(),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called = false

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, called)

			if tc.wantCalled {
				assert.Equal(t, userID, gotUserID)
			}
		})
	}
}
