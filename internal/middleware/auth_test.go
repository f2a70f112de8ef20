package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func serve(mw echo.MiddlewareFunc, authorization string) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/fulfillment", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, mw)

	req := httptest.NewRequest(http.MethodPost, "/fulfillment", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAuth_DisabledWithoutSecret(t *testing.T) {
	rec := serve(WebhookAuth("", ""), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAuth(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "dialogflow",
		Audience:  jwt.ClaimStrings{"digital-goods"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	otherAudience := valid
	otherAudience.Audience = jwt.ClaimStrings{"someone-else"}

	tests := []struct {
		name          string
		authorization string
		want          int
	}{
		{name: "valid", authorization: "Bearer " + signed(t, "s3cret", valid), want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "not bearer", authorization: "Basic abc", want: http.StatusUnauthorized},
		{name: "wrong secret", authorization: "Bearer " + signed(t, "other", valid), want: http.StatusUnauthorized},
		{name: "expired", authorization: "Bearer " + signed(t, "s3cret", expired), want: http.StatusUnauthorized},
		{name: "wrong audience", authorization: "Bearer " + signed(t, "s3cret", otherAudience), want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(WebhookAuth("s3cret", "digital-goods"), tt.authorization)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
