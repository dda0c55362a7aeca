package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "7",
		"username": "PeugeotFrance",
		"roles":    []string{domain.RoleCustomer},
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Auth("secret")(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func assertUnauthorized(t *testing.T, err error, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
	if he.Message != msg {
		t.Fatalf("expected message %q, got %v", msg, he.Message)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", validClaims()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.ID != 7 || p.Username != "PeugeotFrance" || !p.HasRole(domain.RoleCustomer) {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	called, err := runAuth(t, "")
	if called {
		t.Fatalf("next must not be called")
	}
	assertUnauthorized(t, err, MsgTokenMissing)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	_, err := runAuth(t, "Basic abc")
	assertUnauthorized(t, err, MsgTokenMissing)
}

func TestAuthMiddleware_InvalidSignature(t *testing.T) {
	_, err := runAuth(t, "Bearer "+signToken(t, "other-secret", validClaims()))
	assertUnauthorized(t, err, MsgTokenInvalid)
}

func TestAuthMiddleware_Garbage(t *testing.T) {
	_, err := runAuth(t, "Bearer not.a.jwt")
	assertUnauthorized(t, err, MsgTokenInvalid)
}

func TestAuthMiddleware_Expired(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	_, err := runAuth(t, "Bearer "+signToken(t, "secret", claims))
	assertUnauthorized(t, err, MsgTokenExpired)
}

func TestAuthMiddleware_MissingClaims(t *testing.T) {
	claims := validClaims()
	delete(claims, "sub")
	_, err := runAuth(t, "Bearer "+signToken(t, "secret", claims))
	assertUnauthorized(t, err, MsgTokenInvalid)

	claims = validClaims()
	delete(claims, "roles")
	_, err = runAuth(t, "Bearer "+signToken(t, "secret", claims))
	assertUnauthorized(t, err, MsgTokenInvalid)
}
