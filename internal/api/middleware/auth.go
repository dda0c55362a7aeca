package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bilemo/catalog-api/internal/core/domain"
)

const principalKey = "principal"

const (
	MsgTokenMissing = "JWT token not found"
	MsgTokenInvalid = "invalid JWT token"
	MsgTokenExpired = "expired JWT token"
)

// Auth validates the bearer JWT and stores the caller as a domain.Principal.
// Each failure cause gets its own fixed 401 message.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenExpired)
			}
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
			}

			principal, ok := principalFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
			}
			c.Set(principalKey, principal)

			return next(c)
		}
	}
}

// PrincipalFrom returns the caller stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

func principalFromClaims(claims jwt.MapClaims) (domain.Principal, bool) {
	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Principal{}, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return domain.Principal{}, false
	}
	username, _ := claims["username"].(string)

	raw, _ := claims["roles"].([]interface{})
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	if len(roles) == 0 {
		return domain.Principal{}, false
	}
	return domain.Principal{ID: id, Username: username, Roles: roles}, true
}
