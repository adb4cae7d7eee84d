package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token and injects the subject, role
// and email claims into the request context.  Protected routes read
// them back via c.Get("user_id"), c.Get("role") and c.Get("user_email").
// Tokens are issued by the account service; this service only verifies.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth resolves the same claims as JWTAuth when a valid token
// is present but lets anonymous requests through untouched.  Checkout
// endpoints use it so logged-in purchases get attributed to an account
// while guests can still pay.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearer(c, secret); err == nil {
				setIdentity(c, claims)
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, secret string) (jwt.MapClaims, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, errMissingToken
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	return claims, nil
}

func setIdentity(c echo.Context, claims jwt.MapClaims) {
	if v, ok := claims["sub"].(string); ok {
		c.Set("user_id", v)
	}
	if v, ok := claims["role"].(string); ok {
		c.Set("role", v)
	}
	if v, ok := claims["email"].(string); ok {
		c.Set("user_email", v)
	}
}
