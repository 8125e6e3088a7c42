package middleware

import (
	"strings"

	"rustic-lights-backend/internal/apperr"
	"rustic-lights-backend/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyToken  = "token"
)

// Auth validates the bearer token and puts the caller's user id on the
// context. Revoked tokens are rejected even before their expiry. Rejections
// carry a WWW-Authenticate challenge naming the realm.
func Auth(tokenMaker *auth.Maker, blacklist *auth.Blacklist) echo.MiddlewareFunc {
	challenge := `Bearer realm="` + tokenMaker.Realm() + `"`
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reject := func(err error) error {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
				return err
			}

			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return reject(apperr.Unauthorized("Missing bearer token"))
			}
			if blacklist.Contains(token) {
				return reject(apperr.Unauthorized("Token has been revoked"))
			}

			claims, err := tokenMaker.Verify(token)
			if err != nil {
				return reject(err)
			}
			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return reject(apperr.Unauthorized("Invalid token subject"))
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyToken, token)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id set by Auth.
func UserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Not authenticated")
	}
	return userID, nil
}
