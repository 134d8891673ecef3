package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-dashboard/internal/utils"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "filmdash_session"

// sessionKey is the echo.Context key holding the session id.
const sessionKey = "session_id"

// Session returns a middleware that resolves the caller's session from the
// session cookie and stores its id in the context.  A missing, expired or
// forged cookie is replaced by a fresh session.  Secure marks the cookie
// HTTPS-only.
func Session(secret string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if id, err := utils.ParseSessionToken(secret, ck.Value); err == nil {
					c.Set(sessionKey, id)
					return next(c)
				}
			}
			tok, err := utils.NewSessionToken(secret, ttl)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
			}
			c.SetCookie(&http.Cookie{
				Name:     SessionCookie,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(sessionKey, tok.ID)
			return next(c)
		}
	}
}

// SessionID returns the session id stored by Session, or "" when the
// middleware did not run.
func SessionID(c echo.Context) string {
	if s, ok := c.Get(sessionKey).(string); ok {
		return s
	}
	return ""
}
