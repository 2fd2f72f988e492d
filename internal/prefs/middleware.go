package prefs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CookieName      = "kuralhub_visitor"
	CtxVisitorIDKey = "visitor_id"
)

// VisitorMiddleware resolves the anonymous visitor from the signed cookie,
// issuing a fresh identity when the cookie is missing or invalid.
func VisitorMiddleware(tokens TokenService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if raw, err := c.Cookie(CookieName); err == nil && raw != "" {
			if claims, err := tokens.Parse(raw); err == nil {
				c.Set(CtxVisitorIDKey, claims.VisitorID)
				c.Next()
				return
			}
		}

		id := uuid.NewString()
		signed, exp, err := tokens.Sign(id)
		if err != nil {
			// the page still renders; the theme just cannot be saved
			logger.Warn("visitor token sign failed", zap.Error(err))
			c.Next()
			return
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     CookieName,
			Value:    signed,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(CtxVisitorIDKey, id)
		c.Next()
	}
}

// VisitorID returns the visitor resolved by VisitorMiddleware, or "".
func VisitorID(c *gin.Context) string {
	return c.GetString(CtxVisitorIDKey)
}
