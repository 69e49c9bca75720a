package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// LoginPath is where denied requests are sent.
const LoginPath = "/login"

// DocumentsPrefix serves stored PDFs by key.
const DocumentsPrefix = "/documents/"

// identify resolves the session from the cookie, falling back to an
// Authorization bearer header when the cookie is absent or unusable. Expired
// and invalid tokens make the caller anonymous and clear the cookie.
func (h *Handler) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := h.authenticate(c, h.cookieToken(c), true)
		if session == nil {
			session = h.authenticate(c, bearerToken(c), false)
		}

		if session != nil {
			id := session.Identity
			c.Set(identityKey, &id)
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), &id))
		}
		c.Next()
	}
}

func (h *Handler) authenticate(c *gin.Context, token string, fromCookie bool) *auth.Session {
	session, err := h.auth.Authenticate(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, common.ErrTokenExpired) {
			reason = "expired"
		}
		h.logger.Info(c.Request.Context(), "session rejected", "reason", reason, "path", c.Request.URL.Path)
		if fromCookie {
			h.clearCookie(c)
		}
		return nil
	}
	return session
}

func (h *Handler) cookieToken(c *gin.Context) string {
	v, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return v
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// require enforces an access requirement. Every denial is a redirect to the
// login page; the reason only goes to the log.
func (h *Handler) require(req auth.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := h.guard.Check(c.Request.Context(), identity(c), req, c.Request.URL.Path)
		if !d.Allowed {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

func (h *Handler) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
