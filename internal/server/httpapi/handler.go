// Package httpapi is the browser-facing HTTP surface of the library, built on
// gin. Sessions travel in an HttpOnly, SameSite=Strict cookie; a bearer header
// is accepted as well.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"github.com/gin-gonic/gin"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

type Handler struct {
	auth    Authenticator
	guard   *auth.Guard
	writers WriterAdmin
	books   Library
	uploads Uploads
	cookie  CookieOptions
	logger  logging.Logger
}

func NewHandler(a Authenticator, w WriterAdmin, b Library, u Uploads, cookie CookieOptions, logger logging.Logger) *Handler {
	return &Handler{
		auth:    a,
		guard:   auth.NewGuard(logger),
		writers: w,
		books:   b,
		uploads: u,
		cookie:  cookie,
		logger:  logger.With("module", "http"),
	}
}

// Router builds the gin engine with every route and its access requirement.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.logRequests(), h.identify())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
	r.GET("/api/session", h.session)

	r.GET("/books", h.listBooks)
	r.GET("/books/:id", h.getBook)
	r.GET("/search", h.search)
	r.GET("/authors", h.authors)
	r.GET("/authors/:id/books", h.authorBooks)
	r.GET("/genres", h.genres)
	r.GET(DocumentsPrefix+"*key", h.document)

	admin := r.Group("/admin", h.require(auth.RequireAdmin))
	admin.GET("/writers", h.listWriters)
	admin.POST("/writers", h.registerWriter)
	admin.PUT("/writers/:id/password", h.changePassword)
	admin.DELETE("/writers/:id", h.removeWriter)

	user := r.Group("/user", h.require(auth.RequireAuthenticated))
	user.GET("/books", h.myBooks)
	user.POST("/books", h.publish)
	user.POST("/uploads", h.presignUpload)

	return r
}

func (h *Handler) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": common.SignInFailedMessage})
			return
		}
		h.writeError(c, err)
		return
	}

	h.setCookie(c, session.Token, h.auth.LifetimeSeconds())
	c.JSON(http.StatusOK, gin.H{"user": toUser(&session.Identity), "expires_at": session.ExpiresAt})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	id := identity(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": id != nil,
		"user":          toUser(id),
		"nav":           gin.H{"show_admin": auth.ShowAdmin(id)},
	})
}

func (h *Handler) listBooks(c *gin.Context) {
	list, err := h.books.List(c.Request.Context(), c.Query("genre"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBooks(list))
}

func (h *Handler) getBook(c *gin.Context) {
	b, err := h.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBook(b))
}

func (h *Handler) search(c *gin.Context) {
	list, err := h.books.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBooks(list))
}

func (h *Handler) authors(c *gin.Context) {
	list, err := h.books.Authors(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]authorJSON, 0, len(list))
	for _, a := range list {
		out = append(out, authorJSON{WriterID: a.WriterID, Books: a.Books})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) authorBooks(c *gin.Context) {
	list, err := h.books.ByWriter(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBooks(list))
}

func (h *Handler) genres(c *gin.Context) {
	all := models.Genres()
	out := make([]genreJSON, 0, len(all))
	for _, g := range all {
		out = append(out, genreJSON{Code: string(g), Name: g.DisplayName()})
	}
	c.JSON(http.StatusOK, out)
}

// document redirects to a short-lived presigned URL for a stored PDF.
func (h *Handler) document(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	u, err := h.uploads.PresignDownload(c.Request.Context(), key)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

func (h *Handler) listWriters(c *gin.Context) {
	list, err := h.writers.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]writerJSON, 0, len(list))
	for _, w := range list {
		out = append(out, writerJSON{ID: w.ID, CreatedAt: w.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) registerWriter(c *gin.Context) {
	var req writerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	w, err := h.writers.Register(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, writerJSON{ID: w.ID, CreatedAt: w.CreatedAt})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.writers.ChangePassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeWriter(c *gin.Context) {
	if err := h.writers.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) myBooks(c *gin.Context) {
	list, err := h.books.ByWriter(c.Request.Context(), identity(c).Identifier)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBooks(list))
}

func (h *Handler) publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	b, err := h.books.Publish(c.Request.Context(), identity(c), services.PublishInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Synopsis:    req.Synopsis,
		DocumentURL: req.DocumentURL,
		DocumentKey: req.DocumentKey,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBook(b))
}

func (h *Handler) presignUpload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	t, err := h.uploads.PresignUpload(c.Request.Context(), identity(c), req.FileName, req.ContentType, req.Size)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, uploadResponse{Key: t.Key, UploadURL: t.UploadURL, DocumentURL: t.DocumentURL, ExpiresAt: t.ExpiresAt})
}
