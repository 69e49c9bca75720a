package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/cryptox"
	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"github.com/dmitrijs2005/mylibrary/internal/server/auth"
	"github.com/dmitrijs2005/mylibrary/internal/server/models"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	cookieName = "mylibrary_session"
)

type mapStore map[string]string

func (m mapStore) Find(_ context.Context, id string) (*auth.CredentialRecord, error) {
	p, ok := m[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &auth.CredentialRecord{Identifier: id, StoredSecret: p}, nil
}

type fakeWriters struct {
	list    []*models.Writer
	removed string
	err     error
}

func (f *fakeWriters) Register(_ context.Context, id, password string) (*models.Writer, error) {
	if f.err != nil {
		return nil, f.err
	}
	w := &models.Writer{ID: id, Password: password, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	f.list = append(f.list, w)
	return w, nil
}

func (f *fakeWriters) List(context.Context) ([]*models.Writer, error) { return f.list, f.err }

func (f *fakeWriters) ChangePassword(context.Context, string, string) error { return f.err }

func (f *fakeWriters) Remove(_ context.Context, id string) error {
	f.removed = id
	return f.err
}

type fakeLibrary struct {
	books       []*models.Book
	publishedBy *auth.Identity
	published   services.PublishInput
	publishErr  error
	genre       string
}

func (f *fakeLibrary) Publish(_ context.Context, id *auth.Identity, in services.PublishInput) (*models.Book, error) {
	f.publishedBy = id
	f.published = in
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &models.Book{ID: "b-new", Title: in.Title, Author: in.Author, Genre: models.Genre(in.Genre), WriterID: id.Identifier}, nil
}

func (f *fakeLibrary) Get(_ context.Context, id string) (*models.Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeLibrary) List(_ context.Context, genre string) ([]*models.Book, error) {
	f.genre = genre
	return f.books, nil
}

func (f *fakeLibrary) ByWriter(_ context.Context, writerID string) ([]*models.Book, error) {
	var out []*models.Book
	for _, b := range f.books {
		if b.WriterID == writerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLibrary) Search(context.Context, string) ([]*models.Book, error) { return f.books, nil }

func (f *fakeLibrary) Authors(context.Context) ([]*models.AuthorSummary, error) {
	return []*models.AuthorSummary{{WriterID: "w1", Books: 2}}, nil
}

type fakeUploads struct {
	key string
}

func (f *fakeUploads) PresignUpload(_ context.Context, id *auth.Identity, fileName, _ string, _ int64) (*services.UploadTicket, error) {
	return &services.UploadTicket{Key: "books/" + id.Identifier + "/" + fileName, UploadURL: "https://s3/put", DocumentURL: "https://s3/get"}, nil
}

func (f *fakeUploads) PresignDownload(_ context.Context, key string) (string, error) {
	f.key = key
	return "https://s3/get?" + key, nil
}

type fixture struct {
	router  *gin.Engine
	issuer  *auth.SessionIssuer
	writers *fakeWriters
	library *fakeLibrary
	uploads *fakeUploads
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewSessionIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)
	verifier := auth.NewVerifier(mapStore{"w1": "pw1"}, logging.Nop())
	authSvc := services.NewAuthService(verifier, issuer, logging.Nop())

	f := &fixture{
		issuer:  issuer,
		writers: &fakeWriters{},
		library: &fakeLibrary{books: []*models.Book{
			{ID: "b1", Title: "Dune", Author: "Herbert", Genre: models.GenreSciFi, WriterID: "w1"},
			{ID: "b2", Title: "Emma", Author: "Austen", Genre: models.GenreRomance, WriterID: "w2"},
		}},
		uploads: &fakeUploads{},
	}
	h := NewHandler(authSvc, f.writers, f.library, f.uploads, CookieOptions{Name: cookieName}, logging.Nop())
	f.router = h.Router()
	return f
}

func (f *fixture) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	s, err := f.issuer.Issue(id)
	require.NoError(t, err)
	return s.Token
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func withCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

var (
	adminID  = auth.Identity{Identifier: "admin", DisplayName: "Administrator", Role: auth.RoleAdmin}
	writerID = auth.Identity{Identifier: "w1", DisplayName: "w1", Role: auth.RoleWriter}
)

func TestLogin_SuccessSetsStrictHttpOnlyCookie(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"id":"w1","password":"pw1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	s, err := f.issuer.Decode(c.Value)
	require.NoError(t, err)
	assert.Equal(t, writerID, s.Identity)

	var body struct {
		User userJSON `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userJSON{ID: "w1", DisplayName: "w1", Role: "writer"}, body.User)
}

func TestLogin_FormEncodedBootstrapAdmin(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"id": {"admin"}, "password": {"admin"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	s, err := f.issuer.Decode(sessionCookie(w).Value)
	require.NoError(t, err)
	assert.Equal(t, adminID, s.Identity)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)

	for name, body := range map[string]string{
		"unknown id":   `{"id":"nobody","password":"pw1"}`,
		"wrong secret": `{"id":"w1","password":"nope"}`,
		"empty secret": `{"id":"w1","password":""}`,
		"empty both":   `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := f.do(req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Invalid ID or Password"}`, w.Body.String())
			assert.Nil(t, sessionCookie(w))
		})
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	f := newFixture(t)

	w := f.do(withCookie(httptest.NewRequest(http.MethodPost, "/logout", nil), f.token(t, writerID)))

	assert.Equal(t, http.StatusNoContent, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestSession_NavigationFollowsRole(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		token     string
		authed    bool
		showAdmin bool
	}{
		{"anonymous", "", false, false},
		{"writer", f.token(t, writerID), true, false},
		{"admin", f.token(t, adminID), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if tt.token != "" {
				withCookie(req, tt.token)
			}
			w := f.do(req)
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Authenticated bool `json:"authenticated"`
				Nav           struct {
					ShowAdmin bool `json:"show_admin"`
				} `json:"nav"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.authed, body.Authenticated)
			assert.Equal(t, tt.showAdmin, body.Nav.ShowAdmin)
		})
	}
}

func TestAdminArea_RequiresAdmin(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusSeeOther},
		{"writer", f.token(t, writerID), http.StatusSeeOther},
		{"admin", f.token(t, adminID), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/writers", nil)
			if tt.token != "" {
				withCookie(req, tt.token)
			}
			w := f.do(req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusSeeOther {
				assert.Equal(t, LoginPath, w.Header().Get("Location"))
			}
		})
	}
}

func TestAdmin_WriterLifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, adminID)

	req := httptest.NewRequest(http.MethodPost, "/admin/writers", strings.NewReader(`{"id":"w9","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, admin))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = f.do(withCookie(httptest.NewRequest(http.MethodDelete, "/admin/writers/w9", nil), admin))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "w9", f.writers.removed)

	f.writers.err = common.ErrorNotFound
	w = f.do(withCookie(httptest.NewRequest(http.MethodDelete, "/admin/writers/none", nil), admin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_DuplicateWriterConflicts(t *testing.T) {
	f := newFixture(t)
	f.writers.err = common.ErrorAlreadyExists

	req := httptest.NewRequest(http.MethodPost, "/admin/writers", strings.NewReader(`{"id":"w1","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, f.token(t, adminID)))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserArea_AnonymousRedirected(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/user/books", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestUserArea_BearerHeaderAccepted(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/books", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t, writerID))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var books []bookJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "b1", books[0].ID)
}

func TestExpiredCookie_TreatedAsAnonymousAndCleared(t *testing.T) {
	f := newFixture(t)

	past := time.Now().Add(-2 * time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "w1",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		DisplayName: "w1",
		Role:        auth.RoleWriter,
	})
	signed, err := tok.SignedString(cryptox.DeriveSigningKey([]byte(testSecret)))
	require.NoError(t, err)

	w := f.do(withCookie(httptest.NewRequest(http.MethodGet, "/user/books", nil), signed))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
}

func TestInvalidCookie_PublicRouteStillServed(t *testing.T) {
	f := newFixture(t)

	w := f.do(withCookie(httptest.NewRequest(http.MethodGet, "/books", nil), "garbage"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(w))
}

func TestStaleCookie_BearerHeaderStillAuthenticates(t *testing.T) {
	f := newFixture(t)

	req := withCookie(httptest.NewRequest(http.MethodGet, "/user/books", nil), "garbage")
	req.Header.Set("Authorization", "Bearer "+f.token(t, writerID))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var books []bookJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
}

func TestValidCookie_WinsOverBearer(t *testing.T) {
	f := newFixture(t)

	req := withCookie(httptest.NewRequest(http.MethodGet, "/api/session", nil), f.token(t, adminID))
	req.Header.Set("Authorization", "Bearer "+f.token(t, writerID))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"admin"`)
	assert.Nil(t, sessionCookie(w))
}

func TestPublish_WriterTakenFromSession(t *testing.T) {
	f := newFixture(t)

	body := `{"title":"T","author":"A","genre":"FICTION","synopsis":"S","writerId":"someone-else"}`
	req := httptest.NewRequest(http.MethodPost, "/user/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, f.token(t, writerID)))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.library.publishedBy)
	assert.Equal(t, "w1", f.library.publishedBy.Identifier)

	var b bookJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, "w1", b.WriterID)
}

func TestPublish_ValidationFields(t *testing.T) {
	f := newFixture(t)
	f.library.publishErr = &services.ValidationError{Fields: map[string]string{"title": "required"}}

	req := httptest.NewRequest(http.MethodPost, "/user/books", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, f.token(t, writerID)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"required"`)
}

func TestPublicReads(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/books?genre=SCIFI", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SCIFI", f.library.genre)

	w = f.do(httptest.NewRequest(http.MethodGet, "/books/b2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var b bookJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, "Romance", b.GenreName)

	w = f.do(httptest.NewRequest(http.MethodGet, "/books/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/authors", nil))
	assert.JSONEq(t, `[{"writerId":"w1","books":2}]`, w.Body.String())

	w = f.do(httptest.NewRequest(http.MethodGet, "/genres", nil))
	var genres []genreJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &genres))
	assert.Len(t, genres, len(models.Genres()))
}

func TestDocument_RedirectsToPresignedURL(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/documents/books/w1/2024/05/x.pdf", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "books/w1/2024/05/x.pdf", f.uploads.key)
	assert.Equal(t, "https://s3/get?books/w1/2024/05/x.pdf", w.Header().Get("Location"))
}

func TestBookListing_StoredPDFLinkStaysUsable(t *testing.T) {
	f := newFixture(t)
	f.library.books[0].DocumentKey = "books/w1/2024/05/dune.pdf"
	f.library.books[1].DocumentURL = "https://cdn.example/emma.pdf"

	w := f.do(httptest.NewRequest(http.MethodGet, "/books", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var books []bookJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 2)
	assert.Equal(t, "/documents/books/w1/2024/05/dune.pdf", books[0].DocumentURL)
	assert.Equal(t, "books/w1/2024/05/dune.pdf", books[0].DocumentKey)
	assert.Equal(t, "https://cdn.example/emma.pdf", books[1].DocumentURL)

	// The stored link is resolved to a fresh presigned URL on every visit.
	w = f.do(httptest.NewRequest(http.MethodGet, books[0].DocumentURL, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://s3/get?books/w1/2024/05/dune.pdf", w.Header().Get("Location"))
}

func TestPublish_ForwardsDocumentKey(t *testing.T) {
	f := newFixture(t)

	body := `{"title":"T","author":"A","genre":"FICTION","synopsis":"S","documentKey":"books/w1/2024/05/x.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/user/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, f.token(t, writerID)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "books/w1/2024/05/x.pdf", f.library.published.DocumentKey)
}

func TestPresignUpload(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/user/uploads", strings.NewReader(`{"fileName":"a.pdf","contentType":"application/pdf","size":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(withCookie(req, f.token(t, writerID)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "books/w1/a.pdf", resp.Key)
}
