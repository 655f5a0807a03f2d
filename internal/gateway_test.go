package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

// staticUsers authenticates exactly one username/password pair.
type staticUsers struct{}

func (staticUsers) Authenticate(_ context.Context, username, password string) (*user.User, error) {
	if username == "deckhand" && password == "hoist-the-sails" {
		return &user.User{ID: "deckhand", Email: "deckhand@example.com", Roles: []string{"admin"}}, nil
	}
	return nil, user.ErrAuthentication
}

func (staticUsers) Role(string) (*user.Role, bool) { return nil, false }

// whoami exposes the authenticated user so tests can observe what the
// gateway resolved.
type whoami struct{}

func (whoami) Routes(r internal.Router) {
	handler := func(c internal.Context) error {
		u := c.User()
		if u == nil {
			return c.JSON(http.StatusOK, map[string]string{"user": ""})
		}
		return c.JSON(http.StatusOK, map[string]string{"user": u.ID})
	}
	r.GET("/whoami", handler)
	r.POST("/whoami", handler)
}

func newTestApp(t *testing.T, store session.Store, opts ...internal.Option) *internal.App {
	t.Helper()
	base := []internal.Option{
		internal.WithSessionStore(store),
		internal.WithUserManager(staticUsers{}),
		internal.WithHandlers(whoami{}),
	}
	return internal.New(append(base, opts...)...)
}

func doRequest(app *internal.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
	return rec
}

func loginForm(username, password string) *strings.Reader {
	form := url.Values{}
	form.Set("action", "login")
	form.Set("username", username)
	form.Set("password", password)
	return strings.NewReader(form.Encode())
}

func TestGateway_UnauthenticatedGet(t *testing.T) {
	t.Parallel()

	t.Run("browser gets login page", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, session.NewMemory())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		require.Contains(t, rec.Body.String(), `name="username"`)
	})

	t.Run("ajax header gets json error", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, session.NewMemory())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := doRequest(app, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "session", body["error"])
	})

	t.Run("ajax query param gets json error", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, session.NewMemory())

		req := httptest.NewRequest(http.MethodGet, "/whoami?ajax", nil)
		rec := doRequest(app, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "session")
	})
}

func TestGateway_LoginAction(t *testing.T) {
	t.Parallel()

	t.Run("success issues registered session", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		req := httptest.NewRequest(http.MethodPost, "/whoami", loginForm("deckhand", "hoist-the-sails"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "success", body["status"])
		require.NotEmpty(t, body["session.id"])
		require.Equal(t, 1, store.Len())

		// The token from the response resolves the session.
		sess, err := store.Get(context.Background(), body["session.id"])
		require.NoError(t, err)
		require.Equal(t, "deckhand", sess.UserID())

		// And the cookie was set for browsers.
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
	})

	t.Run("plain form post gets the same payload", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		// No XHR header, no ajax param: the login action alone decides.
		req := httptest.NewRequest(http.MethodPost, "/whoami", loginForm("deckhand", "hoist-the-sails"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "success", body["status"])
		require.NotEmpty(t, body["session.id"])
		require.Equal(t, 1, store.Len())
		require.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("runs even with a valid session presented", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		existing := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), existing))

		req := httptest.NewRequest(http.MethodPost, "/whoami", loginForm("deckhand", "hoist-the-sails"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: existing.Token})
		rec := doRequest(app, req)

		// A fresh session is issued instead of dispatching to the handler.
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "success", body["status"])
		require.NotEqual(t, existing.Token, body["session.id"])
		require.Equal(t, 2, store.Len())
	})

	t.Run("bad credentials return error without session", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		req := httptest.NewRequest(http.MethodPost, "/whoami", loginForm("deckhand", "wrong"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body["error"])
		require.Empty(t, body["status"])
		require.Equal(t, 0, store.Len())
	})
}

func TestGateway_SessionResolution(t *testing.T) {
	t.Parallel()

	t.Run("cookie token with matching ip", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: sess.Token})
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "deckhand")
	})

	t.Run("session.id parameter works without cookie", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami?session.id="+sess.Token, nil)
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "deckhand")
	})

	t.Run("ip mismatch yields no session and keeps the stored one", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "10.0.0.5")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.9")
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: sess.Token})
		rec := doRequest(app, req)

		// Treated as unauthenticated: login page, not the handler.
		require.Contains(t, rec.Body.String(), `name="username"`)

		// The rightful owner still has the session.
		require.Equal(t, 1, store.Len())
		kept, err := store.Get(context.Background(), sess.Token)
		require.NoError(t, err)
		require.Equal(t, "10.0.0.5", kept.IP)
	})

	t.Run("unknown token falls back to login", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, session.NewMemory())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: "nope"})
		rec := doRequest(app, req)

		require.Contains(t, rec.Body.String(), `name="username"`)
	})

	t.Run("custom cookie name", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store, internal.WithCookieName("deck.sid"))

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "deck.sid", Value: sess.Token})
		rec := doRequest(app, req)

		require.Contains(t, rec.Body.String(), "deckhand")
	})
}

func TestGateway_Logout(t *testing.T) {
	t.Parallel()

	t.Run("clears store and cookie", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami?logout", nil)
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: sess.Token})
		rec := doRequest(app, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, 0, store.Len())

		// Cookie cleared.
		var cleared bool
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == "azkaban.browser.session.id" && ck.MaxAge < 0 {
				cleared = true
			}
		}
		require.True(t, cleared)
	})

	t.Run("logout without session still redirects", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(t, session.NewMemory())

		req := httptest.NewRequest(http.MethodGet, "/whoami?logout", nil)
		rec := doRequest(app, req)

		require.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("ajax logout also redirects", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(context.Background(), sess))

		req := httptest.NewRequest(http.MethodGet, "/whoami?logout&ajax", nil)
		req.AddCookie(&http.Cookie{Name: "azkaban.browser.session.id", Value: sess.Token})
		rec := doRequest(app, req)

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.Equal(t, 0, store.Len())
	})
}

func TestGateway_TransientSession(t *testing.T) {
	t.Parallel()

	t.Run("credential post authorizes one request", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		form := url.Values{}
		form.Set("username", "deckhand")
		form.Set("password", "hoist-the-sails")

		req := httptest.NewRequest(http.MethodPost, "/whoami", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := doRequest(app, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "deckhand")

		// Nothing registered, no cookie issued.
		require.Equal(t, 0, store.Len())
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("bad credentials render login page", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store)

		form := url.Values{}
		form.Set("username", "deckhand")
		form.Set("password", "wrong")

		req := httptest.NewRequest(http.MethodPost, "/whoami", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := doRequest(app, req)

		require.Contains(t, rec.Body.String(), `name="username"`)
		require.Equal(t, 0, store.Len())
	})
}

func TestGateway_MultipartPost(t *testing.T) {
	t.Parallel()

	multipartBody := func(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			require.NoError(t, mw.WriteField(k, v))
		}
		fw, err := mw.CreateFormFile("file", "flow.zip")
		require.NoError(t, err)
		_, err = fw.Write([]byte("archive bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	t.Run("session.id form field resolves the session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemory()
		t.Cleanup(func() { _ = store.Close() })
		app := newTestApp(t, store)

		sess := session.New(&user.User{ID: "deckhand"}, "192.0.2.1")
		require.NoError(t, store.Put(t.Context(), sess))

		body, contentType := multipartBody(t, map[string]string{"session.id": sess.Token})
		req := httptest.NewRequest(http.MethodPost, "/whoami", body)
		req.Header.Set("Content-Type", contentType)

		rec := doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "deckhand")
	})

	t.Run("credential fields establish a transient session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemory()
		t.Cleanup(func() { _ = store.Close() })
		app := newTestApp(t, store)

		body, contentType := multipartBody(t, map[string]string{
			"username": "deckhand",
			"password": "hoist-the-sails",
		})
		req := httptest.NewRequest(http.MethodPost, "/whoami", body)
		req.Header.Set("Content-Type", contentType)

		rec := doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "deckhand")
		require.Equal(t, 0, store.Len())
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("missing credentials get a plain-text prompt", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemory()
		t.Cleanup(func() { _ = store.Close() })
		app := newTestApp(t, store)

		body, contentType := multipartBody(t, map[string]string{"project": "demo"})
		req := httptest.NewRequest(http.MethodPost, "/whoami", body)
		req.Header.Set("Content-Type", contentType)

		rec := doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Login error. Need username and password", rec.Body.String())
		require.NotContains(t, rec.Header().Get("Content-Type"), "text/html")
	})

	t.Run("bad credentials get a plain-text error", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemory()
		t.Cleanup(func() { _ = store.Close() })
		app := newTestApp(t, store)

		body, contentType := multipartBody(t, map[string]string{
			"username": "deckhand",
			"password": "wrong",
		})
		req := httptest.NewRequest(http.MethodPost, "/whoami", body)
		req.Header.Set("Content-Type", contentType)

		rec := doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Login error:")
		require.NotContains(t, rec.Body.String(), "<html")
	})
}

func TestGateway_OversizedMultipart(t *testing.T) {
	t.Parallel()

	store := session.NewMemory()
	app := newTestApp(t, store, internal.WithMaxUploadSize(1024))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "big.bin")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 4096))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/whoami", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := doRequest(app, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	// No side effects: nothing stored, no cookie.
	require.Equal(t, 0, store.Len())
	require.Empty(t, rec.Result().Cookies())
}
