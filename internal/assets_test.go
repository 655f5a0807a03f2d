package internal_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flowdeck/internal"
	"github.com/dmitrymomot/flowdeck/pkg/session"
)

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()

	t.Run("serves known extensions to authenticated callers", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAsset(t, root, "css/deck.css", "body{margin:0}")
		writeAsset(t, root, "js/deck.js", "void 0;")

		store := session.NewMemory()
		app := newTestApp(t, store, internal.WithAssetDir(root))

		req := httptest.NewRequest(http.MethodGet, "/css/deck.css", nil)
		req.AddCookie(authenticate(t, store))
		rec := doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/css", rec.Header().Get("Content-Type"))
		require.Equal(t, "body{margin:0}", rec.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/js/deck.js", nil)
		req.AddCookie(authenticate(t, store))
		rec = doRequest(app, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))
	})

	t.Run("no session gets the login page, not the file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAsset(t, root, "css/deck.css", "body{margin:0}")

		app := newTestApp(t, session.NewMemory(), internal.WithAssetDir(root))

		rec := doRequest(app, httptest.NewRequest(http.MethodGet, "/css/deck.css", nil))
		require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		require.Contains(t, rec.Body.String(), `name="username"`)
	})

	t.Run("missing file falls through to routing", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemory()
		app := newTestApp(t, store, internal.WithAssetDir(t.TempDir()))

		req := httptest.NewRequest(http.MethodGet, "/css/missing.css", nil)
		req.AddCookie(authenticate(t, store))
		rec := doRequest(app, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown extension is not served", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeAsset(t, root, "secrets.yaml", "password: hunter2")

		store := session.NewMemory()
		app := newTestApp(t, store, internal.WithAssetDir(root))

		req := httptest.NewRequest(http.MethodGet, "/secrets.yaml", nil)
		req.AddCookie(authenticate(t, store))
		rec := doRequest(app, req)
		require.NotContains(t, rec.Body.String(), "hunter2")
	})

	t.Run("path traversal cannot escape the root", func(t *testing.T) {
		t.Parallel()
		parent := t.TempDir()
		root := filepath.Join(parent, "web")
		writeAsset(t, parent, "outside.css", ".leak{}")
		require.NoError(t, os.MkdirAll(root, 0o755))

		store := session.NewMemory()
		app := newTestApp(t, store, internal.WithAssetDir(root))

		req := httptest.NewRequest(http.MethodGet, "/../outside.css", nil)
		// Bypass the client-side normalization httptest would apply.
		req.URL.Path = "/../outside.css"
		req.AddCookie(authenticate(t, store))
		rec := doRequest(app, req)
		require.NotContains(t, rec.Body.String(), ".leak")
	})

	t.Run("roots searched in order", func(t *testing.T) {
		t.Parallel()
		first := t.TempDir()
		second := t.TempDir()
		writeAsset(t, first, "app.js", "first")
		writeAsset(t, second, "app.js", "second")

		store := session.NewMemory()
		app := newTestApp(t, store,
			internal.WithAssetDir(first),
			internal.WithAssetDir(second),
		)

		req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
		req.AddCookie(authenticate(t, store))
		rec := doRequest(app, req)
		require.Equal(t, "first", rec.Body.String())
	})
}
