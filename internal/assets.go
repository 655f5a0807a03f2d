package internal

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// assetContentTypes maps the file extensions the static resolver serves
// to their content types. Anything else falls through to the routed
// handler.
var assetContentTypes = map[string]string{
	".js":   "application/javascript",
	".css":  "text/css",
	".png":  "image/png",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".eot":  "application/vnd.ms-fontobject",
	".svg":  "image/svg+xml",
	".ttf":  "application/octet-stream",
	".woff": "application/x-font-woff",
}

// serveStaticAsset writes a whitelisted static file when an authenticated
// GET maps to one under the asset search path. It reports false - so the
// gateway falls through to the routed handler - when the extension is not
// in the asset map or the file exists in none of the roots.
func (a *App) serveStaticAsset(c Context) bool {
	r := c.Request()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	contentType, ok := assetContentTypes[strings.ToLower(path.Ext(r.URL.Path))]
	if !ok {
		return false
	}

	full, ok := a.resolveAsset(r.URL.Path)
	if !ok {
		return false
	}

	c.SetHeader("Content-Type", contentType)
	http.ServeFile(c.Response(), r, full)
	return true
}

// resolveAsset finds the first root containing the requested path.
// The path is anchored below the root so ".." segments cannot escape it.
func (a *App) resolveAsset(urlPath string) (string, bool) {
	rel := path.Clean("/" + urlPath)
	if rel == "/" {
		return "", false
	}

	for _, root := range a.assetRoots {
		full := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		return full, true
	}
	return "", false
}
