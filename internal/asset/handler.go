package asset

import (
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func init() {
	// Browsers refuse to stream-compile wasm served with another type.
	if err := mime.AddExtensionType(".wasm", "application/wasm"); err != nil {
		slog.Error("register wasm mime type", "error", err)
	}
}

// Handler serves the built frontend: index.html, the JS bundle and the
// engine's wasm binary.
type Handler struct {
	dir string
}

// NewHandler creates a handler serving files from dir.
func NewHandler(dir string) *Handler {
	if _, err := os.Stat(dir); err != nil {
		slog.Warn("static dir not found", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Serve returns an http.Handler for the frontend. Unknown paths fall back to
// index.html. Files under /assets/ carry content hashes in their names and
// are cached forever; everything else is revalidated.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		if strings.HasPrefix(clean, "/assets/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		if clean != "/" && !h.exists(clean) {
			http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func (h *Handler) exists(urlPath string) bool {
	info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(urlPath)))
	return err == nil && !info.IsDir()
}
