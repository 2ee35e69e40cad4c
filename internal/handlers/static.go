package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the prebuilt frontend bundle. Paths that do not match
// a file fall back to index.html so client-side routes resolve.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))

	if !strings.HasPrefix(name, filepath.Clean(h.dir)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}

	http.ServeFile(w, r, name)
}
