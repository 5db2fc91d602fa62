package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// handleIndex serves index.html from dir.
func handleIndex(dir string) http.HandlerFunc {
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if info, err := os.Stat(index); err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}

// handleStatic serves regular files below dir. Directories are not listed.
func handleStatic(dir string) http.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(http.Dir(dir)))

	return func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/static")
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+rel)))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

func handleFavicon() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
