// Package web serves the landing page and its assets.
package web

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// Prefix is the URL path the assets are mounted under.
const Prefix = "/static/"

//go:embed static
var staticFiles embed.FS

// assets serves files by exact name. http.FileServer is not used because it
// redirects */index.html to the directory, and the landing URL must stay stable.
type assets struct {
	root fs.FS
}

// Handler serves assets from dir, or from the embedded copy when dir is empty.
func Handler(dir string) (http.Handler, error) {
	if strings.TrimSpace(dir) == "" {
		sub, err := fs.Sub(staticFiles, "static")
		if err != nil {
			return nil, fmt.Errorf("embedded static files: %w", err)
		}
		return assets{root: sub}, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}
	return assets{root: os.DirFS(dir)}, nil
}

// Register mounts the asset handler on mux.
func Register(mux *http.ServeMux, dir string) error {
	handler, err := Handler(dir)
	if err != nil {
		return err
	}
	mux.Handle("GET "+Prefix, handler)
	return nil
}

func (a assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(r.URL.Path, Prefix)), "/")
	if name == "" {
		name = "index.html"
	}

	f, err := a.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "unable to open asset", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "asset is not seekable", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}
