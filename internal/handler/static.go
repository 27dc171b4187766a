package handler

import (
	"net/http"
	"strings"
)

// ServeUploads serves stored files from root under UploadsPrefix. The root is
// flat, so anything naming a directory, a nested path or a hidden file (such
// as an in-flight upload) is a 404.
func ServeUploads(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.StripPrefix(UploadsPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}
