package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeUploads(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "1-cat.png"), []byte("meow"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".upload-123"), []byte("partial"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))
	srv := ServeUploads(root)

	tests := []struct {
		name string
		path string
		code int
		body string
	}{
		{"stored file", "/uploads/1-cat.png", http.StatusOK, "meow"},
		{"missing file", "/uploads/2-dog.png", http.StatusNotFound, ""},
		{"directory listing", "/uploads/", http.StatusNotFound, ""},
		{"subdirectory", "/uploads/sub/", http.StatusNotFound, ""},
		{"in-flight upload", "/uploads/.upload-123", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()

			srv.ServeHTTP(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}
