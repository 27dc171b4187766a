package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePublic(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(content), 0o600))
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxFileSize)
	assert.ElementsMatch(t, []string{".jpeg", ".jpg", ".png", ".pdf"}, cfg.AllowedExtensions)
	assert.ElementsMatch(t, []string{".jpg", ".jpeg", ".png"}, cfg.GalleryExtensions)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestMustLoad(t *testing.T) {
	t.Run("overrides defaults with file values", func(t *testing.T) {
		dir := writePublic(t, "port: 8081\nuploads_dir: /tmp/media\nread_timeout: 5s\nlog_json: true\n")

		cfg := MustLoad(dir)

		assert.Equal(t, 8081, cfg.Public.Port)
		assert.Equal(t, "/tmp/media", cfg.Public.UploadsDir)
		assert.Equal(t, 5*time.Second, cfg.Public.ReadTimeout)
		assert.True(t, cfg.Public.LogJSON)
		// untouched keys keep defaults
		assert.Equal(t, int64(5*MiB), cfg.Public.MaxFileSize)
	})

	t.Run("loads repository config", func(t *testing.T) {
		cfg := MustLoad(filepath.Join("..", "..", "config"))

		assert.Equal(t, 3000, cfg.Public.Port)
		assert.NotEmpty(t, cfg.Public.Notice)
		assert.Equal(t, 10*time.Minute, cfg.Public.TempSweepInterval)
	})

	t.Run("panics when file is missing", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(t.TempDir()) })
	})

	t.Run("panics on malformed yaml", func(t *testing.T) {
		dir := writePublic(t, "port: [unterminated\n")
		assert.Panics(t, func() { MustLoad(dir) })
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Public)
	}{
		{"zero port", func(p *Public) { p.Port = 0 }},
		{"port out of range", func(p *Public) { p.Port = 70000 }},
		{"empty uploads dir", func(p *Public) { p.UploadsDir = "" }},
		{"non-positive max size", func(p *Public) { p.MaxFileSize = 0 }},
		{"no allowed extensions", func(p *Public) { p.AllowedExtensions = nil }},
		{"extension without dot", func(p *Public) { p.AllowedExtensions = []string{"png"} }},
		{"mime without slash", func(p *Public) { p.AllowedMimeTypes = []string{"png"} }},
		{"negative rate", func(p *Public) { p.UploadRateLimit = -1 }},
		{"unknown log level", func(p *Public) { p.LogLevel = "verbose" }},
		{"sweep without max age", func(p *Public) { p.TempMaxAge = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
