package setup

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"time"

	"github.com/itchan-dev/uploads/internal/config"
	"github.com/itchan-dev/uploads/internal/handler"
	"github.com/itchan-dev/uploads/internal/markdown"
	"github.com/itchan-dev/uploads/internal/middleware/ratelimiter"
	"github.com/itchan-dev/uploads/internal/service"
	fsstorage "github.com/itchan-dev/uploads/internal/storage/fs"
	"github.com/itchan-dev/uploads/internal/validation"
	"github.com/itchan-dev/uploads/templates"
)

const (
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"

	// idle per-IP limiters are dropped after this long
	rateLimiterExpiration = time.Hour
)

type Dependencies struct {
	Handler     *handler.Handler
	Public      config.Public
	Storage     *fsstorage.Storage
	RateLimiter *ratelimiter.ClientRateLimiter // nil when upload rate limiting is disabled
	Sweeper     *service.TempSweeper
	CancelFunc  context.CancelFunc
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	return setupWithTemplates(cfg, templates.FS)
}

func setupWithTemplates(cfg *config.Config, tmplFS fs.FS) (*Dependencies, error) {
	public := cfg.Public

	policy, err := validation.NewPolicy(public.AllowedExtensions, public.AllowedMimeTypes, public.MaxFileSize)
	if err != nil {
		return nil, err
	}

	storage, err := fsstorage.New(public.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	notice, err := markdown.New().Render(public.Notice)
	if err != nil {
		return nil, fmt.Errorf("failed to render notice: %w", err)
	}

	tmpls, err := loadTemplates(tmplFS)
	if err != nil {
		return nil, err
	}

	upload := service.NewUpload(storage, policy, public.GalleryExtensions)
	h := handler.New(tmpls, public, notice, upload, storage)

	var limiter *ratelimiter.ClientRateLimiter
	if public.UploadRateLimit > 0 {
		burst := float64(public.UploadRateBurst)
		if burst < 1 {
			burst = 1
		}
		limiter = ratelimiter.New(public.UploadRateLimit, burst, rateLimiterExpiration)
	}

	// Create cancellable context for background tasks
	ctx, cancel := context.WithCancel(context.Background())
	sweeper := service.NewTempSweeper(storage, public.TempMaxAge)
	if public.TempSweepInterval > 0 {
		sweeper.StartBackgroundSweep(ctx, public.TempSweepInterval)
	}

	return &Dependencies{
		Handler:     h,
		Public:      public,
		Storage:     storage,
		RateLimiter: limiter,
		Sweeper:     sweeper,
		CancelFunc:  cancel,
	}, nil
}

// Cleanup stops background work owned by the dependencies.
func (d *Dependencies) Cleanup() {
	d.CancelFunc()
	if d.RateLimiter != nil {
		d.RateLimiter.Stop()
	}
}

func bytesToMB(bytes int64) int64 {
	return bytes / (1024 * 1024)
}

// humanSize renders a byte count as B, KB or MB with one decimal.
func humanSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", validation.FormatSizeMB(bytes))
	}
}

// loadTemplates parses every page template together with the base layout
// and the shared partials.
func loadTemplates(tmplFS fs.FS) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(tmplFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	funcs := template.FuncMap{
		"bytesToMB": bytesToMB,
		"humanSize": humanSize,
	}

	tmpls := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".html" || name == baseTemplate || name == partialsTemplate {
			continue
		}
		t, err := template.New(baseTemplate).Funcs(funcs).ParseFS(tmplFS, baseTemplate, name, partialsTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tmpls[name] = t
	}
	if len(tmpls) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return tmpls, nil
}
