package handler

import (
	"context"
	"html/template"

	"github.com/itchan-dev/uploads/internal/config"
	"github.com/itchan-dev/uploads/internal/domain"
	"github.com/itchan-dev/uploads/internal/service"
)

type UploadService interface {
	AcceptBatch(ctx context.Context, parts service.PartReader, fields []domain.FieldSpec) ([]domain.StoredFile, error)
	Gallery() ([]domain.GalleryItem, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public
	Notice    template.HTML // rendered once at startup
	upload    UploadService
	health    HealthChecker
}

func New(templates map[string]*template.Template, publicCfg config.Public, notice template.HTML, upload UploadService, health HealthChecker) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		Notice:    notice,
		upload:    upload,
		health:    health,
	}
}
