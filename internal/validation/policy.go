package validation

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itchan-dev/uploads/internal/domain"
)

// Policy is the set of allowed extensions, MIME types and the size ceiling
// applied to every uploaded file. It is read-only after construction.
type Policy struct {
	Extensions []string `validate:"required,min=1,dive,startswith=."`
	MimeTypes  []string `validate:"required,min=1,dive,contains=/"`
	MaxSize    int64    `validate:"gt=0"`

	extSet  map[string]bool
	mimeSet map[string]bool
}

// NewPolicy builds a Policy. Extensions and MIME types are matched
// case-insensitively.
func NewPolicy(extensions, mimeTypes []string, maxSize int64) (*Policy, error) {
	p := &Policy{
		Extensions: extensions,
		MimeTypes:  mimeTypes,
		MaxSize:    maxSize,
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid validation policy: %w", err)
	}

	p.extSet = BuildAllowedMap(extensions)
	p.mimeSet = BuildAllowedMap(mimeTypes)
	return p, nil
}

func BuildAllowedMap(values ...[]string) map[string]bool {
	allowed := make(map[string]bool)
	for _, list := range values {
		for _, v := range list {
			allowed[strings.ToLower(v)] = true
		}
	}
	return allowed
}

// CheckType rejects req unless both its extension and its declared MIME type
// are allowed.
func (p *Policy) CheckType(req domain.UploadRequest) error {
	ext := strings.ToLower(filepath.Ext(req.OriginalFilename))
	if !p.extSet[ext] || !p.mimeSet[NormalizeMimeType(req.MimeType)] {
		return domain.Reject(domain.ReasonUnsupportedType, req.OriginalFilename, p.describe())
	}
	return nil
}

// AllowsExtension reports whether name has one of the allowed extensions.
func (p *Policy) AllowsExtension(name string) bool {
	return p.extSet[strings.ToLower(filepath.Ext(name))]
}

// describe renders the human-readable list shown in rejections,
// e.g. "only jpeg, jpg, png, pdf files are allowed".
func (p *Policy) describe() string {
	names := make([]string, 0, len(p.Extensions))
	for _, ext := range p.Extensions {
		names = append(names, strings.TrimPrefix(strings.ToLower(ext), "."))
	}
	return fmt.Sprintf("only %s files are allowed", strings.Join(names, ", "))
}

// NormalizeMimeType strips parameters and lower-cases a Content-Type value.
func NormalizeMimeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
