package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/itchan-dev/uploads/internal/domain"
	apperrors "github.com/itchan-dev/uploads/internal/errors"
	"github.com/itchan-dev/uploads/internal/logger"
	"github.com/itchan-dev/uploads/internal/utils"
)

// UploadsPrefix is the URL path stored files are served under.
const UploadsPrefix = "/uploads/"

type formField struct {
	Name     string
	Label    string
	MaxCount int
}

type uploadForm struct {
	Action string
	Title  string
	Accept string
	Fields []formField
}

type indexPage struct {
	Notice      template.HTML
	Accept      string
	MaxFileSize int64
	Forms       []uploadForm
	Files       []domain.GalleryItem
}

// GalleryGet renders the upload forms and every stored image.
func (h *Handler) GalleryGet(w http.ResponseWriter, r *http.Request) {
	files, err := h.upload.Gallery()
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list uploads", "error", err)
		utils.WriteErrorAndStatusCode(w, apperrors.WithStatus(err, "Unable to scan uploads directory.", http.StatusInternalServerError))
		return
	}
	for i := range files {
		files[i].URL = UploadsPrefix + url.PathEscape(files[i].Name)
	}

	h.renderTemplate(w, r, "index.html", indexPage{
		Notice:      h.Notice,
		Accept:      strings.Join(h.Public.AllowedExtensions, ", "),
		MaxFileSize: h.Public.MaxFileSize,
		Forms:       h.forms(),
		Files:       files,
	})
}

func (h *Handler) forms() []uploadForm {
	accept := strings.Join(h.Public.AllowedExtensions, ",")
	forms := make([]uploadForm, 0, len(uploadRoutes))
	for _, route := range uploadRoutes {
		form := uploadForm{Action: route.Path, Title: route.Title, Accept: accept}
		for _, f := range route.Fields {
			label := f.Name
			if f.MaxCount > 1 {
				label = fmt.Sprintf("%s (up to %d)", f.Name, f.MaxCount)
			}
			form.Fields = append(form.Fields, formField{Name: f.Name, Label: label, MaxCount: f.MaxCount})
		}
		forms = append(forms, form)
	}
	return forms
}
