package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/itchan-dev/uploads/internal/domain"
	apperrors "github.com/itchan-dev/uploads/internal/errors"
	"github.com/itchan-dev/uploads/internal/logger"
	"github.com/itchan-dev/uploads/internal/middleware/metrics"
	"github.com/itchan-dev/uploads/internal/service"
	"github.com/itchan-dev/uploads/internal/utils"
	"github.com/itchan-dev/uploads/internal/validation"
)

type uploadRoute struct {
	Path   string
	Title  string
	Fields []domain.FieldSpec
}

var (
	singleRoute = uploadRoute{
		Path:   "/upload-single",
		Title:  "Single file",
		Fields: []domain.FieldSpec{{Name: "file", MaxCount: 1}},
	}
	multipleRoute = uploadRoute{
		Path:   "/upload-multiple",
		Title:  "Multiple files",
		Fields: []domain.FieldSpec{{Name: "files", MaxCount: 3}},
	}
	differentFilesRoute = uploadRoute{
		Path:  "/upload-different-files",
		Title: "Image and documents",
		Fields: []domain.FieldSpec{
			{Name: "image", MaxCount: 1},
			{Name: "document", MaxCount: 2},
		},
	}
	limitRoute = uploadRoute{
		Path:   "/upload-with-limit",
		Title:  "Single file with size limit",
		Fields: []domain.FieldSpec{{Name: "file", MaxCount: 1}},
	}

	// order of the forms on the index page
	uploadRoutes = []uploadRoute{singleRoute, multipleRoute, differentFilesRoute, limitRoute}
)

// errorMapper turns an upload failure into the response sent to the client.
type errorMapper func(err error, maxFileSize int64) *apperrors.ErrorWithStatusCode

func uploadError(err error, _ int64) *apperrors.ErrorWithStatusCode {
	return apperrors.WithStatus(err, "Error: "+err.Error(), http.StatusBadRequest)
}

func limitedUploadError(err error, maxFileSize int64) *apperrors.ErrorWithStatusCode {
	if errors.Is(err, domain.ErrFileTooLarge) {
		msg := fmt.Sprintf("File is too large. Max limit is %.0fMB.", validation.FormatSizeMB(maxFileSize))
		return apperrors.WithStatus(err, msg, http.StatusRequestEntityTooLarge)
	}
	return apperrors.WithStatus(err, "Error uploading file: "+err.Error(), http.StatusBadRequest)
}

func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, singleRoute, uploadError)
}

func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, multipleRoute, uploadError)
}

func (h *Handler) UploadDifferentFiles(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, differentFilesRoute, uploadError)
}

// UploadWithLimit answers 413 when the file exceeds the size limit.
func (h *Handler) UploadWithLimit(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, limitRoute, limitedUploadError)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, route uploadRoute, mapErr errorMapper) {
	log := logger.FromContext(r.Context()).With("route", route.Path)
	validation.LimitRequestBody(w, r, service.MaxFiles(route.Fields), h.Public.MaxFileSize)

	parts, err := r.MultipartReader()
	if err != nil {
		log.Warn("not a multipart request", "error", err)
		metrics.ObserveUpload(route.Path, metrics.OutcomeError, 0, 0)
		utils.WriteErrorAndStatusCode(w, mapErr(fmt.Errorf("expected multipart form data: %w", err), h.Public.MaxFileSize))
		return
	}

	stored, err := h.upload.AcceptBatch(r.Context(), parts, route.Fields)
	if err != nil {
		log.Warn("upload rejected", "error", err)
		metrics.ObserveUpload(route.Path, outcomeOf(err), 0, 0)
		utils.WriteErrorAndStatusCode(w, mapErr(err, h.Public.MaxFileSize))
		return
	}

	var total int64
	for _, f := range stored {
		total += f.SizeBytes
	}
	log.Info("upload accepted", "files", len(stored), "bytes", total)
	metrics.ObserveUpload(route.Path, metrics.OutcomeAccepted, len(stored), total)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func outcomeOf(err error) string {
	reason, ok := domain.ReasonOf(err)
	if !ok {
		return metrics.OutcomeError
	}
	switch reason {
	case domain.ReasonUnsupportedType:
		return metrics.OutcomeUnsupportedType
	case domain.ReasonFileTooLarge:
		return metrics.OutcomeTooLarge
	case domain.ReasonUnexpectedField:
		return metrics.OutcomeUnexpectedField
	default:
		return metrics.OutcomeError
	}
}
