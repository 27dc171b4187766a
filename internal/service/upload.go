package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/itchan-dev/uploads/internal/domain"
	"github.com/itchan-dev/uploads/internal/logger"
	"github.com/itchan-dev/uploads/internal/validation"
)

type FileStorage interface {
	// Save streams fileData to disk under a generated unique name.
	// A read error from fileData aborts the save and leaves no file behind.
	Save(fileData io.Reader, originalFilename, mimeType string) (domain.StoredFile, error)

	// DeleteFile removes a stored file by its generated name.
	DeleteFile(name string) error

	// List returns stored files having one of the given extensions.
	List(extensions []string) ([]domain.GalleryItem, error)
}

// PartReader yields multipart parts in the order they were sent.
// *multipart.Reader implements it.
type PartReader interface {
	NextPart() (*multipart.Part, error)
}

type Upload struct {
	storage           FileStorage
	policy            *validation.Policy
	galleryExtensions []string
}

func NewUpload(storage FileStorage, policy *validation.Policy, galleryExtensions []string) *Upload {
	return &Upload{storage: storage, policy: policy, galleryExtensions: galleryExtensions}
}

// Policy returns the active validation policy.
func (u *Upload) Policy() *validation.Policy {
	return u.policy
}

// Accept validates a single file and stores it. The type check runs before
// any byte is written; the size check runs while streaming, so an oversized
// file is rejected only after MaxSize bytes have been read.
func (u *Upload) Accept(req domain.UploadRequest) (domain.StoredFile, error) {
	if err := u.policy.CheckType(req); err != nil {
		return domain.StoredFile{}, err
	}

	stored, err := u.storage.Save(u.policy.LimitReader(req.Data, req.OriginalFilename), req.OriginalFilename, req.MimeType)
	if err != nil {
		var rejection *domain.Rejection
		if errors.As(err, &rejection) {
			return domain.StoredFile{}, rejection
		}
		return domain.StoredFile{}, err
	}

	logger.Log.Info("file stored",
		"field", req.Field,
		"original", req.OriginalFilename,
		"name", stored.Name,
		"size", stored.SizeBytes)
	return stored, nil
}

// AcceptBatch reads every file part, accepting at most MaxCount files per
// declared field. Files are processed in submission order; the first failure
// aborts the batch and deletes the files already stored from it, so a batch
// is stored either completely or not at all.
//
// Parts without a filename (plain form values, empty file inputs) are skipped.
func (u *Upload) AcceptBatch(ctx context.Context, parts PartReader, fields []domain.FieldSpec) ([]domain.StoredFile, error) {
	limits := make(map[string]int, len(fields))
	for _, f := range fields {
		limits[f.Name] = f.MaxCount
	}
	counts := make(map[string]int, len(fields))

	var stored []domain.StoredFile
	fail := func(err error) ([]domain.StoredFile, error) {
		u.rollback(stored)
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		part, err := parts.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return fail(domain.Reject(domain.ReasonFileTooLarge, "", "request body too large"))
			}
			return fail(fmt.Errorf("failed to read multipart body: %w", err))
		}

		filename := part.FileName()
		if filename == "" {
			part.Close()
			continue
		}

		field := part.FormName()
		maxCount, declared := limits[field]
		if !declared || counts[field] >= maxCount {
			part.Close()
			return fail(domain.Reject(domain.ReasonUnexpectedField, filename, fmt.Sprintf("field %q", field)))
		}
		counts[field]++

		file, err := u.Accept(domain.UploadRequest{
			Field:            field,
			OriginalFilename: filename,
			MimeType:         part.Header.Get("Content-Type"),
			Data:             part,
		})
		part.Close()
		if err != nil {
			return fail(err)
		}
		stored = append(stored, file)
	}

	return stored, nil
}

func (u *Upload) rollback(stored []domain.StoredFile) {
	for _, f := range stored {
		if err := u.storage.DeleteFile(f.Name); err != nil {
			logger.Log.Error("failed to roll back stored file", "name", f.Name, "error", err)
			continue
		}
		logger.Log.Info("rolled back stored file", "name", f.Name)
	}
}

// Gallery lists the stored images, oldest first.
func (u *Upload) Gallery() ([]domain.GalleryItem, error) {
	return u.storage.List(u.galleryExtensions)
}

// MaxFiles is the total number of files fields admit.
func MaxFiles(fields []domain.FieldSpec) int {
	total := 0
	for _, f := range fields {
		total += f.MaxCount
	}
	return total
}
