package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itchan-dev/uploads/internal/domain"
	"github.com/itchan-dev/uploads/internal/logger"
)

// tempPrefix marks in-flight uploads. Listings skip dot files.
const tempPrefix = ".upload-"

// Storage keeps uploaded files flat inside a single root directory.
type Storage struct {
	rootPath string
	namer    *Namer
}

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p, namer: NewNamer()}, nil
}

// Root is the directory files are stored in.
func (s *Storage) Root() string {
	return s.rootPath
}

// Save streams fileData into a temporary file and moves it to a freshly
// generated name once the stream has been fully read. If reading fails,
// including a rejection raised by the reader itself, nothing is left behind.
func (s *Storage) Save(fileData io.Reader, originalFilename, mimeType string) (domain.StoredFile, error) {
	tmp, err := os.CreateTemp(s.rootPath, tempPrefix+"*")
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, fileData)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to flush file data: %w", closeErr)
	}
	if err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Log.Warn("failed to remove partial upload", "path", tmpPath, "error", rmErr)
		}
		return domain.StoredFile{}, fmt.Errorf("failed to copy file data: %w", err)
	}

	name := s.namer.Name(originalFilename)
	if err := os.Rename(tmpPath, filepath.Join(s.rootPath, name)); err != nil {
		os.Remove(tmpPath) // Best effort, ignore error here.
		return domain.StoredFile{}, fmt.Errorf("failed to move upload into place: %w", err)
	}

	return domain.StoredFile{
		Name:             name,
		OriginalFilename: originalFilename,
		SizeBytes:        written,
		MimeType:         mimeType,
		Dir:              s.rootPath,
	}, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (s *Storage) DeleteFile(name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns the regular files whose extension is one of extensions
// (case-insensitive), sorted by stored name, i.e. oldest first.
func (s *Storage) List(extensions []string) ([]domain.GalleryItem, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var items []domain.GalleryItem
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		items = append(items, domain.GalleryItem{
			Name:             e.Name(),
			OriginalFilename: OriginalName(e.Name()),
			SizeBytes:        info.Size(),
			ModTime:          info.ModTime(),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// TempFiles lists the temp files of uploads in progress or interrupted by a
// crash.
func (s *Storage) TempFiles() ([]domain.TempFile, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var files []domain.TempFile
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.TempFile{
			Name:      e.Name(),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	return files, nil
}

// RemoveTemp deletes a temp file returned by TempFiles.
func (s *Storage) RemoveTemp(name string) error {
	if name != filepath.Base(name) || !strings.HasPrefix(name, tempPrefix) {
		return fmt.Errorf("%w: %q", errInvalidName, name)
	}
	err := os.Remove(filepath.Join(s.rootPath, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete temp file: %w", err)
	}
	return nil
}

// Ping reports whether the root is a writable directory.
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return fmt.Errorf("storage root unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", s.rootPath)
	}
	probe, err := os.CreateTemp(s.rootPath, tempPrefix+"probe-*")
	if err != nil {
		return fmt.Errorf("storage root is not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

var errInvalidName = errors.New("invalid file name")

func (s *Storage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return filepath.Join(s.rootPath, name), nil
}
