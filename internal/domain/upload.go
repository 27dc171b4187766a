package domain

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// UploadRequest is one incoming file of a multipart request.
// Data is consumed exactly once.
type UploadRequest struct {
	Field            string
	OriginalFilename string
	MimeType         string
	Data             io.Reader
}

// StoredFile is an accepted upload after it has been written to disk.
type StoredFile struct {
	Name             string // generated, unique within Dir
	OriginalFilename string
	SizeBytes        int64
	MimeType         string
	Dir              string
}

// TempFile is a partially written upload left in the storage root.
type TempFile struct {
	Name      string
	SizeBytes int64
	ModTime   time.Time
}

// FieldSpec describes a multipart field a route accepts files in.
type FieldSpec struct {
	Name     string
	MaxCount int
}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnexpectedField = errors.New("unexpected field")
)

// Reason is the kind of a rejection.
type Reason int

const (
	ReasonUnsupportedType Reason = iota + 1
	ReasonFileTooLarge
	ReasonUnexpectedField
)

func (r Reason) String() string {
	switch r {
	case ReasonUnsupportedType:
		return ErrUnsupportedType.Error()
	case ReasonFileTooLarge:
		return ErrFileTooLarge.Error()
	case ReasonUnexpectedField:
		return ErrUnexpectedField.Error()
	default:
		return "unknown"
	}
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonUnsupportedType:
		return ErrUnsupportedType
	case ReasonFileTooLarge:
		return ErrFileTooLarge
	case ReasonUnexpectedField:
		return ErrUnexpectedField
	default:
		return nil
	}
}

// Rejection is returned when a file fails the validation policy.
// errors.Is matches it against the sentinel for its Reason.
type Rejection struct {
	Reason   Reason
	Filename string
	Detail   string
}

func (r *Rejection) Error() string {
	msg := r.Reason.String()
	if r.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, r.Detail)
	}
	if r.Filename != "" {
		msg = fmt.Sprintf("%s (file: %s)", msg, r.Filename)
	}
	return msg
}

func (r *Rejection) Is(target error) bool {
	return target != nil && target == r.Reason.sentinel()
}

func Reject(reason Reason, filename, detail string) *Rejection {
	return &Rejection{Reason: reason, Filename: filename, Detail: detail}
}

// ReasonOf returns the rejection reason wrapped in err, if any.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return 0, false
}
