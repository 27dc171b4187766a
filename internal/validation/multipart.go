package validation

import (
	"net/http"
)

// multipartOverhead covers boundaries, part headers and small form fields.
const multipartOverhead = 1 << 20

// LimitRequestBody caps the whole request body so a client cannot stream an
// unbounded number of bytes. Per-file limits are enforced separately by
// Policy.LimitReader while the parts are read.
//
// Reads past the cap fail with *http.MaxBytesError, which the upload path
// reports as file-too-large. The connection itself stays open: the writers
// wrapped around w by the middleware chain hide it from MaxBytesReader.
func LimitRequestBody(w http.ResponseWriter, r *http.Request, maxFiles int, maxFileSize int64) {
	r.Body = http.MaxBytesReader(w, r.Body, CalculateMaxRequestSize(int64(maxFiles)*maxFileSize, multipartOverhead))
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
