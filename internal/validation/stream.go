package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/itchan-dev/uploads/internal/domain"
)

// LimitReader wraps src so that reading more than MaxSize bytes fails with a
// file-too-large rejection. At most one byte past the limit is consumed from
// src. Exhausting the request-wide body cap is reported the same way.
func (p *Policy) LimitReader(src io.Reader, filename string) io.Reader {
	return &sizeLimitedReader{r: src, max: p.MaxSize, filename: filename}
}

type sizeLimitedReader struct {
	r        io.Reader
	max      int64
	n        int64
	filename string
}

func (l *sizeLimitedReader) Read(b []byte) (int, error) {
	if l.n > l.max {
		return 0, l.tooLarge()
	}
	if room := l.max - l.n + 1; int64(len(b)) > room {
		b = b[:room]
	}

	n, err := l.r.Read(b)
	l.n += int64(n)
	if l.n > l.max {
		return n, l.tooLarge()
	}
	if err != nil && err != io.EOF {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, l.tooLarge()
		}
	}
	return n, err
}

func (l *sizeLimitedReader) tooLarge() error {
	return domain.Reject(domain.ReasonFileTooLarge, l.filename, fmt.Sprintf("max limit is %.0f MB", FormatSizeMB(l.max)))
}
