package fs

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Namer generates destination names of the form "<token>-<original name>".
// The token is the wall clock in Unix nanoseconds, bumped so that it is
// strictly increasing for the lifetime of the Namer; two files named within
// the same clock tick still get distinct tokens.
type Namer struct {
	last atomic.Int64
	now  func() time.Time
}

func NewNamer() *Namer {
	return &Namer{now: time.Now}
}

// Token returns the next unique token.
func (n *Namer) Token() int64 {
	for {
		prev := n.last.Load()
		next := n.now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if n.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// Name returns a fresh destination name for originalFilename.
func (n *Namer) Name(originalFilename string) string {
	return strconv.FormatInt(n.Token(), 10) + "-" + n.Sanitize(originalFilename)
}

// Sanitize reduces a client-supplied filename to a safe base name: directory
// components, control characters and leading dots are removed, everything
// else (extension included) is kept verbatim. Names are escaped where they
// are rendered, not here.
func (n *Namer) Sanitize(originalFilename string) string {
	name := strings.ReplaceAll(originalFilename, `\`, "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '/' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch {
	case name == "" || name == "." || name == "..":
		name = "file"
	case strings.HasPrefix(name, "."):
		name = "file" + name
	}
	return name
}

// OriginalName recovers the original filename from a generated name.
func OriginalName(stored string) string {
	token, rest, ok := strings.Cut(stored, "-")
	if !ok {
		return stored
	}
	if _, err := strconv.ParseInt(token, 10, 64); err != nil {
		return stored
	}
	return rest
}
