package fs

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamerToken(t *testing.T) {
	t.Run("strictly increasing when the clock stands still", func(t *testing.T) {
		frozen := time.Unix(1700000000, 0)
		n := NewNamer()
		n.now = func() time.Time { return frozen }

		first := n.Token()
		second := n.Token()
		third := n.Token()

		assert.Equal(t, frozen.UnixNano(), first)
		assert.Equal(t, first+1, second)
		assert.Equal(t, second+1, third)
	})

	t.Run("never goes backwards with the clock", func(t *testing.T) {
		clock := time.Unix(1700000000, 500)
		n := NewNamer()
		n.now = func() time.Time { return clock }

		first := n.Token()
		clock = clock.Add(-time.Second)
		assert.Greater(t, n.Token(), first)
	})

	t.Run("unique across goroutines", func(t *testing.T) {
		n := NewNamer()
		n.now = func() time.Time { return time.Unix(1700000000, 0) }

		const goroutines, perGoroutine = 8, 200
		var mu sync.Mutex
		seen := make(map[int64]bool, goroutines*perGoroutine)
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					tok := n.Token()
					mu.Lock()
					seen[tok] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, goroutines*perGoroutine)
	})
}

func TestNamerName(t *testing.T) {
	n := NewNamer()

	a := n.Name("a.png")
	b := n.Name("b.png")

	assert.True(t, strings.HasSuffix(a, "-a.png"))
	assert.True(t, strings.HasSuffix(b, "-b.png"))
	assert.NotEqual(t, a, b)

	token, _, ok := strings.Cut(a, "-")
	require.True(t, ok)
	_, err := strconv.ParseInt(token, 10, 64)
	assert.NoError(t, err)
}

func TestSanitize(t *testing.T) {
	n := NewNamer()

	tests := []struct {
		in   string
		want string
	}{
		{"cat.jpg", "cat.jpg"},
		{"my photo.png", "my photo.png"},
		{"../../etc/passwd.jpg", "passwd.jpg"},
		{`C:\Users\me\scan.pdf`, "scan.pdf"},
		{"a&b.png", "a&b.png"},
		{"it's.jpg", "it's.jpg"},
		{"a<b.png", "a<b.png"},
		{"a&lt;b.png", "a&lt;b.png"},
		{"my <photo>.png", "my <photo>.png"},
		{"<script>alert(1)</script>.png", "script>.png"},
		{".png", "file.png"},
		{"..", "file"},
		{"", "file"},
		{"tab\there.png", "tabhere.png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Sanitize(tt.in))
		})
	}
}

func TestOriginalName(t *testing.T) {
	assert.Equal(t, "cat.jpg", OriginalName("1700000000000000000-cat.jpg"))
	assert.Equal(t, "my-cat.jpg", OriginalName("1700000000000000000-my-cat.jpg"))
	assert.Equal(t, "my-cat.jpg", OriginalName("my-cat.jpg"))
	assert.Equal(t, "plain.jpg", OriginalName("plain.jpg"))
}
