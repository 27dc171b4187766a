package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/uploads/internal/domain"
)

// --- Mock for TempStorage ---

type MockTempStorage struct {
	mu            sync.Mutex
	files         []domain.TempFile
	listErr       error
	removeErr     map[string]error
	removed       []string
	tempFileCalls int
}

func (m *MockTempStorage) TempFiles() ([]domain.TempFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempFileCalls++
	return m.files, m.listErr
}

func (m *MockTempStorage) RemoveTemp(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.removeErr[name]; err != nil {
		return err
	}
	m.removed = append(m.removed, name)
	return nil
}

func (m *MockTempStorage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempFileCalls
}

// --- Tests ---

func TestTempSweeper_RunSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("removes only files older than max age", func(t *testing.T) {
		storage := &MockTempStorage{files: []domain.TempFile{
			{Name: ".upload-old", SizeBytes: 100, ModTime: now.Add(-2 * time.Hour)},
			{Name: ".upload-new", SizeBytes: 50, ModTime: now.Add(-time.Minute)},
			{Name: ".upload-edge", SizeBytes: 10, ModTime: now.Add(-time.Hour)},
		}}
		sweeper := NewTempSweeper(storage, time.Hour)
		sweeper.now = func() time.Time { return now }

		require.NoError(t, sweeper.RunSweep())

		assert.ElementsMatch(t, []string{".upload-old", ".upload-edge"}, storage.removed)
		stats := sweeper.LastSweepStats()
		assert.Equal(t, 3, stats.FilesScanned)
		assert.Equal(t, 2, stats.FilesDeleted)
		assert.Equal(t, int64(110), stats.BytesReclaimed)
		assert.Empty(t, stats.Errors)
		assert.Equal(t, now, stats.RunAt)
	})

	t.Run("collects removal errors and continues", func(t *testing.T) {
		storage := &MockTempStorage{
			files: []domain.TempFile{
				{Name: ".upload-a", ModTime: now.Add(-2 * time.Hour)},
				{Name: ".upload-b", ModTime: now.Add(-2 * time.Hour)},
			},
			removeErr: map[string]error{".upload-a": errors.New("permission denied")},
		}
		sweeper := NewTempSweeper(storage, time.Hour)
		sweeper.now = func() time.Time { return now }

		require.NoError(t, sweeper.RunSweep())

		assert.Equal(t, []string{".upload-b"}, storage.removed)
		stats := sweeper.LastSweepStats()
		assert.Equal(t, 1, stats.FilesDeleted)
		require.Len(t, stats.Errors, 1)
		assert.Contains(t, stats.Errors[0], "permission denied")
	})

	t.Run("listing error is returned", func(t *testing.T) {
		storage := &MockTempStorage{listErr: errors.New("root gone")}
		sweeper := NewTempSweeper(storage, time.Hour)

		assert.EqualError(t, sweeper.RunSweep(), "root gone")
	})
}

func TestTempSweeper_StartBackgroundSweep(t *testing.T) {
	storage := &MockTempStorage{}
	sweeper := NewTempSweeper(storage, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.StartBackgroundSweep(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return storage.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
