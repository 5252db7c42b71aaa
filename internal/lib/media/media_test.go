package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/recipe-catalog/internal/lib/imagefield"
)

func newStorage(t *testing.T) *FileSystem {
	t.Helper()
	s, err := NewFileSystem(filepath.Join(t.TempDir(), "media"), "/media")
	require.NoError(t, err)
	return s
}

func TestSaveWritesUnderDir(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	rel, err := s.Save(ctx, PhotoDir, &imagefield.File{Name: "abc.jpg", Content: []byte("data")})
	require.NoError(t, err)
	assert.Equal(t, "photos/abc.jpg", rel)

	content, err := os.ReadFile(filepath.Join(s.Root(), "photos", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), content)
}

func TestSaveDoesNotOverwrite(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	first, err := s.Save(ctx, PhotoDir, &imagefield.File{Name: "abc.jpg", Content: []byte("one")})
	require.NoError(t, err)
	second, err := s.Save(ctx, PhotoDir, &imagefield.File{Name: "abc.jpg", Content: []byte("two")})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Regexp(t, `^photos/abc_[0-9a-f]{7}\.jpg$`, second)

	content, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(first)))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), content)
}

func TestSaveStripsDirectoryFromName(t *testing.T) {
	s := newStorage(t)

	rel, err := s.Save(context.Background(), PhotoDir, &imagefield.File{Name: "../../etc/x.png", Content: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "photos/x.png", rel)
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	s := newStorage(t)

	_, err := s.Save(context.Background(), PhotoDir, nil)
	assert.ErrorIs(t, err, imagefield.ErrInvalidImage)
}

func TestDelete(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	rel, err := s.Save(ctx, PhotoDir, &imagefield.File{Name: "abc.jpg", Content: []byte("data")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, rel), "deleting twice is fine")
	assert.NoError(t, s.Delete(ctx, ""))
}

func TestDeleteStaysInsideRoot(t *testing.T) {
	s := newStorage(t)

	outside := filepath.Join(filepath.Dir(s.Root()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	require.NoError(t, s.Delete(context.Background(), "../keep.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestURL(t *testing.T) {
	s := newStorage(t)

	assert.Equal(t, "/media/photos/abc.jpg", s.URL("photos/abc.jpg"))
	assert.Equal(t, "/media/photos/my%20toast%20%231%3F.png", s.URL("photos/my toast #1?.png"))
	assert.Equal(t, "", s.URL(""))
}

func TestSaveHonorsCanceledContext(t *testing.T) {
	s := newStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, PhotoDir, &imagefield.File{Name: "abc.jpg", Content: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}
