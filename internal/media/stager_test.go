package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newStager(t *testing.T) *Stager {
	t.Helper()
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStage_FromBytes(t *testing.T) {
	s := newStager(t)

	h, err := s.Stage(Source{Name: "Car Plate.JPG", Data: []byte("jpeg-bytes")})
	require.NoError(t, err)

	assert.Equal(t, "Car Plate.JPG", h.Name())
	assert.Equal(t, "image/jpeg", h.MIMEType())
	assert.Equal(t, int64(len("jpeg-bytes")), h.Size())
	assert.True(t, h.IsImage())
	assert.False(t, h.IsVideo())
	assert.True(t, strings.HasSuffix(h.Path(), "-car-plate.jpg"), "staged name is slugified: %s", h.Path())
	assert.Equal(t, s.Dir(), filepath.Dir(h.Path()))

	data, err := os.ReadFile(h.Path())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, 1, s.Live())
}

func TestStage_FromPath(t *testing.T) {
	s := newStager(t)

	src := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("not really a video"), 0644))

	h, err := s.Stage(Source{Path: src})
	require.NoError(t, err)

	assert.Equal(t, "clip.mp4", h.Name())
	assert.True(t, h.IsVideo())
	assert.NotEqual(t, src, h.Path(), "preview must be a copy")
}

func TestStage_SniffsWhenExtensionUnknown(t *testing.T) {
	s := newStager(t)

	h, err := s.Stage(Source{Name: "evidence", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "image/png", h.MIMEType())
}

func TestStage_DeclaredMIMEWins(t *testing.T) {
	s := newStager(t)

	h, err := s.Stage(Source{Name: "photo.bin", Data: []byte("x"), MIMEType: "image/heic"})
	require.NoError(t, err)
	assert.Equal(t, "image/heic", h.MIMEType())
}

func TestStage_Errors(t *testing.T) {
	s := newStager(t)

	_, err := s.Stage(Source{})
	assert.Error(t, err, "no name and no path")

	_, err = s.Stage(Source{Path: filepath.Join(t.TempDir(), "missing.jpg")})
	assert.Error(t, err)

	_, err = s.Stage(Source{Path: t.TempDir()})
	assert.Error(t, err, "directories cannot be staged")

	assert.Zero(t, s.Live())
}

func TestStage_SameNameGetsDistinctFiles(t *testing.T) {
	s := newStager(t)

	a, err := s.Stage(Source{Name: "a.jpg", Data: []byte("1")})
	require.NoError(t, err)
	b, err := s.Stage(Source{Name: "a.jpg", Data: []byte("2")})
	require.NoError(t, err)

	assert.NotEqual(t, a.Path(), b.Path())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestHandle_ReleaseExactlyOnce(t *testing.T) {
	s := newStager(t)

	h, err := s.Stage(Source{Name: "a.jpg", Data: []byte("1")})
	require.NoError(t, err)
	path := h.Path()

	require.NoError(t, h.Release())
	assert.True(t, h.Released())
	assert.Empty(t, h.Path())
	assert.NoFileExists(t, path)
	assert.Zero(t, s.Live())

	assert.ErrorIs(t, h.Release(), ErrAlreadyReleased)
}

func TestStager_CloseReleasesEverything(t *testing.T) {
	s, err := NewStager(t.TempDir())
	require.NoError(t, err)

	var handles []*Handle
	for _, name := range []string{"a.jpg", "b.png", "c.mov"} {
		h, err := s.Stage(Source{Name: name, Data: []byte(name)})
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.NoError(t, handles[1].Release())

	require.NoError(t, s.Close())

	for _, h := range handles {
		assert.True(t, h.Released())
	}
	assert.Zero(t, s.Live())
	assert.NoDirExists(t, s.Dir())

	require.NoError(t, s.Close(), "second close is a no-op")

	_, err = s.Stage(Source{Name: "late.jpg", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrStagerClosed)
}

func TestStagedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Photo 1.JPG", "photo-1.jpg"},
		{"../../etc/passwd", "etc-passwd"},
		{"???.png", "attachment.png"},
		{"Jalan Bukit Bintang.mov", "jalan-bukit-bintang.mov"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, stagedName(tt.in))
		})
	}
}
