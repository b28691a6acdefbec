package assets

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	s, err := NewStore(Config{Root: t.TempDir(), BaseURL: "/media/", MaxBytes: maxBytes})
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 1024)
	assert.Equal(t, "/media", s.BaseURL())

	asset, err := s.Save(ctx, "programs", "cover.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", asset.ContentType)
	assert.True(t, strings.HasPrefix(asset.URL, "/media/programs/"))
	assert.True(t, strings.HasSuffix(asset.URL, ".png"))
	assert.Equal(t, int64(len(pngHeader)), asset.Size)
	assert.True(t, s.Owns(asset.URL))

	stored := filepath.Join(s.Root(), "programs", filepath.Base(asset.URL))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, s.Delete(ctx, asset.URL))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.Delete(ctx, asset.URL), ErrNotFound)
}

func TestStore_SaveRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 16)

	tests := []struct {
		name     string
		folder   string
		data     []byte
		expected error
	}{
		{"unknown folder", "secrets", gifHeader, ErrInvalidFolder},
		{"plain text", "news", []byte("hello"), ErrUnsupportedType},
		{"too large", "news", pngHeader, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(ctx, tt.folder, "upload", bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestStore_GIF(t *testing.T) {
	s := newTestStore(t, 0)
	asset, err := s.Save(context.Background(), "team", "avatar.gif", bytes.NewReader(gifHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/gif", asset.ContentType)
	assert.True(t, strings.HasSuffix(asset.URL, ".gif"))
}

func TestStore_Owns(t *testing.T) {
	s := newTestStore(t, 0)

	tests := []struct {
		url      string
		expected bool
	}{
		{"/media/news/abc.png", true},
		{"/media/news/", false},
		{"/media/other/abc.png", false},
		{"/media/news/../secret", false},
		{"/media/news/.hidden", false},
		{"https://cdn.example.com/news/abc.png", false},
		{"/elsewhere/news/abc.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Owns(tt.url))
		})
	}
}

func TestNewStore_RequiresRoot(t *testing.T) {
	_, err := NewStore(Config{})
	assert.Error(t, err)
}
