// Package assets stores uploaded images on the local filesystem.
package assets

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

var (
	// ErrUnsupportedType is returned for uploads that are not an accepted image type.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned for uploads over the size limit.
	ErrTooLarge = errors.New("image too large")
	// ErrInvalidFolder is returned for an unknown folder tag.
	ErrInvalidFolder = errors.New("invalid folder")
	// ErrNotFound is returned when deleting a URL the store does not own.
	ErrNotFound = errors.New("asset not found")
)

// Folders an image can be stored under.
var Folders = []string{"programs", "podcasts", "news", "team"}

var acceptedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Config represents asset store configuration.
type Config struct {
	Root     string
	BaseURL  string
	MaxBytes int64
}

// Asset describes a stored file.
type Asset struct {
	URL         string
	ContentType string
	Size        int64
}

// Store is a local-filesystem image store.
type Store struct {
	root     string
	baseURL  string
	maxBytes int64
}

// NewStore creates the root directory if needed and returns a store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, errors.New("asset root is required")
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create asset root")
	}
	base := "/" + strings.Trim(cfg.BaseURL, "/")
	if strings.Contains(cfg.BaseURL, "://") {
		base = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Store{root: cfg.Root, baseURL: base, maxBytes: cfg.MaxBytes}, nil
}

// Root returns the directory files are stored in.
func (s *Store) Root() string {
	return s.root
}

// BaseURL returns the URL prefix of stored files.
func (s *Store) BaseURL() string {
	return s.baseURL
}

// MaxBytes returns the upload size limit, or 0 when unlimited.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save stores an image under folder and returns its public URL.
// The filename is only used for logging; stored names are generated.
func (s *Store) Save(ctx context.Context, folder, filename string, r io.Reader) (*Asset, error) {
	if !validFolder(folder) {
		return nil, errors.Mark(errors.Newf("unknown folder %q", folder), ErrInvalidFolder)
	}

	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, errors.Mark(errors.Newf("upload exceeds %d bytes", s.maxBytes), ErrTooLarge)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), acceptedTypes...) {
		return nil, errors.Mark(errors.Newf("content type %s is not accepted", mime.String()), ErrUnsupportedType)
	}

	name := uuid.NewString() + mime.Extension()
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create asset folder")
	}
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return nil, err
	}

	asset := &Asset{
		URL:         s.baseURL + "/" + path.Join(folder, name),
		ContentType: mime.String(),
		Size:        int64(len(data)),
	}
	zlog.Info().Msgf("asset stored: url=%s type=%s size=%d original=%s", asset.URL, asset.ContentType, asset.Size, filename)
	return asset, nil
}

// Delete removes the file behind a URL returned by Save.
func (s *Store) Delete(ctx context.Context, url string) error {
	file, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(file); err != nil {
		if os.IsNotExist(err) {
			return errors.Mark(errors.Newf("asset %s does not exist", url), ErrNotFound)
		}
		return errors.Wrap(err, "failed to delete asset")
	}
	zlog.Info().Msgf("asset deleted: url=%s", url)
	return nil
}

// Owns reports whether url points into the store.
func (s *Store) Owns(url string) bool {
	_, err := s.resolve(url)
	return err == nil
}

func (s *Store) resolve(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return "", errors.Mark(errors.Newf("url %s is outside the asset store", url), ErrNotFound)
	}
	folder, name, ok := strings.Cut(rel, "/")
	if !ok || !validFolder(folder) || name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", errors.Mark(errors.Newf("url %s is outside the asset store", url), ErrNotFound)
	}
	return filepath.Join(s.root, folder, name), nil
}

func validFolder(folder string) bool {
	for _, f := range Folders {
		if f == folder {
			return true
		}
	}
	return false
}

func writeFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create asset file")
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return errors.Wrap(err, "failed to write asset file")
	}
	return errors.Wrap(f.Close(), "failed to close asset file")
}
