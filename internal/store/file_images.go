package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/models"
)

// fileImageStorage keeps images under a local directory. The HTTP server
// exposes that directory at mediaURL.
type fileImageStorage struct {
	root     string
	mediaURL string
}

// NewFileImageStorage constructs an [ImageStorage] rooted at dir, creating
// it when missing.
func NewFileImageStorage(dir, mediaURL string) (ImageStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating images directory: %w", err)
	}

	return &fileImageStorage{
		root:     dir,
		mediaURL: mediaURL,
	}, nil
}

// resolve maps a slash-separated key to a path below root.
func (s *fileImageStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean[1:] != key {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageKey, key)
	}

	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *fileImageStorage) Save(_ context.Context, key string, upload models.ImageUpload) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("error creating image directory: %w", err)
	}

	// write aside and rename so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("error creating image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(upload.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing image file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error writing image file: %w", err)
	}

	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("error storing image file: %w", err)
	}

	return nil
}

func (s *fileImageStorage) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error deleting image file: %w", err)
	}

	return nil
}

func (s *fileImageStorage) URL(key string) string {
	return joinURL(s.mediaURL, key)
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
