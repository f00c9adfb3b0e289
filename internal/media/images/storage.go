// Package images provides cover image processing and storage.
package images

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Storage manages cover image files on disk.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates a Storage rooted at basePath, creating the directory
// if needed.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create covers directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// NewKey returns a fresh random object key for a stored cover.
// Keys are not derived from book IDs; a book's cover can be replaced without
// cache-busting problems because the new cover gets a new key.
func NewKey() string {
	return uuid.NewString()
}

// Save stores JPEG data under the given key.
func (s *Storage) Save(key string, imgData []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if len(imgData) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(key), imgData, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}

// Get retrieves image data for a key.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return data, nil
}

// Exists checks whether an image exists for a key.
func (s *Storage) Exists(key string) bool {
	if key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(key))
	return err == nil
}

// Delete removes an image. Deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Hash computes the SHA256 of a stored image, hex-encoded, for ETags.
func (s *Storage) Hash(key string) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Path returns the filesystem path for a key.
func (s *Storage) Path(key string) string {
	return filepath.Join(s.basePath, key+".jpg")
}

// URLPath returns the public URL path for a key.
func (s *Storage) URLPath(key string) string {
	return "/covers/" + key + ".jpg"
}

// BasePath returns the storage root directory.
func (s *Storage) BasePath() string {
	return s.basePath
}
