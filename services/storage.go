package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage is the blob store the document write path uses. Stored paths are
// relative, forward-slash separated, and safe to persist in document_files.
type Storage interface {
	Store(src io.Reader, namespace, originalName string) (string, error)
	Delete(storedPath string) bool
	Exists(storedPath string) bool
	FullPath(storedPath string) string
}

// LocalStorage keeps blobs on the local disk under a root directory,
// mirroring the layout the previous system used (storage/app/public).
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		root = filepath.Join("storage", "app", "public")
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Store writes src under namespace with a random filename, preserving the
// original extension, and returns the relative stored path.
func (s *LocalStorage) Store(src io.Reader, namespace, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	stored := path.Join(namespace, name)

	dir := filepath.Join(s.root, filepath.FromSlash(namespace))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create namespace dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}

	return stored, nil
}

func (s *LocalStorage) Delete(storedPath string) bool {
	if storedPath == "" {
		return false
	}
	return os.Remove(s.FullPath(storedPath)) == nil
}

func (s *LocalStorage) Exists(storedPath string) bool {
	if storedPath == "" {
		return false
	}
	_, err := os.Stat(s.FullPath(storedPath))
	return err == nil
}

func (s *LocalStorage) FullPath(storedPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(storedPath))
}
