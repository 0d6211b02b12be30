package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes files under a directory served by the router at /uploads.
type Local struct {
	basePath string
}

func NewLocal(basePath string) *Local {
	return &Local{basePath: basePath}
}

// resolve anchors path at basePath; Clean on a rooted path drops any "..".
func (s *Local) resolve(path string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+path))
}

func (s *Local) Upload(ctx context.Context, file io.Reader, path string) (string, string, error) {
	full := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	out, err := os.Create(full)
	if err != nil {
		return "", "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", "", fmt.Errorf("storage: escribir archivo: %w", err)
	}
	key := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+path)), "/")
	return key, "/uploads/" + key, nil
}

func (s *Local) Delete(ctx context.Context, path string) error {
	full := s.resolve(path)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: borrar archivo: %w", err)
	}
	return nil
}

func (s *Local) Exists(ctx context.Context, path string) (bool, error) {
	full := s.resolve(path)
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
