package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath  string
	publicURL string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./public/avatars"
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "avatars"
	}

	basePath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.Trim(cfg.PublicURL, "/"),
	}, nil
}

// BasePath возвращает корень каталога (для раздачи статики)
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// Move переносит файл в каталог. Существующий файл с тем же именем не
// перезаписывается (ErrExists). Если src на другом разделе, файл копируется.
func (s *LocalStorage) Move(src, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	dst := s.Path(name)

	err := os.Link(src, dst)
	switch {
	case err == nil:
		if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove source file: %w", err)
		}
		return nil
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("%w: %s", ErrExists, name)
	case errors.Is(err, os.ErrNotExist):
		if _, statErr := os.Stat(src); statErr != nil {
			return fmt.Errorf("%w: %s", ErrNotFound, src)
		}
	}

	// Другой раздел или ФС без жестких ссылок
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove source file: %w", err)
	}
	return nil
}

// Rename переименовывает файл внутри каталога
func (s *LocalStorage) Rename(oldName, newName string) error {
	if err := checkName(oldName); err != nil {
		return err
	}
	if err := checkName(newName); err != nil {
		return err
	}

	if err := os.Rename(s.Path(oldName), s.Path(newName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, oldName)
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Remove removes a file from local storage
func (s *LocalStorage) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.basePath, name)
}

// URL собирается через path, а не filepath: разделитель всегда "/"
func (s *LocalStorage) URL(name string) string {
	return path.Join(s.publicURL, name)
}

// checkName допускает только имя файла без каталогов
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// copyFile создает dst только если его еще нет; недописанный dst удаляется
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, src)
		}
		return fmt.Errorf("failed to move file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, filepath.Base(dst))
		}
		return fmt.Errorf("failed to move file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to move file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}
