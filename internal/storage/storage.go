package storage

import "errors"

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
	ErrExists      = errors.New("file already exists")
)

// Storage - каталог публичных файлов (аватаров)
type Storage interface {
	// Move переносит файл из src (вне каталога) в каталог под именем name.
	// Занятое имя не перезаписывается: ErrExists.
	Move(src, name string) error

	// Rename переименовывает файл внутри каталога
	Rename(oldName, newName string) error

	// Remove удаляет файл; отсутствие файла ошибкой не считается
	Remove(name string) error

	// Path возвращает абсолютный путь файла в каталоге
	Path(name string) string

	// URL возвращает публичный относительный URL файла
	URL(name string) string
}

// Config holds storage configuration
type Config struct {
	BasePath  string // каталог аватаров
	PublicURL string // префикс публичного URL, "avatars"
}
