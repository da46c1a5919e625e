package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shaiso/Logbook/internal/domain"
)

// Default configuration values.
const (
	DefaultFilePath   = "logs/app.log"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
)

// FileConfig — конфигурация файлового sink.
type FileConfig struct {
	// Path — путь к файлу журнала (default: logs/app.log).
	Path string

	// MaxSizeMB — размер файла, после которого происходит ротация (default: 10).
	MaxSizeMB int

	// MaxBackups — сколько старых файлов хранить (default: 5).
	MaxBackups int

	// MaxAgeDays — сколько дней хранить старые файлы (0 — без ограничения).
	MaxAgeDays int

	// Compress — сжимать ли ротированные файлы gzip'ом.
	Compress bool
}

// File — append-only журнал с ротацией по размеру.
//
// Каждая запись пишется одним вызовом Write под mutex,
// поэтому строки конкурентных запросов не перемешиваются.
type File struct {
	mu sync.Mutex
	lj *lumberjack.Logger
}

// NewFile создаёт файловый sink. Директория создаётся при необходимости.
func NewFile(cfg FileConfig) (*File, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultFilePath
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeMB
	}

	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	return &File{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  false,
		},
	}, nil
}

// Append дописывает запись одной строкой.
func (f *File) Append(_ context.Context, rec domain.LogRecord) error {
	line := []byte(rec.Line() + "\n")

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.lj.Write(line); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}
	return nil
}

// Rotate принудительно ротирует файл журнала.
func (f *File) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lj.Rotate(); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}
	return nil
}

// Path возвращает путь к текущему файлу журнала.
func (f *File) Path() string {
	return f.lj.Filename
}

// Close закрывает файл.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lj.Close()
}
