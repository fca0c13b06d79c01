package reportstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps files under a base directory. It is safe for
// concurrent use.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates baseDir if needed. baseURL prefixes URL results
// and may be empty.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: baseURL}, nil
}

func (s *LocalStorage) Put(ctx context.Context, p string, body io.Reader, contentType string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, abs, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, errors.Join(ErrFailedToCreateDirectory, err)
	}

	// write to a temp file first so readers never see a partial report
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".upload-*")
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	return &Object{Path: key, Size: n, ContentType: contentType}, nil
}

func (s *LocalStorage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, abs, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, abs, err := s.resolve(p)
	if err != nil {
		return err
	}
	err = os.Remove(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	if err != nil {
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, abs, err := s.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (s *LocalStorage) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, abs, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	items, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}
	if err != nil {
		return nil, errors.Join(ErrFailedToReadDirectory, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(item.Name(), ".upload-") {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		e := Entry{Name: item.Name(), Path: joinKey(key, item.Name()), IsDir: item.IsDir()}
		if !item.IsDir() {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *LocalStorage) URL(p string) string {
	key, err := cleanKey(p)
	if err != nil {
		return ""
	}
	if s.baseURL == "" {
		return "file://" + filepath.ToSlash(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	}
	return s.baseURL + key
}

// resolve maps a key onto an absolute path confined to baseDir.
func (s *LocalStorage) resolve(p string) (key, abs string, err error) {
	key, err = cleanKey(p)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", err, p)
	}
	abs = filepath.Join(s.baseDir, filepath.FromSlash(key))
	if abs != s.baseDir && !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return key, abs, nil
}

func joinKey(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
