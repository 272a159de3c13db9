package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore はローカルファイルシステム上のディレクトリへ保存する。
type LocalStore struct {
	dir string
}

// NewLocalStore はLocalStoreを生成する。ディレクトリが無ければ作成する。
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// path はnameをディレクトリ内に閉じ込めたパスへ解決する。
func (s *LocalStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save はファイルを保存して絶対パスを返す。
func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	path := s.path(name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return path, nil
}

// Open は保存済みファイルを開く。
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, nil
}

// Delete は保存済みファイルを削除する。
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete output file: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Store = (*LocalStore)(nil)
