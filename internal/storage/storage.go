// Package storage は翻訳済み成果物（ドキュメント・字幕・音声）の保存先を抽象化する。
package storage

import (
	"context"
	"io"
)

// Store は成果物の保存・取得・削除を行う。
// 実装はローカルファイルシステムとS3の2種類。
type Store interface {
	// Save はnameで成果物を保存し、保存先の場所（パスまたはキー）を返す。
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open は保存済み成果物を読み出しストリームとして返す。
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete は保存済み成果物を削除する。
	Delete(ctx context.Context, name string) error
}
