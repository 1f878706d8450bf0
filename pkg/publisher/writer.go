package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrRemoteUnsupported は LocalWriter にリモートの URI が渡された場合のエラーです。
var ErrRemoteUnsupported = errors.New("ローカル書き込みではリモートの出力先を扱えません")

// OutputWriter は生成物を保存先に書き込むためのインターフェースです。
// クラウドストレージなどへの書き込みはこのインターフェースを実装して差し込みます。
type OutputWriter interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// LocalWriter はローカルのファイルシステムに書き込む OutputWriter です。
type LocalWriter struct {
	// DirPerm は親ディレクトリを作る際のパーミッションです。
	DirPerm os.FileMode
}

// NewLocalWriter は LocalWriter を生成します。
func NewLocalWriter() *LocalWriter {
	return &LocalWriter{DirPerm: 0o755}
}

// Write は親ディレクトリを作成したうえで、一時ファイル経由で path に書き込みます。
func (w *LocalWriter) Write(ctx context.Context, path string, r io.Reader, _ string) error {
	if strings.Contains(path, "://") {
		return fmt.Errorf("%w: %s", ErrRemoteUnsupported, path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), w.DirPerm); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("%s への書き込みに失敗しました: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s のクローズに失敗しました: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s への配置に失敗しました: %w", path, err)
	}
	return nil
}
