package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyManifest はマニフェストに1件も生成指定がない場合のエラーです。
var ErrEmptyManifest = errors.New("マニフェストに生成対象がありません")

// Parser はマニフェストを解析するためのインターフェースを定義します。
type Parser interface {
	ParseFromPath(ctx context.Context, fullPath string) (*Manifest, error)
}

// InputReader は入力元を開くためのインターフェースです。
type InputReader interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// LocalReader はローカルファイルを開く InputReader です。
type LocalReader struct{}

// Open はファイルを開きます。
func (LocalReader) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Format はマニフェストの記述形式です。
type Format int

const (
	// FormatYAML は defaults と items を持つ YAML（JSON も可）です。
	FormatYAML Format = iota
	// FormatText は1行1識別子のテキストです。# 以降はコメントとして無視します。
	FormatText
)

// FormatFromPath は拡張子から形式を判定します。
func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML
	default:
		return FormatText
	}
}

// ManifestParser はバッチ生成のマニフェストを解析する構造体です。
type ManifestParser struct {
	reader InputReader
}

// NewManifestParser は新しい ManifestParser インスタンスを生成します。r が nil ならローカルファイルを読みます。
func NewManifestParser(r InputReader) *ManifestParser {
	if r == nil {
		r = LocalReader{}
	}
	return &ManifestParser{reader: r}
}

// ParseFromPath は指定されたパスからマニフェストを読み込み、拡張子に応じて解析します。
func (p *ManifestParser) ParseFromPath(ctx context.Context, manifestPath string) (*Manifest, error) {
	slog.InfoContext(ctx, "マニフェストを読み込んでいます", "path", manifestPath)
	rc, err := p.reader.Open(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("マニフェストのオープンに失敗しました (%s): %w", manifestPath, err)
	}
	defer rc.Close()

	return Parse(rc, FormatFromPath(manifestPath))
}

// Parse は r からマニフェストを解析します。識別子が空の項目は警告を残して除外します。
func Parse(r io.Reader, format Format) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch format {
	case FormatText:
		m, err = parseText(r)
	default:
		m, err = parseYAML(r)
	}
	if err != nil {
		return nil, err
	}

	items := m.Items[:0]
	for i, it := range m.Items {
		it.Identifier = strings.TrimSpace(it.Identifier)
		if it.Identifier == "" {
			slog.Warn("識別子が空の項目をスキップします", "index", i)
			continue
		}
		items = append(items, it)
	}
	m.Items = items

	if len(m.Items) == 0 {
		return nil, ErrEmptyManifest
	}
	return m, nil
}

func parseYAML(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.NewDecoder(r).Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyManifest
		}
		return nil, fmt.Errorf("マニフェストYAMLのパースに失敗しました: %w", err)
	}
	return m, nil
}

func parseText(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			m.Items = append(m.Items, Item{Identifier: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("マニフェストの読み込みに失敗しました: %w", err)
	}
	return m, nil
}
