package asset

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shouni/go-utils/urlpath"
	"golang.org/x/text/unicode/norm"

	"github.com/shouni/go-genart-kit/pkg/dna"
)

const (
	// DefaultSidecarExt はメタデータのサイドカーファイルの拡張子です。
	DefaultSidecarExt = ".json"
	// maxSlugLength はファイル名に使うスラッグの最大長です。
	maxSlugLength = 64
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "out/nebula.png", 1 -> "out/nebula_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// Slug は識別子からファイル名に使える ASCII の文字列を作ります。
// 英数字が1文字も残らない場合は識別子のハッシュから名前を作ります。
func Slug(identifier string) string {
	id := dna.Normalize(identifier)
	if id == "" {
		return dna.FallbackIdentifier
	}
	// 分解してアクセント記号を落とす
	decomposed := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFKD.String(strings.ToLower(id)))
	s := strings.Trim(slugInvalid.ReplaceAllString(decomposed, "-"), "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return "art-" + strconv.FormatInt(dna.SeedFromText(id, "slug"), 16)
	}
	return s
}

// SidecarPath は画像のパスから同じ名前のメタデータファイルのパスを返します。
func SidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, path.Ext(imagePath)) + DefaultSidecarExt
}
