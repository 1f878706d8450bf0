package builder

import (
	"fmt"

	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/workflow"
)

// BuildGenerateRunner は単体生成を担当する Runner を構築します。
func BuildGenerateRunner(appCtx *AppContext) (workflow.GenerateRunner, error) {
	r, err := appCtx.Workflow.BuildGenerateRunner()
	if err != nil {
		return nil, fmt.Errorf("GenerateRunnerの構築に失敗しました: %w", err)
	}
	return r, nil
}

// BuildBatchRunner はマニフェストの一括生成を担当する Runner を構築します。
func BuildBatchRunner(appCtx *AppContext) (workflow.BatchRunner, error) {
	r, err := appCtx.Workflow.BuildBatchRunner()
	if err != nil {
		return nil, fmt.Errorf("BatchRunnerの構築に失敗しました: %w", err)
	}
	return r, nil
}

// BuildManifestParser はマニフェストを読み込む Parser を構築します。
func BuildManifestParser(appCtx *AppContext) (parser.Parser, error) {
	p, err := appCtx.Workflow.BuildManifestParser()
	if err != nil {
		return nil, fmt.Errorf("ManifestParserの構築に失敗しました: %w", err)
	}
	return p, nil
}
