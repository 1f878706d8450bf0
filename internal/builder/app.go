package builder

import (
	"fmt"

	"github.com/shouni/go-genart-kit/internal/config"

	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
	"github.com/shouni/go-genart-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config         // Configは、環境変数から読み込まれたグローバルな設定です。
	Options  config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader   parser.InputReader     // Readerは、マニフェストの読み込みに使用する入力元です。
	Writer   publisher.OutputWriter // Writerは、生成された作品を保存するための出力先です。
	Workflow workflow.Workflow      // Workflowは、各 Runner を構築するための Manager です。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
// CLI フラグの上書きはここで Kit の設定に反映されます。
func NewAppContext(cfg *config.Config, reader parser.InputReader, writer publisher.OutputWriter) (*AppContext, error) {
	kitCfg, err := cfg.Options.ApplyTo(cfg.Kit)
	if err != nil {
		return nil, fmt.Errorf("設定の反映に失敗しました: %w", err)
	}

	manager, err := workflow.New(workflow.ManagerArgs{
		Config: kitCfg,
		Reader: reader,
		Writer: writer,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}

	return &AppContext{
		Config:   cfg,
		Options:  cfg.Options,
		Reader:   reader,
		Writer:   writer,
		Workflow: manager,
	}, nil
}
