package workflow

import (
	"github.com/shouni/go-genart-kit/pkg/config"
	"github.com/shouni/go-genart-kit/pkg/parser"
	"github.com/shouni/go-genart-kit/pkg/publisher"
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config config.Config
	// Writer が nil の場合はローカルファイルシステムに書き込みます。
	Writer publisher.OutputWriter
	// Reader が nil の場合はローカルファイルシステムから読み込みます。
	Reader parser.InputReader
}
