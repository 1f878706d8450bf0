package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-genart-kit/internal/config"
)

const appName = "genart"

var (
	opts    config.GenerateOptions
	verbose bool
)

// newRootCmd はサブコマンドを登録したルートコマンドを組み立てるのだ。
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "識別子から決定的にジェネラティブアートを描くのだ。",
		Long: `同じ識別子と同じ文脈シグナルからは、いつでも同じ作品が描かれるのだ。
スタイルの自動選択、文脈シグナルによるスタイルのミックス、マニフェストによる一括生成に対応しているのだよ。`,
		SilenceUsage:      true,
		PersistentPreRunE: preRunAppE,
	}
	addAppFlags(rootCmd)

	rootCmd.AddCommand(newGenerateCmd(), newBatchCmd(), newStylesCmd())
	return rootCmd
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "作品を保存するディレクトリなのだ（未指定なら GENART_OUTPUT_DIR か output）。")
	rootCmd.PersistentFlags().StringVar(&opts.Format, "format", "", "出力形式（png / jpeg）なのだ。")

	// --- 生成パラメータ ---
	rootCmd.PersistentFlags().IntVar(&opts.Width, "width", 0, "出力の幅なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Height, "height", 0, "出力の高さなのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.Mix, "mix", false, "文脈シグナルからスタイルをミックスするのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.NoisePolicy, "noise-policy", "", "ノイズ表の扱い（shared / per-call）なのだ。")
}

// preRunAppE は、コマンド実行前にロガーを整えるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数の設定に CLI フラグを重ねるのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
