package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-genart-kit/internal/config"
	"github.com/shouni/go-genart-kit/internal/pipeline"
)

// newGenerateCmd は、1つの識別子から作品を生成するサブコマンドなのだ。
func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [identifier]",
		Short: "識別子から作品を1枚生成するのだ。",
		Long: `識別子（プロジェクト名など）から DNA を導き、スタイルとパレットを決めて作品を描くのだ。
識別子を省略すると既定の識別子が使われるのだよ。`,
		Args: cobra.MaximumNArgs(1),
		RunE: generateCommand,
	}

	f := generateCmd.Flags()
	f.StringVarP(&opts.Style, "style", "s", "", "スタイル名なのだ（未指定なら識別子から自動選択）。")
	f.Int64Var(&opts.Seed, config.FlagSeed, 0, "DNA のシードを明示的に上書きするのだ。")
	f.Float64Var(&opts.MoonPhase, config.FlagMoonPhase, 0, "月齢 [0,1] なのだ。")
	f.Float64Var(&opts.AudioEnergy, config.FlagAudioEnergy, 0, "音のエネルギー [0,1] なのだ。")
	f.Float64Var(&opts.Tempo, config.FlagTempo, 0, "テンポ（BPM）なのだ。")
	f.Float64Var(&opts.SystemLoad, config.FlagSystemLoad, 0, "システム負荷 [0,1] なのだ。")
	f.StringVarP(&opts.Title, "title", "t", "", "右下に描くタイトルなのだ。")
	f.StringVar(&opts.Scheme, "scheme", "", "配色スキームを上書きするのだ。")
	f.StringVar(&opts.FileName, "file-name", "", "拡張子を除いた保存名なのだ（未指定なら識別子のスラッグ）。")
	f.BoolVar(&opts.NoEffects, "no-effects", false, "ポストエフェクトをすべて無効にするのだ。")
	f.BoolVar(&opts.Timestamp, "timestamp-fallback", false, "識別子が空のとき現在時刻から識別子を作るのだ。")
	return generateCmd
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	identifier := ""
	if len(args) > 0 {
		identifier = args[0]
	}

	cfg := loadConfig()
	slog.Info("作品の生成を始めるのだ！", "identifier", identifier, "style", opts.Style, "mix", opts.Mix)

	res, err := pipeline.ExecuteGenerate(ctx, cfg, identifier, cmd.Flags().Changed)
	if err != nil {
		return fmt.Errorf("生成中にエラーが発生したのだ: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Published.ImagePath)
	return nil
}
