package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-genart-kit/internal/pipeline"
)

// newBatchCmd は、マニフェストから作品をまとめて生成するサブコマンドなのだ。
func newBatchCmd() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "マニフェストに並んだ作品をまとめて生成するのだ。",
		Long: `YAML（defaults と items）または1行1識別子のテキストを読み込み、並行して生成・保存するのだ。
失敗した項目があっても残りは続けて処理し、最後に失敗をまとめて報告するのだよ。`,
		Args: cobra.NoArgs,
		RunE: batchCommand,
	}

	batchCmd.Flags().StringVarP(&opts.ManifestFile, "manifest", "m", "", "マニフェストのパスなのだ。")
	batchCmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "同時に生成する数なのだ。")
	batchCmd.Flags().DurationVar(&opts.RateInterval, "rate-interval", 0, "生成を始める最小間隔なのだ。")
	_ = batchCmd.MarkFlagRequired("manifest")
	return batchCmd
}

func batchCommand(cmd *cobra.Command, args []string) error {
	report, err := pipeline.ExecuteBatch(cmd.Context(), loadConfig())
	for _, p := range report.Published {
		fmt.Fprintln(cmd.OutOrStdout(), p.ImagePath)
	}
	if err != nil {
		return fmt.Errorf("バッチ生成でエラーが発生したのだ (run_id=%s): %w", report.RunID, err)
	}
	return nil
}
