package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、セッションのストーリーボードをMarkdownと画像に書き出すのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "ストーリーボードをMarkdownと画像ファイルに書き出すのだ。",
	Long: `セッションに保存された構成案と生成済み画像を、storyboard.md と
images/ ディレクトリに書き出すのだ。出力先は gs:// でもよいのだよ。`,
	RunE: exportCommand,
}

func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("ストーリーボードの書き出しを開始するのだ！", "output_dir", opts.OutputDir)

	if err := pipeline.ExecuteExport(ctx, cfg); err != nil {
		return fmt.Errorf("書き出し中にエラーが発生したのだ: %w", err)
	}

	return nil
}
