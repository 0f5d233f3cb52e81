package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// imagesCmd は、保存済みの構成案から未生成のショット画像を一括生成するのだ。
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "構成案の全ショット画像を一括生成するのだ。",
	Long: `セッションに保存された構成案を読み込み、まだ画像を持たないショットの
画像を順に生成するのだ。レート制限を守りながら並行実行し、個々の失敗は
他のショットを止めないのだよ。`,
	RunE: imagesCommand,
}

func imagesCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("ショット画像の一括生成を開始するのだ！",
		"session_file", opts.SessionFile,
		"image_model", cfg.ImageModel,
		"rate_interval", opts.RateInterval)

	if err := pipeline.ExecuteImages(ctx, cfg); err != nil {
		return fmt.Errorf("画像生成中にエラーが発生したのだ: %w", err)
	}

	return nil
}
