package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// planCmd は、章テキストからビジュアル構成案の生成のみを実行するのだ。
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "章テキストから構成案（ショット一覧）を生成するのだ。",
	Long: `章テキストを解析し、章のムード、登場キャスト、感情アーク、
ショット一覧からなる構成案を生成してセッションに保存するのだ。
画像生成は行わないのだよ。`,
	RunE: planCommand,
}

func planCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ChapterFile == "" {
		return fmt.Errorf("章テキスト（--chapter-file）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("構成案の生成を開始するのだ！",
		"chapter_file", opts.ChapterFile,
		"profile", opts.Profile,
		"text_model", cfg.TextModel)

	if err := pipeline.ExecutePlan(ctx, cfg); err != nil {
		return fmt.Errorf("構成案の生成中にエラーが発生したのだ: %w", err)
	}

	return nil
}
