package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// bibleCmd は、作品単位の設定資料（リファレンスシート）を構築するのだ。
var bibleCmd = &cobra.Command{
	Use:   "bible",
	Short: "設定資料（リファレンスシート）を構築して保存するのだ。",
	Long: `添付ファイルまたはWeb検索を材料に、キャラクターの外見や
舞台設定をまとめた設定資料を構築するのだ。以後の plan はこの資料を
一次情報として使うのだよ。`,
	RunE: bibleCommand,
}

func bibleCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 材料がひとつもないと始まらない
	if opts.ContextFile == "" && opts.Title == "" {
		return fmt.Errorf("材料（--context-file または --title）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("設定資料の構築を開始するのだ！",
		"context_file", opts.ContextFile,
		"title", opts.Title)

	if err := pipeline.ExecuteBible(ctx, cfg); err != nil {
		return fmt.Errorf("設定資料の構築中にエラーが発生したのだ: %w", err)
	}

	return nil
}
