package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd は、ストーリーボードAPIサーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "ストーリーボードAPIサーバーを起動するのだ。",
	Long: `セッションの編集から構成案生成・画像生成・書き出しまでを
HTTP API として提供するサーバーを起動するのだ。SIGINT / SIGTERM で
セッションを保存してから終了するのだよ。`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.ListenAddr, "listen", config.DefaultListenAddr, "待ち受けるアドレスなのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("APIサーバーを起動するのだ！",
		"listen", opts.ListenAddr,
		"session_file", opts.SessionFile)

	if err := server.Run(ctx, cfg); err != nil {
		return fmt.Errorf("サーバーの実行中にエラーが発生したのだ: %w", err)
	}

	return nil
}
