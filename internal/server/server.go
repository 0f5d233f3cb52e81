package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-storyboard-kit/internal/builder"
	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/server/handlers"
)

// デフォルトのシャットダウン猶予時間
const defaultShutdownTimeout = 30 * time.Second

// Run は、依存コンポーネントの組み立てとサーバーのライフサイクル管理を行います。
// シグナル受信時はグレースフルシャットダウンを試み、セッションを保存してから
// 終了します。
func Run(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application context: %w", err)
	}

	// 1. ハンドラーの組み立て
	h, err := buildHandlers(appCtx)
	if err != nil {
		return fmt.Errorf("failed to build handlers: %w", err)
	}

	// 2. ルーターの構築
	router := NewRouter(h)

	srv := &http.Server{
		Addr:    cfg.Options.ListenAddr,
		Handler: router,
	}

	// --- サーバー起動とシグナル待機 ---
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("🚀 サーバーを起動します", "addr", cfg.Options.ListenAddr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-shutdown:
		slog.Info("⚠️ グレースフルシャットダウンを開始します")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("グレースフルシャットダウンに失敗したため強制終了します", "error", err)
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		// 終了前に最新のセッションを残しておく
		if err := appCtx.Store.Save(shutdownCtx); err != nil {
			slog.Warn("終了時のセッション保存に失敗しました", "error", err)
		}

		slog.Info("✅ サーバーを停止しました")
	}

	return nil
}

func buildHandlers(appCtx *builder.AppContext) (*handlers.Handler, error) {
	planRunner, err := builder.BuildPlanRunner(appCtx)
	if err != nil {
		return nil, err
	}
	bibleRunner, err := builder.BuildBibleRunner(appCtx)
	if err != nil {
		return nil, err
	}
	refineRunner, err := builder.BuildRefineRunner(appCtx)
	if err != nil {
		return nil, err
	}
	d, err := builder.BuildDirector(appCtx)
	if err != nil {
		return nil, err
	}
	pub, err := builder.BuildPublisher(appCtx)
	if err != nil {
		return nil, err
	}

	outputDir := appCtx.Options.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	return handlers.NewHandler(appCtx.Store, planRunner, bibleRunner, refineRunner, d, pub, outputDir)
}
