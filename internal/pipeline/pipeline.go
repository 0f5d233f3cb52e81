// Package pipeline は、CLIコマンドから呼ばれる一連の実行フローなのだ。
// 各フローは AppContext を組み立て、エージェントを実行し、セッションを永続化する。
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shouni/go-storyboard-kit/internal/builder"
	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/planner"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
)

// ExecuteBible は設定資料（リファレンスシート）を構築して保存するのだ。
func ExecuteBible(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	var contextFiles []domain.UploadedFile
	if cfg.Options.ContextFile != "" {
		file, err := loadUploadedFile(ctx, appCtx, cfg.Options.ContextFile)
		if err != nil {
			return err
		}
		contextFiles = append(contextFiles, file)
	}

	bibleRunner, err := builder.BuildBibleRunner(appCtx)
	if err != nil {
		return fmt.Errorf("BibleRunnerの構築に失敗したのだ: %w", err)
	}

	sheet, err := bibleRunner.Run(ctx, planner.BibleInput{
		ContextFiles: contextFiles,
		Meta:         metaFromOptions(cfg.Options),
	})
	if err != nil {
		return fmt.Errorf("設定資料の構築に失敗したのだ: %w", err)
	}

	appCtx.Store.Update(func(sess *domain.Session) {
		sess.Meta = metaFromOptions(cfg.Options)
		sess.ContextFiles = contextFiles
	})
	appCtx.Store.SetBible(sheet)

	if err := appCtx.Store.Save(ctx); err != nil {
		return err
	}

	slog.Info("設定資料の構築が完了したのだ！",
		"characters", len(sheet.Characters),
		"locations", len(sheet.Locations),
	)
	return nil
}

// ExecutePlan は章テキストから構成案を生成してセッションへ取り込むのだ。
func ExecutePlan(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	chapterText, err := readAll(ctx, appCtx, cfg.Options.ChapterFile)
	if err != nil {
		return fmt.Errorf("章ファイル '%s' の読み込みに失敗しました: %w", cfg.Options.ChapterFile, err)
	}

	profile := domain.Profile(cfg.Options.Profile)
	if !profile.Valid() {
		profile = domain.ProfileNovelExplanation
	}

	appCtx.Store.Update(func(sess *domain.Session) {
		sess.ChapterText = chapterText
		sess.ContextNotes = cfg.Options.ContextNotes
		sess.Meta = metaFromOptions(cfg.Options)
		sess.Profile = profile
		if cfg.Options.AspectRatio != "" {
			sess.AspectRatio = cfg.Options.AspectRatio
		}
	})

	planRunner, err := builder.BuildPlanRunner(appCtx)
	if err != nil {
		return fmt.Errorf("PlanRunnerの構築に失敗したのだ: %w", err)
	}

	snap := appCtx.Store.Snapshot()
	result, err := planRunner.Run(ctx, planner.PlanInput{
		ChapterText:  snap.ChapterText,
		ChapterFiles: snap.Files,
		Profile:      snap.Profile,
		ContextNotes: snap.ContextNotes,
		Bible:        snap.Bible,
		Meta:         snap.Meta,
	})
	if err != nil {
		return fmt.Errorf("構成案の生成に失敗したのだ: %w", err)
	}

	appCtx.Store.ApplyPlan(result.Plan, uuid.NewString)

	if err := appCtx.Store.Save(ctx); err != nil {
		return err
	}

	slog.Info("構成案の生成が完了したのだ！",
		"words", result.WordCount,
		"shots", len(result.Plan.Visuals),
		"characters", len(result.Plan.Characters),
	)
	return nil
}

// ExecuteImages は画像を持たない全ショットの画像を一括生成するのだ。
func ExecuteImages(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	snap := appCtx.Store.Snapshot()
	if len(snap.Shots) == 0 {
		return fmt.Errorf("ショットがありません。先に plan を実行してください")
	}

	d, err := builder.BuildDirector(appCtx)
	if err != nil {
		return fmt.Errorf("Directorの構築に失敗したのだ: %w", err)
	}

	if err := d.GenerateAll(ctx); err != nil {
		return fmt.Errorf("画像の一括生成に失敗したのだ: %w", err)
	}

	if err := appCtx.Store.Save(ctx); err != nil {
		return err
	}

	done := 0
	for _, shot := range appCtx.Store.Snapshot().Shots {
		if shot.Status == domain.StatusDone {
			done++
		}
	}
	slog.Info("画像の一括生成が完了したのだ！", "done", done, "total", len(snap.Shots))
	return nil
}

// ExecuteExport はストーリーボードをMarkdownと画像ファイルとして書き出すのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.SetupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	pub, err := builder.BuildPublisher(appCtx)
	if err != nil {
		return fmt.Errorf("Publisherの構築に失敗したのだ: %w", err)
	}

	outputDir := cfg.Options.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	result, err := pub.Publish(ctx, appCtx.Store.Snapshot(), publisher.Options{OutputDir: outputDir})
	if err != nil {
		return fmt.Errorf("書き出しに失敗したのだ: %w", err)
	}

	slog.Info("書き出しが完了したのだ！", "markdown", result.MarkdownPath, "images", len(result.ImagePaths))
	return nil
}

func metaFromOptions(opts config.RunOptions) domain.WorkMeta {
	return domain.WorkMeta{
		Title:  opts.Title,
		Author: opts.Author,
		Genre:  opts.Genre,
	}
}

// readAll はローカル/GCSのファイルを文字列として読み込みます。
func readAll(ctx context.Context, appCtx *builder.AppContext, path string) (string, error) {
	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadUploadedFile はファイルを読み込み、添付ファイル表現に変換します。
func loadUploadedFile(ctx context.Context, appCtx *builder.AppContext, path string) (domain.UploadedFile, error) {
	rc, err := appCtx.Reader.Open(ctx, path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("ファイル '%s' の読み込みに失敗しました: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("ファイル '%s' の読み込みに失敗しました: %w", path, err)
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return domain.UploadedFile{
		ID:       uuid.NewString(),
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}
