package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	geminicli "github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/pkg/director"
	"github.com/shouni/go-storyboard-kit/pkg/extract"
	"github.com/shouni/go-storyboard-kit/pkg/gemini"
	"github.com/shouni/go-storyboard-kit/pkg/planner"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

const (
	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
	imageBurst             = 2
)

// SetupAppContext は、提供された設定と共有コンポーネントを使用して、
// アプリケーションコンテキストを初期化して返すのだ。
func SetupAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	textClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("テキスト生成クライアントの初期化に失敗しました: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	store := state.NewStore(reader, writer, cfg.Options.SessionFile)
	store.Load(ctx)

	appCtx := NewAppContext(cfg, httpClient, aiClient, textClient, reader, writer, store)
	return &appCtx, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (geminicli.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := geminicli.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := geminicli.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// BuildExtractor は添付ファイルのテキスト抽出器を構築します。
func BuildExtractor() (*extract.Extractor, error) {
	return extract.New(extract.NewPDFTextExtractor())
}

// BuildPlanRunner は構成案生成エージェントを構築します。
func BuildPlanRunner(appCtx *AppContext) (*planner.PlanRunner, error) {
	extractor, err := BuildExtractor()
	if err != nil {
		return nil, err
	}
	return planner.NewPlanRunner(appCtx.textClient, extractor, appCtx.Config.TextModel, appCtx.Config.SearchModel)
}

// BuildBibleRunner は設定資料構築エージェントを構築します。
func BuildBibleRunner(appCtx *AppContext) (*planner.BibleRunner, error) {
	extractor, err := BuildExtractor()
	if err != nil {
		return nil, err
	}
	return planner.NewBibleRunner(appCtx.textClient, extractor, appCtx.Config.TextModel, appCtx.Config.SearchModel)
}

// BuildRefineRunner はショット説明の練り直しエージェントを構築します。
func BuildRefineRunner(appCtx *AppContext) (*planner.RefineRunner, error) {
	return planner.NewRefineRunner(appCtx.textClient, appCtx.Config.TextModel, appCtx.Config.SearchModel)
}

// BuildDirector は画像生成のオーケストレーターを構築します。
func BuildDirector(appCtx *AppContext) (*director.Director, error) {
	imgGen, err := initializeImageGenerator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	rateInterval := appCtx.Options.RateInterval
	if rateInterval <= 0 {
		rateInterval = config.DefaultRateInterval
	}
	imageTimeout := appCtx.Options.ImageTimeout
	if imageTimeout <= 0 {
		imageTimeout = config.DefaultImageTimeout
	}

	return director.New(
		appCtx.Store,
		imgGen,
		appCtx.aiClient,
		appCtx.Config.ImageModel,
		rate.NewLimiter(rate.Every(rateInterval), imageBurst),
		imageTimeout,
	)
}

// BuildPublisher はストーリーボードの書き出し器を構築します。
func BuildPublisher(appCtx *AppContext) (*publisher.StoryboardPublisher, error) {
	return publisher.NewStoryboardPublisher(appCtx.Writer)
}

// initializeImageGenerator は、画像キャッシュを含む ImageGenerator を初期化します。
func initializeImageGenerator(appCtx *AppContext) (imagekit.ImageGenerator, error) {
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		appCtx.aiClient,
		appCtx.Reader,
		appCtx.httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	return imagekit.NewGeminiGenerator(appCtx.Config.ImageModel, core)
}
