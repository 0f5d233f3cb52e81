package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultTextModel    = "gemini-2.5-flash"
	DefaultSearchModel  = "gemini-3-flash-preview"
	DefaultImageModel   = "gemini-2.5-flash-image"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultImageTimeout = 2 * time.Minute
	DefaultRateInterval = 3 * time.Second
	DefaultSessionFile  = "output/session.json"
	DefaultOutputDir    = "output"
	DefaultAspectRatio  = "16:9"
	DefaultListenAddr   = ":8080"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル選択）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	TextModel    string // 通常のテキスト生成モデル
	SearchModel  string // 検索グラウンディング用の上位モデル
	ImageModel   string // 画像生成・編集モデル

	Options RunOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		TextModel:    envutil.GetEnv("GEMINI_MODEL", DefaultTextModel),
		SearchModel:  envutil.GetEnv("SEARCH_GEMINI_MODEL", DefaultSearchModel),
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
}

// RunOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RunOptions struct {
	// ソース入力関連
	ChapterFile  string // --chapter-file
	ContextFile  string // --context-file
	ContextNotes string // --context-notes
	Title        string // --title
	Author       string // --author
	Genre        string // --genre

	// 出力関連
	OutputDir   string // --output-dir
	SessionFile string // --session-file

	// 生成挙動
	Profile     string // --profile
	AspectRatio string // --aspect-ratio

	// サーバー関連
	ListenAddr string // --listen

	// 実行制御
	HTTPTimeout  time.Duration // --http-timeout
	ImageTimeout time.Duration // --image-timeout
	RateInterval time.Duration // --rate-interval
}
