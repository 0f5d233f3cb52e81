package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-storyboard-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は、各サブコマンドが共有する実行時パラメータなのだ。
var opts config.RunOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ChapterFile, "chapter-file", "f", "", "章テキストのパス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ContextFile, "context-file", "", "設定資料として添付するファイルのパスなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ContextNotes, "context-notes", "", "設定資料として貼り付けるメモなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Title, "title", "t", "", "作品タイトル（指定するとWeb検索で原作設定を参照するのだ）。")
	rootCmd.PersistentFlags().StringVar(&opts.Author, "author", "", "作品の著者名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Genre, "genre", "", "作品のジャンルなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "成果物を保存するディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", config.DefaultSessionFile, "セッションを永続化するパスなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Profile, "profile", "p", "Novel Explanation", "出力プロファイル（画風テンプレート）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.AspectRatio, "aspect-ratio", config.DefaultAspectRatio, "ショット画像のアスペクト比なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.ImageTimeout, "image-timeout", config.DefaultImageTimeout, "画像生成1枚あたりのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "画像生成リクエストの最小間隔なのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"storyboard-kit",
		addAppFlags,
		preRunAppE,
		bibleCmd,
		planCmd,
		imagesCmd,
		exportCmd,
		serveCmd,
	)
}
