package builder

import (
	geminicli "github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/pkg/gemini"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config           // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options    config.RunOptions        // Optionsは、コマンドラインから渡された実行時の設定です。
	Reader     remoteio.InputReader     // Readerは、章テキストや保存済みセッションの読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter    // Writerは、セッションや成果物を保存するための出力先です。
	Store      *state.Store             // Storeは、セッション状態の唯一の所有者です。
	aiClient   geminicli.GenerativeModel // aiClient は画像生成・編集に使う共通クライアント
	textClient gemini.TextGenerator     // textClient は検索・スキーマ付きのテキスト生成に使うクライアント
	httpClient httpkit.ClientInterface  // httpClient は外部画像取得などに使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	aiClient geminicli.GenerativeModel,
	textClient gemini.TextGenerator,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
	store *state.Store,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Reader:     reader,
		Writer:     writer,
		Store:      store,
		aiClient:   aiClient,
		textClient: textClient,
		httpClient: httpClient,
	}
}
