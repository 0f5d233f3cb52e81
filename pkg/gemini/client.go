// Package gemini は google.golang.org/genai を直接利用するテキスト生成クライアントなのだ。
// システム指示・Google検索ツール・レスポンススキーマを扱う生成経路を一箇所に集約する。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// ErrEmptyResponse はモデルが解釈可能なテキストを一切返さなかったことを示す。
// 呼び出し側はこれを各エージェントの空応答エラーに読み替える。
var ErrEmptyResponse = errors.New("モデル応答が空でした")

// TextRequest は一回のテキスト生成呼び出しに必要な全パラメータを束ねる。
type TextRequest struct {
	// Model は使用するモデルID (例: gemini-2.5-flash)。
	Model string
	// Parts はユーザーターンを構成するパーツ列。テキストと InlineData を混在できる。
	Parts []*genai.Part
	// SystemInstruction は空でなければシステム指示として付与される。
	SystemInstruction string
	// UseSearch が真なら Google検索グラウンディングツールを有効化する。
	// 検索とレスポンススキーマは併用できないため、真の場合 Schema は無視される。
	UseSearch bool
	// Schema が非nilかつ UseSearch が偽なら application/json + スキーマ制約で応答させる。
	Schema *genai.Schema
	// MaxOutputTokens は 0 ならモデル既定値に任せる。
	MaxOutputTokens int32
	// Temperature は nil ならモデル既定値に任せる。
	Temperature *float32
}

// TextGenerator はテキスト生成バックエンドの抽象なのだ。テストではこれを差し替える。
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

// Client は genai.Client の薄いラッパー。
type Client struct {
	client *genai.Client
}

// NewClient は Gemini API バックエンドのテキストクライアントを生成する。
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("APIキーが空です")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗しました: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateText はリクエストを実行し、応答テキストを返す。
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	if req.Model == "" {
		return "", fmt.Errorf("モデルIDが指定されていません")
	}
	if len(req.Parts) == 0 {
		return "", fmt.Errorf("生成パーツが空です")
	}

	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.UseSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: req.Parts}}

	slog.Debug("テキスト生成を開始します",
		"model", req.Model,
		"parts", len(req.Parts),
		"search", req.UseSearch,
		"schema", req.Schema != nil,
	)

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("テキスト生成に失敗しました (model=%s): %w", req.Model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w (model=%s)", ErrEmptyResponse, req.Model)
	}
	return text, nil
}
