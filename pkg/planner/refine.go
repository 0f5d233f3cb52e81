package planner

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/gemini"
)

const (
	// maxRefineContextChars は練り直しの文脈として渡す章本文の上限文字数。
	maxRefineContextChars = 8000
	// refineMaxOutputTokens は練り直し応答の出力トークン上限。
	refineMaxOutputTokens = 2000
)

// RefineInput はショット説明の練り直しの入力です。
type RefineInput struct {
	CurrentType        domain.VisualType
	CurrentDescription string
	ChapterText        string
	// BookTitle が非空なら検索グラウンディングで原作設定を確認します。
	BookTitle string
}

// RefineResult は練り直し後のショット分類と説明です。
// モデルはより適した分類への変更を提案してもよい契約です。
type RefineResult struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RefineRunner は、1ショットの説明文をより映像的で具体的な記述に練り直す
// エージェントです。
type RefineRunner struct {
	text        gemini.TextGenerator
	baseModel   string
	searchModel string
}

// NewRefineRunner は RefineRunner を初期化します。
func NewRefineRunner(text gemini.TextGenerator, baseModel, searchModel string) (*RefineRunner, error) {
	if text == nil {
		return nil, fmt.Errorf("text (gemini.TextGenerator) is required")
	}
	return &RefineRunner{
		text:        text,
		baseModel:   baseModel,
		searchModel: searchModel,
	}, nil
}

type refineTemplateData struct {
	Title string
}

// Run は説明文を練り直して返します。元のショットは変更しません。
func (r *RefineRunner) Run(ctx context.Context, in RefineInput) (*RefineResult, error) {
	useSearch := in.BookTitle != ""
	model := r.baseModel
	var schema *genai.Schema
	if useSearch {
		model = r.searchModel
	} else {
		schema = refineSchema()
	}

	slog.Info("ショット説明の練り直しを開始します", "type", in.CurrentType, "search", useSearch)

	system, err := renderTemplate("refine_system.md", refineTemplateData{Title: in.BookTitle})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`REGENERATE THIS VISUAL SCENE:

Current Type: %s
Current Description: %s

Relevant Context (Chapter Segment):
%s

INSTRUCTIONS:
1. Read the context and the current description.
2. Create a BETTER, MORE VIVID description.
3. You may change the 'type' if another camera angle/shot type works better.
4. Keep it concise but descriptive for an image generator (no dialogue, just visuals).

Output JSON structure:
{
  "type": "string (e.g., character_anchor, mood, location, action, symbolic)",
  "description": "string"
}`,
		in.CurrentType, in.CurrentDescription, truncateString(in.ChapterText, maxRefineContextChars))

	raw, err := r.text.GenerateText(ctx, gemini.TextRequest{
		Model:             model,
		Parts:             []*genai.Part{{Text: prompt}},
		SystemInstruction: system,
		UseSearch:         useSearch,
		Schema:            schema,
		MaxOutputTokens:   refineMaxOutputTokens,
	})
	if err != nil {
		return nil, classifyBackendError(err)
	}

	var result RefineResult
	if err := decodeResponse(raw, &result); err != nil {
		return nil, err
	}
	if result.Description == "" {
		return nil, fmt.Errorf("練り直し結果に説明文が含まれていません")
	}
	if result.Type == "" || !domain.VisualType(result.Type).Valid() {
		// 分類の提案が不正でも説明文は活かし、元の分類を維持する
		result.Type = string(in.CurrentType)
	}
	return &result, nil
}

// refineSchema は練り直し応答のレスポンススキーマです。
func refineSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"type":        {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
		},
		Required: []string{"description"},
	}
}
