package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/extract"
	"github.com/shouni/go-storyboard-kit/pkg/gemini"
)

// maxBibleSourceChars は設定資料の材料としてモデルに渡す上限文字数。
const maxBibleSourceChars = 1_000_000

// BibleInput は設定資料の構築に使う入力です。
type BibleInput struct {
	ContextFiles []domain.UploadedFile
	Meta         domain.WorkMeta
}

// BibleRunner は、添付資料またはタイトル検索を材料に
// 作品単位の設定資料(リファレンスシート)を構築するエージェントです。
type BibleRunner struct {
	text        gemini.TextGenerator
	extractor   *extract.Extractor
	baseModel   string
	searchModel string
}

// NewBibleRunner は BibleRunner を初期化します。
func NewBibleRunner(text gemini.TextGenerator, extractor *extract.Extractor, baseModel, searchModel string) (*BibleRunner, error) {
	if text == nil {
		return nil, fmt.Errorf("text (gemini.TextGenerator) is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor (*extract.Extractor) is required")
	}
	return &BibleRunner{
		text:        text,
		extractor:   extractor,
		baseModel:   baseModel,
		searchModel: searchModel,
	}, nil
}

type bibleTemplateData struct {
	SourceLabel string
}

// Run は設定資料を構築します。材料の優先順位は 添付資料 > タイトル検索 で、
// どちらも無い場合は ErrNoSource を返します。
func (r *BibleRunner) Run(ctx context.Context, in BibleInput) (*domain.ReferenceSheet, error) {
	strategy, err := SelectBibleStrategy(len(in.ContextFiles) > 0, in.Meta)
	if err != nil {
		return nil, err
	}

	var sourceText, sourceLabel string
	switch st := strategy.(type) {
	case FileGrounded:
		sourceLabel = "Uploaded Documents"
		sourceText, err = r.extractor.Combine(ctx, in.ContextFiles)
		if err != nil {
			return nil, fmt.Errorf("設定資料ファイルの読み取りに失敗しました: %w", err)
		}
		if strings.TrimSpace(sourceText) == "" {
			return nil, fmt.Errorf("%w: 添付ファイルから読み取れるテキストがありません", ErrEmptySource)
		}
	case SearchGrounded:
		sourceLabel = "Google Search Results"
		author := st.Author
		if author == "" {
			author = "Unknown"
		}
		sourceText = fmt.Sprintf(
			`Research Task: Find detailed visual descriptions for the characters, setting, and art style of the story titled "%s" by "%s".`,
			st.Title, author)
	}

	slog.Info("設定資料の構築を開始します", "source", sourceLabel)

	system, err := renderTemplate("bible_system.md", bibleTemplateData{SourceLabel: sourceLabel})
	if err != nil {
		return nil, err
	}

	model := r.baseModel
	var schema *genai.Schema
	if strategy.UseSearch() {
		model = r.searchModel
	} else {
		schema = bibleSchema()
	}

	title, author := in.Meta.Title, in.Meta.Author
	if title == "" {
		title = "Unknown"
	}
	if author == "" {
		author = "Unknown"
	}
	prompt := fmt.Sprintf("Analyze this source material.\nTitle: %s\nAuthor: %s\n\nSOURCE MATERIAL:\n%s",
		title, author, truncateString(sourceText, maxBibleSourceChars))

	raw, err := r.text.GenerateText(ctx, gemini.TextRequest{
		Model:             model,
		Parts:             []*genai.Part{{Text: prompt}},
		SystemInstruction: system,
		UseSearch:         strategy.UseSearch(),
		Schema:            schema,
	})
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyResponse) {
			return nil, fmt.Errorf("%w: %v", ErrEmptyReferenceSheet, err)
		}
		return nil, classifyBackendError(err)
	}

	var sheet domain.ReferenceSheet
	if err := decodeResponse(raw, &sheet); err != nil {
		return nil, err
	}
	if sheet.Summary == "" && len(sheet.Characters) == 0 {
		return nil, ErrEmptyReferenceSheet
	}
	if err := sheet.Validate(); err != nil {
		return nil, fmt.Errorf("生成された設定資料が検証に失敗しました: %w", err)
	}

	return &sheet, nil
}
