// Package planner は、章テキストからストーリーボード構成案・設定資料・
// ショット説明の練り直しを生成するエージェント群なのだ。
// モデル選択とグラウンディング方針は Strategy が決め、応答は常に
// フェイルクローズで検証してから取り込む。
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

// PlanInput は構成案生成の入力をまとめたものです。
type PlanInput struct {
	ChapterText  string
	ChapterFiles []domain.UploadedFile
	Profile      domain.Profile
	ContextNotes string
	Bible        *domain.ReferenceSheet
	Meta         domain.WorkMeta
}

// PlanResult は構成案と、ペース配分の根拠になった語数を返します。
type PlanResult struct {
	Plan      domain.Plan
	WordCount int
	MinShots  int
	MaxShots  int
}

// PlanRunner は章テキストを視覚的な構成案に変換するエージェントです。
type PlanRunner struct {
	text        gemini.TextGenerator
	extractor   *extract.Extractor
	baseModel   string
	searchModel string
}

// NewPlanRunner は PlanRunner を初期化します。
func NewPlanRunner(text gemini.TextGenerator, extractor *extract.Extractor, baseModel, searchModel string) (*PlanRunner, error) {
	if text == nil {
		return nil, fmt.Errorf("text (gemini.TextGenerator) is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor (*extract.Extractor) is required")
	}
	return &PlanRunner{
		text:        text,
		extractor:   extractor,
		baseModel:   baseModel,
		searchModel: searchModel,
	}, nil
}

type planTemplateData struct {
	MinShots        int
	MaxShots        int
	WordCount       int
	ContextGuidance string
	Profile         domain.Profile
}

// Run は構成案を生成します。流れは次の通りです。
//
//  1. 本文と添付ファイルを結合して語数を数え、ショット数の帯を決める
//  2. 設定資料・メモ・タイトルの有無からグラウンディング方針を選ぶ
//  3. レスポンススキーマ付き(検索時はスキーマなし)でモデルを呼ぶ
//  4. 応答を検証し、不正なら取り込まず全体を拒否する
func (r *PlanRunner) Run(ctx context.Context, in PlanInput) (*PlanResult, error) {
	content, err := r.combineChapterContent(ctx, in)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptySource
	}

	wordCount := CountWords(content)
	minShots, maxShots := ShotBounds(wordCount)
	strategy := SelectStrategy(in.Bible, in.ContextNotes, in.Meta)

	slog.Info("構成案の生成を開始します",
		"words", wordCount,
		"shots_min", minShots,
		"shots_max", maxShots,
		"strategy", fmt.Sprintf("%T", strategy),
	)

	system, err := renderTemplate("plan_system.md", planTemplateData{
		MinShots:        minShots,
		MaxShots:        maxShots,
		WordCount:       wordCount,
		ContextGuidance: contextGuidance(strategy, in.Meta),
		Profile:         in.Profile,
	})
	if err != nil {
		return nil, err
	}

	parts := buildPlanParts(strategy, content)

	model := r.baseModel
	var schema *genai.Schema
	if strategy.UseSearch() {
		model = r.searchModel
	} else {
		schema = planSchema()
	}

	raw, err := r.text.GenerateText(ctx, gemini.TextRequest{
		Model:             model,
		Parts:             parts,
		SystemInstruction: system,
		UseSearch:         strategy.UseSearch(),
		Schema:            schema,
	})
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyResponse) {
			return nil, fmt.Errorf("%w: %v", ErrEmptyPlan, err)
		}
		return nil, classifyBackendError(err)
	}

	var plan domain.Plan
	if err := decodeResponse(raw, &plan); err != nil {
		return nil, err
	}
	if len(plan.Visuals) == 0 && len(plan.Characters) == 0 {
		return nil, ErrEmptyPlan
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("生成された構成案が検証に失敗しました: %w", err)
	}

	return &PlanResult{
		Plan:      plan,
		WordCount: wordCount,
		MinShots:  minShots,
		MaxShots:  maxShots,
	}, nil
}

// combineChapterContent は本文と添付ファイルのテキストを結合します。
func (r *PlanRunner) combineChapterContent(ctx context.Context, in PlanInput) (string, error) {
	content := in.ChapterText
	if len(in.ChapterFiles) == 0 {
		return content, nil
	}

	filesContent, err := r.extractor.Combine(ctx, in.ChapterFiles)
	if err != nil {
		return "", fmt.Errorf("章の添付ファイルの読み取りに失敗しました: %w", err)
	}
	if filesContent != "" {
		content += "\n\n--- ATTACHED FILE CONTENT ---\n" + filesContent
	}
	return content, nil
}

// contextGuidance は方針ごとのコンテキスト指示文を返します。
func contextGuidance(s Strategy, meta domain.WorkMeta) string {
	switch s.(type) {
	case SheetGrounded:
		return `- Use the attached "STORY CONTEXT" for Character Appearance and Location designs.
- STRICTLY ADHERE to the physical descriptions in the Context to ensure consistency.`
	case SearchGrounded:
		author := meta.Author
		if author == "" {
			author = "Unknown"
		}
		return fmt.Sprintf(`- RESEARCH MODE ACTIVATED: You do not have a Story Context. You MUST use Google Search to find information about the book "%s" by "%s".
- STEP 1: Identify characters mentioned in the Narrative Text below.
- STEP 2: Search for their canonical physical appearance (hair, eyes, clothes, key items).
- STEP 3: Apply these RESEARCHED details to the 'characters' list output and the 'visuals' descriptions.`, meta.Title, author)
	default:
		return "- Analyze the text to infer character appearances."
	}
}

// buildPlanParts はグラウンディング資料と章本文をパーツ列に組み立てます。
func buildPlanParts(s Strategy, content string) []*genai.Part {
	var parts []*genai.Part

	switch st := s.(type) {
	case SheetGrounded:
		parts = append(parts, &genai.Part{Text: sheetBlock(st.Sheet)})
	case NoteGrounded:
		parts = append(parts, &genai.Part{Text: "Context Notes: " + st.Notes})
	}

	parts = append(parts,
		&genai.Part{Text: "--- CHAPTER CONTENT TO VISUALIZE ---"},
		&genai.Part{Text: content},
	)
	return parts
}

// sheetBlock は設定資料を「信頼できる唯一の情報源」ブロックとして整形します。
func sheetBlock(sheet domain.ReferenceSheet) string {
	var sb strings.Builder
	sb.WriteString("--- STORY CONTEXT (SOURCE OF TRUTH) ---\n")
	sb.WriteString("Summary: " + sheet.Summary + "\n")
	sb.WriteString("Art Style: " + sheet.ArtStyleGuide + "\n\n")

	sb.WriteString("KNOWN CHARACTERS (USE THESE DESCRIPTIONS):\n")
	for _, c := range sheet.Characters {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.PhysicalDescription))
	}

	sb.WriteString("\nKNOWN LOCATIONS:\n")
	for _, l := range sheet.Locations {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", l.Name, l.VisualDescription))
	}
	sb.WriteString("--------------------------------------")
	return sb.String()
}
