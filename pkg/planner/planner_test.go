package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/extract"
	"github.com/shouni/go-storyboard-kit/pkg/gemini"
)

// fakeTextGenerator は呼び出し内容を記録し、固定の応答を返すのだ。
type fakeTextGenerator struct {
	lastReq  gemini.TextRequest
	response string
	err      error
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, req gemini.TextRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type nopPDF struct{}

func (nopPDF) ExtractText(ctx context.Context, data []byte) (string, error) { return "", nil }

func newTestExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	e, err := extract.New(nopPDF{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

const validPlanJSON = `{
	"chapter_mood": {"tone": "melancholic", "palette_hint": "muted blues"},
	"characters": [{"name": "Elara", "physical_description": "silver hair, sharp blue eyes"}],
	"emotion_arc": [
		{"beat_description": "The Argument", "emotion_label": "Tension", "intensity": 7, "color_hex": "#FF0000"}
	],
	"visuals": [
		{"type": "character_anchor", "description": "Elara stands in the rain", "reuse": false},
		{"type": "mood", "description": "Empty street at dusk", "reuse": true}
	]
}`

func TestPlanRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("2000語の本文は推論のみ戦略でショット帯16-24になること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validPlanJSON}
		runner, err := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")
		if err != nil {
			t.Fatal(err)
		}

		result, err := runner.Run(ctx, PlanInput{
			ChapterText: strings.Repeat("word ", 2000),
			Profile:     domain.ProfileNovelExplanation,
		})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		if result.MinShots != 16 || result.MaxShots != 24 {
			t.Errorf("ショット帯 (%d, %d), 期待値 (16, 24)", result.MinShots, result.MaxShots)
		}
		if fake.lastReq.Model != "base-model" {
			t.Errorf("モデル %q, 期待値 base-model", fake.lastReq.Model)
		}
		if fake.lastReq.UseSearch {
			t.Error("推論のみ戦略で検索が有効になっています")
		}
		if fake.lastReq.Schema == nil {
			t.Error("検索を使わない呼び出しにレスポンススキーマがありません")
		}
		if !strings.Contains(fake.lastReq.SystemInstruction, "Select 16 to 24 visual moments") {
			t.Errorf("システム指示にショット帯が含まれていません:\n%s", fake.lastReq.SystemInstruction)
		}
		if len(result.Plan.Visuals) != 2 {
			t.Errorf("ショット数 %d, 期待値 2", len(result.Plan.Visuals))
		}
	})

	t.Run("タイトルのみの場合は検索モデルに切り替わりスキーマが外れること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validPlanJSON}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{
			ChapterText: "A short chapter.",
			Profile:     domain.ProfileAnimeRecap,
			Meta:        domain.WorkMeta{Title: "Dune"},
		})
		if err != nil {
			t.Fatal(err)
		}

		if fake.lastReq.Model != "search-model" {
			t.Errorf("モデル %q, 期待値 search-model", fake.lastReq.Model)
		}
		if !fake.lastReq.UseSearch {
			t.Error("検索戦略なのに検索が無効です")
		}
		if fake.lastReq.Schema != nil {
			t.Error("検索グラウンディングとレスポンススキーマが併用されています")
		}
	})

	t.Run("設定資料がある場合はパーツに真実の情報源ブロックが入ること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validPlanJSON}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{
			ChapterText: "A short chapter.",
			Profile:     domain.ProfileNovelExplanation,
			Bible: &domain.ReferenceSheet{
				Summary:    "A story about Elara.",
				Characters: []domain.Character{{Name: "Elara", PhysicalDescription: "silver hair"}},
			},
			Meta: domain.WorkMeta{Title: "Dune"},
		})
		if err != nil {
			t.Fatal(err)
		}

		if fake.lastReq.UseSearch {
			t.Error("設定資料があるのに検索が有効になっています")
		}
		if len(fake.lastReq.Parts) != 3 {
			t.Fatalf("パーツ数 %d, 期待値 3", len(fake.lastReq.Parts))
		}
		if !strings.Contains(fake.lastReq.Parts[0].Text, "STORY CONTEXT (SOURCE OF TRUTH)") ||
			!strings.Contains(fake.lastReq.Parts[0].Text, "Elara: silver hair") {
			t.Errorf("情報源ブロックが不完全です:\n%s", fake.lastReq.Parts[0].Text)
		}
	})

	t.Run("本文も添付も空ならErrEmptySourceになること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validPlanJSON}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{ChapterText: "   "})
		if !errors.Is(err, ErrEmptySource) {
			t.Errorf("期待値 ErrEmptySource, 実際 %v", err)
		}
	})

	t.Run("空の構成案はErrEmptyPlanになること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"chapter_mood": {"tone": "", "palette_hint": ""}, "characters": [], "emotion_arc": [], "visuals": []}`}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{ChapterText: "Some text."})
		if !errors.Is(err, ErrEmptyPlan) {
			t.Errorf("期待値 ErrEmptyPlan, 実際 %v", err)
		}
	})

	t.Run("検証に失敗する構成案は取り込まれないこと", func(t *testing.T) {
		bad := `{"chapter_mood": {"tone": "t", "palette_hint": "p"}, "characters": [], "emotion_arc": [], "visuals": [{"type": "drone_shot", "description": "x"}]}`
		fake := &fakeTextGenerator{response: bad}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{ChapterText: "Some text."})
		if err == nil {
			t.Error("未知のショット分類を含む構成案が受理されました")
		}
	})

	t.Run("ページ数超過エラーはOversizedInputErrorとして返ること", func(t *testing.T) {
		fake := &fakeTextGenerator{err: errors.New("request exceeds the supported page limit")}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{ChapterText: "Some text."})
		var oversized *OversizedInputError
		if !errors.As(err, &oversized) {
			t.Errorf("期待値 OversizedInputError, 実際 %v", err)
		}
	})
}

func TestBibleRunner_Run(t *testing.T) {
	ctx := context.Background()

	validBibleJSON := `{
		"summary": "A story about Elara.",
		"characters": [{"name": "Elara", "physical_description": "silver hair"}],
		"locations": [{"name": "The Spire", "visual_description": "a black glass tower"}],
		"art_style_guide": "dark fantasy, painterly"
	}`

	t.Run("タイトルだけでも検索グラウンディングで構築できること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validBibleJSON}
		runner, err := NewBibleRunner(fake, newTestExtractor(t), "base-model", "search-model")
		if err != nil {
			t.Fatal(err)
		}

		sheet, err := runner.Run(ctx, BibleInput{Meta: domain.WorkMeta{Title: "Dune", Author: "Herbert"}})
		if err != nil {
			t.Fatal(err)
		}

		if fake.lastReq.Model != "search-model" || !fake.lastReq.UseSearch {
			t.Errorf("検索モデルが使われていません: model=%s search=%v", fake.lastReq.Model, fake.lastReq.UseSearch)
		}
		if !strings.Contains(fake.lastReq.Parts[0].Text, `"Dune" by "Herbert"`) {
			t.Errorf("調査タスクにタイトルが含まれていません:\n%s", fake.lastReq.Parts[0].Text)
		}
		if sheet.Summary == "" || len(sheet.Characters) != 1 {
			t.Errorf("設定資料が不完全です: %+v", sheet)
		}
	})

	t.Run("材料が何もなければErrNoSourceになること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validBibleJSON}
		runner, _ := NewBibleRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, BibleInput{})
		if !errors.Is(err, ErrNoSource) {
			t.Errorf("期待値 ErrNoSource, 実際 %v", err)
		}
	})

	t.Run("空の設定資料応答はErrEmptyReferenceSheetになること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"summary": "", "characters": [], "locations": [], "art_style_guide": ""}`}
		runner, _ := NewBibleRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, BibleInput{Meta: domain.WorkMeta{Title: "Dune"}})
		if !errors.Is(err, ErrEmptyReferenceSheet) {
			t.Errorf("期待値 ErrEmptyReferenceSheet, 実際 %v", err)
		}
	})
}

func TestRefineRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("タイトルなしはベースモデルとスキーマで練り直すこと", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"type": "mood", "description": "A rain-slicked street at dusk, neon reflections"}`}
		runner, err := NewRefineRunner(fake, "base-model", "search-model")
		if err != nil {
			t.Fatal(err)
		}

		result, err := runner.Run(ctx, RefineInput{
			CurrentType:        domain.VisualTypeAction,
			CurrentDescription: "a street",
			ChapterText:        "It was raining.",
		})
		if err != nil {
			t.Fatal(err)
		}

		if fake.lastReq.Model != "base-model" || fake.lastReq.UseSearch {
			t.Errorf("ベースモデルが使われていません: model=%s search=%v", fake.lastReq.Model, fake.lastReq.UseSearch)
		}
		if fake.lastReq.Schema == nil {
			t.Error("レスポンススキーマがありません")
		}
		if fake.lastReq.MaxOutputTokens != refineMaxOutputTokens {
			t.Errorf("MaxOutputTokens = %d, 期待値 %d", fake.lastReq.MaxOutputTokens, refineMaxOutputTokens)
		}
		if result.Type != "mood" {
			t.Errorf("type = %q, 期待値 mood", result.Type)
		}
	})

	t.Run("長すぎる章本文は8000文字に切り詰められること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"type": "mood", "description": "refined"}`}
		runner, _ := NewRefineRunner(fake, "base-model", "search-model")

		long := strings.Repeat("a", 20000)
		_, err := runner.Run(ctx, RefineInput{
			CurrentType:        domain.VisualTypeMood,
			CurrentDescription: "x",
			ChapterText:        long,
		})
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(fake.lastReq.Parts[0].Text, long) {
			t.Error("章本文が切り詰められずにそのまま渡されています")
		}
	})

	t.Run("不正な分類の提案は元の分類で上書きされること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"type": "drone_shot", "description": "refined"}`}
		runner, _ := NewRefineRunner(fake, "base-model", "search-model")

		result, err := runner.Run(ctx, RefineInput{
			CurrentType:        domain.VisualTypeSymbolic,
			CurrentDescription: "x",
			ChapterText:        "text",
		})
		if err != nil {
			t.Fatal(err)
		}
		if result.Type != string(domain.VisualTypeSymbolic) {
			t.Errorf("type = %q, 期待値 symbolic", result.Type)
		}
	})

	t.Run("タイトルありは検索モデルに切り替わること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: `{"type": "mood", "description": "refined"}`}
		runner, _ := NewRefineRunner(fake, "base-model", "search-model")

		_, err := runner.Run(ctx, RefineInput{
			CurrentType:        domain.VisualTypeMood,
			CurrentDescription: "x",
			ChapterText:        "text",
			BookTitle:          "Dune",
		})
		if err != nil {
			t.Fatal(err)
		}
		if fake.lastReq.Model != "search-model" || !fake.lastReq.UseSearch {
			t.Errorf("検索モデルが使われていません: model=%s search=%v", fake.lastReq.Model, fake.lastReq.UseSearch)
		}
	})
}

func TestPlanSchemaEmotionArc(t *testing.T) {
	t.Run("感情アークのスキーマに最低6拍の指示が含まれること", func(t *testing.T) {
		fake := &fakeTextGenerator{response: validPlanJSON}
		runner, err := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")
		if err != nil {
			t.Fatal(err)
		}

		if _, err := runner.Run(context.Background(), PlanInput{ChapterText: "some chapter text"}); err != nil {
			t.Fatal(err)
		}

		arc := fake.lastReq.Schema.Properties["emotion_arc"]
		if arc == nil {
			t.Fatal("スキーマに emotion_arc がありません")
		}
		if !strings.Contains(arc.Description, "minimum 6 points") {
			t.Errorf("emotion_arc の説明に最低拍数がありません: %q", arc.Description)
		}
	})
}

func TestEmptyBackendResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("空応答の構成案はErrEmptyPlanになること", func(t *testing.T) {
		fake := &fakeTextGenerator{err: gemini.ErrEmptyResponse}
		runner, _ := NewPlanRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, PlanInput{ChapterText: "some chapter text"})
		if !errors.Is(err, ErrEmptyPlan) {
			t.Errorf("期待値 ErrEmptyPlan, 実際 %v", err)
		}
	})

	t.Run("空応答の設定資料はErrEmptyReferenceSheetになること", func(t *testing.T) {
		fake := &fakeTextGenerator{err: gemini.ErrEmptyResponse}
		runner, _ := NewBibleRunner(fake, newTestExtractor(t), "base-model", "search-model")

		_, err := runner.Run(ctx, BibleInput{Meta: domain.WorkMeta{Title: "Dune"}})
		if !errors.Is(err, ErrEmptyReferenceSheet) {
			t.Errorf("期待値 ErrEmptyReferenceSheet, 実際 %v", err)
		}
	})
}
