package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

func TestShotPromptBuilder_Build(t *testing.T) {
	mood := domain.ChapterMood{Tone: "melancholic", PaletteHint: "muted blues"}
	cast := []domain.Character{
		{Name: "Elara", PhysicalDescription: "silver hair, sharp blue eyes"},
		{Name: "Bran", PhysicalDescription: "red beard, heavy cloak"},
	}

	t.Run("キャスト全員の外見定義が大文字の名前付きで注入されること", func(t *testing.T) {
		b := NewShotPromptBuilder(domain.ProfileAnimeRecap, mood, cast, "16:9")
		got := b.Build(domain.VisualItem{Type: domain.VisualTypeAction, Description: "Elara runs through the rain"})

		for _, want := range []string{
			"[NAME: ELARA]",
			"silver hair, sharp blue eyes",
			"[NAME: BRAN]",
			"IF (and only if) their name appears",
			"makoto shinkai inspired",
			"melancholic, using a muted blues color palette.",
			"Shot Type: action",
			"Aspect Ratio: 16:9",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("プロンプトに %q が含まれていません:\n%s", want, got)
			}
		}
	})

	t.Run("キャストが空なら一貫性ブロックが現れないこと", func(t *testing.T) {
		b := NewShotPromptBuilder(domain.ProfileNovelExplanation, mood, nil, "")
		got := b.Build(domain.VisualItem{Type: domain.VisualTypeMood, Description: "an empty street"})

		if strings.Contains(got, "CHARACTER VISUAL SHEET") {
			t.Error("キャストなしで一貫性ブロックが注入されています")
		}
		if !strings.Contains(got, "Aspect Ratio: 16:9") {
			t.Error("アスペクト比が既定値にフォールバックしていません")
		}
	})

	t.Run("未知のプロファイルは既定の画風にフォールバックすること", func(t *testing.T) {
		b := NewShotPromptBuilder(domain.Profile("Unknown"), mood, nil, "9:16")
		got := b.Build(domain.VisualItem{Type: domain.VisualTypeMood, Description: "x"})

		if !strings.Contains(got, "matte painting style") {
			t.Error("既定の画風にフォールバックしていません")
		}
		if !strings.Contains(got, "Aspect Ratio: 9:16") {
			t.Error("指定したアスペクト比が使われていません")
		}
	})
}

func TestBuildPortraitPrompt(t *testing.T) {
	got := BuildPortraitPrompt(
		domain.Character{Name: "Elara", PhysicalDescription: "silver hair"},
		domain.ProfileManhwaSummary,
	)

	for _, want := range []string{
		"Character Reference Sheet",
		"korean manhwa style",
		"CHARACTER: Elara",
		"Front facing or 3/4 view. Neutral expression.",
		"Aspect Ratio: 1:1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ポートレートプロンプトに %q が含まれていません:\n%s", want, got)
		}
	}
}

func TestBuildEditInstruction(t *testing.T) {
	got := BuildEditInstruction("make it night time")
	if !strings.Contains(got, "make it night time") ||
		!strings.Contains(got, "Maintain the original composition and style where possible.") {
		t.Errorf("編集指示が不完全です: %s", got)
	}
}
