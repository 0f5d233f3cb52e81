package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// NegativeShotPrompt は全ショット生成から除外したい要素の定義です。
const NegativeShotPrompt = "text, speech bubbles, ui elements, watermark, signature, deformed faces, bad anatomy, disfigured, poorly drawn hands, extra limbs, blurry, low quality"

// ShotPromptBuilder は、1ショットの画像生成プロンプトを構築します。
// 章のキャスト全員の外見定義を常に注入し、説明文に名前が現れた
// キャラクターだけが定義通りに描かれるようモデルに指示します。
type ShotPromptBuilder struct {
	profile     domain.Profile
	mood        domain.ChapterMood
	characters  []domain.Character
	aspectRatio string
}

// NewShotPromptBuilder は ShotPromptBuilder を生成します。
func NewShotPromptBuilder(profile domain.Profile, mood domain.ChapterMood, characters []domain.Character, aspectRatio string) *ShotPromptBuilder {
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}
	return &ShotPromptBuilder{
		profile:     profile,
		mood:        mood,
		characters:  characters,
		aspectRatio: aspectRatio,
	}
}

// Build はショットの完全なプロンプトを組み立てます。
func (b *ShotPromptBuilder) Build(item domain.VisualItem) string {
	var sb strings.Builder

	sb.WriteString("Style: ")
	sb.WriteString(ShotStyle(b.profile))
	sb.WriteString("\n\nSCENE ACTION:\n")
	sb.WriteString(item.Description)
	sb.WriteString("\n\n")

	b.writeCharacterSheet(&sb)

	sb.WriteString("ATMOSPHERE & MOOD:\n")
	fmt.Fprintf(&sb, "%s, using a %s color palette.\n", b.mood.Tone, b.mood.PaletteHint)
	fmt.Fprintf(&sb, "Shot Type: %s\n\n", item.Type)

	sb.WriteString("TECHNICAL CONSTRAINTS:\n")
	fmt.Fprintf(&sb, "- Aspect Ratio: %s\n", b.aspectRatio)
	sb.WriteString("- No text, speech bubbles, or UI elements.\n")
	sb.WriteString("- High fidelity, sharp focus.")

	return sb.String()
}

// writeCharacterSheet は一貫性注入ブロックを書き出します。
// キャストが空なら何も書きません。
func (b *ShotPromptBuilder) writeCharacterSheet(sb *strings.Builder) {
	if len(b.characters) == 0 {
		return
	}

	sb.WriteString("--- CHARACTER VISUAL SHEET (STRICT CONSISTENCY REQUIRED) ---\n")
	sb.WriteString("The following characters are defined in this scene's context.\n")
	sb.WriteString("IF (and only if) their name appears in the scene description below, YOU MUST generate them EXACTLY as described here.\n\n")

	for i, c := range b.characters {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(sb, "[NAME: %s]\nVISUALS: %s", strings.ToUpper(c.Name), c.PhysicalDescription)
	}

	sb.WriteString("\n------------------------------------------------------------\n\n")
}

// BuildPortraitPrompt はキャラクターのリファレンスポートレート用プロンプトを組み立てます。
// ポートレートは常に 1:1・正面または3/4視点・中立表情です。
func BuildPortraitPrompt(c domain.Character, profile domain.Profile) string {
	var sb strings.Builder

	sb.WriteString("Type: Character Reference Sheet\n")
	sb.WriteString("Style: ")
	sb.WriteString(PortraitStyle(profile))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "CHARACTER: %s\n", c.Name)
	fmt.Fprintf(&sb, "DESCRIPTION: %s\n\n", c.PhysicalDescription)
	sb.WriteString("Focus on creating a clear, definitive visual reference for this character.\n")
	sb.WriteString("Front facing or 3/4 view. Neutral expression.\n")
	sb.WriteString("Aspect Ratio: 1:1")

	return sb.String()
}

// BuildEditInstruction は既存画像への編集指示文を組み立てます。
func BuildEditInstruction(changePrompt string) string {
	return fmt.Sprintf("Edit instruction: %s. Maintain the original composition and style where possible.", changePrompt)
}
