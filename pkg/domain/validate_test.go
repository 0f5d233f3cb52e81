package domain

import "testing"

func validPlan() Plan {
	return Plan{
		ChapterMood: ChapterMood{Tone: "melancholic", PaletteHint: "muted blues"},
		Characters:  []Character{{Name: "Elara", PhysicalDescription: "silver hair"}},
		EmotionArc: []EmotionPoint{
			{BeatDescription: "The Argument", EmotionLabel: "Tension", Intensity: 7, ColorHex: "#FF0000"},
			{BeatDescription: "The Calm", EmotionLabel: "Relief", Intensity: 2, ColorHex: "#0af"},
		},
		Visuals: []PlanVisual{
			{Type: "action", Description: "Elara runs through the rain"},
			{Type: "mood", Description: "Empty street at dusk", Reuse: true},
		},
	}
}

func TestPlanValidate(t *testing.T) {
	t.Run("正常なプランは検証を通過すること", func(t *testing.T) {
		p := validPlan()
		if err := p.Validate(); err != nil {
			t.Fatalf("正常なプランが拒否されました: %v", err)
		}
	})

	t.Run("ショットが空のプランは拒否されること", func(t *testing.T) {
		p := validPlan()
		p.Visuals = nil
		if err := p.Validate(); err == nil {
			t.Error("ショット0件のプランが受理されました")
		}
	})

	t.Run("未知のショット分類はプラン全体を拒否すること", func(t *testing.T) {
		p := validPlan()
		p.Visuals[1].Type = "drone_shot"
		if err := p.Validate(); err == nil {
			t.Error("未知の分類を含むプランが受理されました")
		}
	})

	t.Run("intensityが範囲外の感情アークは拒否されること", func(t *testing.T) {
		for _, bad := range []int{0, 11, -3} {
			p := validPlan()
			p.EmotionArc[0].Intensity = bad
			if err := p.Validate(); err == nil {
				t.Errorf("intensity=%d のプランが受理されました", bad)
			}
		}
	})

	t.Run("16進カラーでないcolor_hexは拒否されること", func(t *testing.T) {
		p := validPlan()
		p.EmotionArc[0].ColorHex = "red"
		if err := p.Validate(); err == nil {
			t.Error("不正なカラーコードを含むプランが受理されました")
		}
	})
}

func TestVisualTypeValid(t *testing.T) {
	for _, vt := range []VisualType{VisualTypeCharacterAnchor, VisualTypeMood, VisualTypeLocation, VisualTypeAction, VisualTypeSymbolic} {
		if !vt.Valid() {
			t.Errorf("既知の分類 '%s' が無効と判定されました", vt)
		}
	}
	if VisualType("selfie").Valid() {
		t.Error("未知の分類が有効と判定されました")
	}
}
