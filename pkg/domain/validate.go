package domain

import (
	"fmt"
	"regexp"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate は、バックエンドが返した構造化プランを信頼できない入力として検証します。
// 構造の不一致は部分的に取り込まず、プラン全体を拒否します（フェイルクローズ）。
func (p *Plan) Validate() error {
	if len(p.Visuals) == 0 {
		return fmt.Errorf("プランにショットが1件も含まれていません")
	}

	for i, v := range p.Visuals {
		if v.Description == "" {
			return fmt.Errorf("ショット %d: description が空です", i+1)
		}
		if !VisualType(v.Type).Valid() {
			return fmt.Errorf("ショット %d: 未知のショット分類 '%s' です", i+1, v.Type)
		}
	}

	for i, e := range p.EmotionArc {
		if e.Intensity < 1 || e.Intensity > 10 {
			return fmt.Errorf("感情アーク %d ('%s'): intensity %d が 1〜10 の範囲外です",
				i+1, e.EmotionLabel, e.Intensity)
		}
		if !hexColorRegex.MatchString(e.ColorHex) {
			return fmt.Errorf("感情アーク %d ('%s'): color_hex '%s' が16進カラー形式ではありません",
				i+1, e.EmotionLabel, e.ColorHex)
		}
	}

	for i, c := range p.Characters {
		if c.Key() == "" {
			return fmt.Errorf("キャラクター %d: name が空です", i+1)
		}
	}

	return nil
}

// Validate は、リファレンスシートの応答を取り込み前に検証します。
func (s *ReferenceSheet) Validate() error {
	if s.Summary == "" && len(s.Characters) == 0 {
		return fmt.Errorf("リファレンスシートにあらすじもキャラクターも含まれていません")
	}
	for i, c := range s.Characters {
		if c.Key() == "" {
			return fmt.Errorf("リファレンスシートのキャラクター %d: name が空です", i+1)
		}
	}
	return nil
}
