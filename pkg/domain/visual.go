// Package domain は、ストーリーボード生成の中核となるデータ型を提供します。
// 外部サービスへの依存を持たない純粋なモデル層です。
package domain

// VisualType は、ショットの演出上の分類です。
type VisualType string

const (
	// VisualTypeCharacterAnchor はキャラクターの見た目を確立するショット。
	VisualTypeCharacterAnchor VisualType = "character_anchor"
	// VisualTypeMood は情景や空気感を伝えるショット。
	VisualTypeMood VisualType = "mood"
	// VisualTypeLocation は舞台となる場所を示すショット。
	VisualTypeLocation VisualType = "location"
	// VisualTypeAction は出来事や動きを描くショット。
	VisualTypeAction VisualType = "action"
	// VisualTypeSymbolic は象徴的・抽象的なイメージショット。
	VisualTypeSymbolic VisualType = "symbolic"
)

// Valid は既知のショット分類かどうかを返します。
func (v VisualType) Valid() bool {
	switch v {
	case VisualTypeCharacterAnchor, VisualTypeMood, VisualTypeLocation, VisualTypeAction, VisualTypeSymbolic:
		return true
	}
	return false
}

// ItemStatus は、画像生成の進行状態です。ショットとキャラクターで共用します。
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusGenerating ItemStatus = "generating"
	StatusDone       ItemStatus = "done"
	StatusError      ItemStatus = "error"
)

// VisualItem は、ストーリーボード上の1ショットです。IDはセッション内で一意です。
type VisualItem struct {
	ID          string     `json:"id"`
	Type        VisualType `json:"type"`
	Description string     `json:"description"`
	Reuse       bool       `json:"reuse"`
	Status      ItemStatus `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
}

// ChapterMood は、章全体の空気感です。全ショットの画像プロンプトに混ぜ込まれます。
type ChapterMood struct {
	Tone        string `json:"tone"`
	PaletteHint string `json:"palette_hint"`
}

// EmotionPoint は、感情アーク上の1拍です。
type EmotionPoint struct {
	BeatDescription string `json:"beat_description"`
	EmotionLabel    string `json:"emotion_label"`
	Intensity       int    `json:"intensity"`
	ColorHex        string `json:"color_hex"`
}

// PlanVisual は、モデルが返す構成案の中の1ショットです。
// ID・状態の付与前の形で、取り込み時に VisualItem へ実体化されます。
type PlanVisual struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Reuse       bool   `json:"reuse"`
}

// Plan は、モデルが返す構成案の全体です。
type Plan struct {
	ChapterMood ChapterMood    `json:"chapter_mood"`
	Characters  []Character    `json:"characters"`
	EmotionArc  []EmotionPoint `json:"emotion_arc"`
	Visuals     []PlanVisual   `json:"visuals"`
}

// Materialize は構成案のショット列を、与えられたID生成器で VisualItem 列に実体化します。
func (p *Plan) Materialize(newID func() string) []VisualItem {
	items := make([]VisualItem, 0, len(p.Visuals))
	for _, v := range p.Visuals {
		items = append(items, VisualItem{
			ID:          newID(),
			Type:        VisualType(v.Type),
			Description: v.Description,
			Reuse:       v.Reuse,
			Status:      StatusPending,
		})
	}
	return items
}
