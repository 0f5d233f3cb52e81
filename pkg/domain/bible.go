package domain

// Location は、リファレンスシートに記録される舞台・場所の視覚情報です。
type Location struct {
	Name              string `json:"name"`
	VisualDescription string `json:"visual_description"`
}

// ReferenceSheet は、作品単位で再利用される「設定資料（バイブル）」です。
// あらすじ、主要キャラクターの外見、舞台、画風ガイドを保持し、
// 複数の章にまたがるプラン生成のグラウンディングに使います。
// 明示的に再生成されるまでは不変の情報源として扱います。
type ReferenceSheet struct {
	Summary       string      `json:"summary"`
	Characters    []Character `json:"characters"`
	Locations     []Location  `json:"locations"`
	ArtStyleGuide string      `json:"art_style_guide"`
}
