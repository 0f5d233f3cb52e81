package planner

import "google.golang.org/genai"

// planSchema は構成案応答のレスポンススキーマを組み立てる。
// 検索グラウンディング時はスキーマを併用できないため、その場合は使われない。
func planSchema() *genai.Schema {
	characterSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                 {Type: genai.TypeString},
			"physical_description": {Type: genai.TypeString, Description: "Concrete, drawable physical appearance"},
		},
		Required: []string{"name", "physical_description"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"chapter_mood": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tone":         {Type: genai.TypeString},
					"palette_hint": {Type: genai.TypeString},
				},
				Required: []string{"tone", "palette_hint"},
			},
			"characters": {Type: genai.TypeArray, Items: characterSchema},
			"emotion_arc": {
				Type:        genai.TypeArray,
				Description: "A chronological list of emotional beats (minimum 6 points) representing the flow of the chapter.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"beat_description": {Type: genai.TypeString},
						"emotion_label":    {Type: genai.TypeString},
						"intensity":        {Type: genai.TypeInteger, Description: "1 (calm) to 10 (peak)"},
						"color_hex":        {Type: genai.TypeString, Description: "Hex color like #AA3311"},
					},
					Required: []string{"beat_description", "emotion_label", "intensity", "color_hex"},
				},
			},
			"visuals": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type: genai.TypeString,
							Enum: []string{"character_anchor", "mood", "location", "action", "symbolic"},
						},
						"description": {Type: genai.TypeString},
						"reuse":       {Type: genai.TypeBoolean},
					},
					Required: []string{"type", "description"},
				},
			},
		},
		Required: []string{"chapter_mood", "characters", "emotion_arc", "visuals"},
	}
}

// bibleSchema は設定資料応答のレスポンススキーマを組み立てる。
func bibleSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"characters": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":                 {Type: genai.TypeString},
						"physical_description": {Type: genai.TypeString},
					},
					Required: []string{"name", "physical_description"},
				},
			},
			"locations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":               {Type: genai.TypeString},
						"visual_description": {Type: genai.TypeString},
					},
					Required: []string{"name", "visual_description"},
				},
			},
			"art_style_guide": {Type: genai.TypeString},
		},
		Required: []string{"summary", "characters"},
	}
}
