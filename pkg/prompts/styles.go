// Package prompts は、画像生成バックエンドに渡すプロンプトを構築します。
// プロファイルごとの画風定義と、キャラクターの見た目を固定するための
// 一貫性注入ロジックを持ちます。
package prompts

import "github.com/shouni/go-storyboard-kit/pkg/domain"

// shotStyles はショット画像のプロファイル別スタイル定義です。
var shotStyles = map[domain.Profile]string{
	domain.ProfileNovelExplanation: "digital art, semi-realistic, atmospheric lighting, detailed background, matte painting style, cinematic composition",
	domain.ProfileAnimeRecap:       "high quality anime style, makoto shinkai inspired, vibrant colors, clean lines, cel shaded, dramatic lighting",
	domain.ProfileManhwaSummary:    "webtoon style, korean manhwa aesthetic, bold colors, sharp details, dynamic angle, highly polished",
}

// portraitStyles はキャラクターポートレートのプロファイル別スタイル定義です。
var portraitStyles = map[domain.Profile]string{
	domain.ProfileNovelExplanation: "digital art, character concept art, neutral background, detailed face, cinematic lighting, semi-realistic",
	domain.ProfileAnimeRecap:       "anime character sheet, white background, high quality, studio ghibli style, clean lines, cel shaded",
	domain.ProfileManhwaSummary:    "webtoon character profile, high detailed, glowing lighting, korean manhwa style, dynamic pose",
}

// ShotStyle は指定プロファイルのショット画風を返します。
// 未知のプロファイルは Novel Explanation の画風にフォールバックします。
func ShotStyle(p domain.Profile) string {
	if s, ok := shotStyles[p]; ok {
		return s
	}
	return shotStyles[domain.ProfileNovelExplanation]
}

// PortraitStyle は指定プロファイルのポートレート画風を返します。
func PortraitStyle(p domain.Profile) string {
	if s, ok := portraitStyles[p]; ok {
		return s
	}
	return portraitStyles[domain.ProfileNovelExplanation]
}
