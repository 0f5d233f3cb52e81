package planner

import "strings"

// CountWords は本文の語数を概算する。空白区切りの単純なカウントで、
// ペース配分の帯を決めるのに十分な精度を持つ。
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ShotBounds は語数から構成案のショット数の下限と上限を決める。
// 上限は排他的で、モデルへは「min以上max未満」として指示する。
func ShotBounds(wordCount int) (min, max int) {
	switch {
	case wordCount < 300:
		return 3, 6
	case wordCount < 800:
		return 6, 10
	case wordCount < 1500:
		return 10, 16
	case wordCount < 3000:
		return 16, 24
	default:
		return 24, 35
	}
}
