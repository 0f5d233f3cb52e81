package planner

import (
	"strings"
	"testing"
)

func TestShotBounds(t *testing.T) {
	cases := []struct {
		words    int
		min, max int
	}{
		{0, 3, 6},
		{299, 3, 6},
		{300, 6, 10},
		{799, 6, 10},
		{800, 10, 16},
		{1499, 10, 16},
		{1500, 16, 24},
		{2999, 16, 24},
		{3000, 24, 35},
		{100000, 24, 35},
	}

	for _, c := range cases {
		min, max := ShotBounds(c.words)
		if min != c.min || max != c.max {
			t.Errorf("ShotBounds(%d) = (%d, %d), 期待値 (%d, %d)", c.words, min, max, c.min, c.max)
		}
	}
}

func TestShotBounds_Monotonic(t *testing.T) {
	// 語数が増えてもショット数の帯が下がらないこと
	prevMin, prevMax := 0, 0
	for _, w := range []int{0, 150, 500, 1000, 2000, 5000} {
		min, max := ShotBounds(w)
		if min < prevMin || max < prevMax {
			t.Errorf("語数 %d でショット帯が縮みました: (%d, %d) < (%d, %d)", w, min, max, prevMin, prevMax)
		}
		if min >= max {
			t.Errorf("語数 %d で下限が上限以上です: (%d, %d)", w, min, max)
		}
		prevMin, prevMax = min, max
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("It was a dark and stormy night."); got != 7 {
		t.Errorf("CountWords = %d, 期待値 7", got)
	}
	if got := CountWords("  \n\t "); got != 0 {
		t.Errorf("空白のみの入力で CountWords = %d", got)
	}
	if got := CountWords(strings.Repeat("word ", 2000)); got != 2000 {
		t.Errorf("CountWords = %d, 期待値 2000", got)
	}
}
