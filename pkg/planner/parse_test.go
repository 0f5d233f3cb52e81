package planner

import (
	"errors"
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name string
		raw  string
	}{
		{"素のJSON", `{"name": "Elara"}`},
		{"jsonフェンス付き", "```json\n{\"name\": \"Elara\"}\n```"},
		{"言語指定なしフェンス", "```\n{\"name\": \"Elara\"}\n```"},
		{"前後に説明文が混ざった応答", "Here is the plan:\n{\"name\": \"Elara\"}\nLet me know!"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p payload
			if err := decodeResponse(c.raw, &p); err != nil {
				t.Fatalf("解析に失敗しました: %v", err)
			}
			if p.Name != "Elara" {
				t.Errorf("name = %q, 期待値 Elara", p.Name)
			}
		})
	}

	t.Run("JSONを含まない応答はエラーになること", func(t *testing.T) {
		var p payload
		if err := decodeResponse("I cannot do that.", &p); err == nil {
			t.Error("JSONのない応答が受理されました")
		}
	})
}

func TestClassifyBackendError(t *testing.T) {
	t.Run("ページ数超過は利用者向けエラーに変換されること", func(t *testing.T) {
		raw := errors.New("Document exceeds the supported page limit of 1000 pages")
		err := classifyBackendError(raw)

		var oversized *OversizedInputError
		if !errors.As(err, &oversized) {
			t.Fatalf("OversizedInputError に変換されていません: %v", err)
		}
		if !errors.Is(err, raw) {
			t.Error("元のエラーが Unwrap で辿れません")
		}
	})

	t.Run("その他のエラーはラップだけされること", func(t *testing.T) {
		raw := errors.New("deadline exceeded")
		err := classifyBackendError(raw)

		var oversized *OversizedInputError
		if errors.As(err, &oversized) {
			t.Error("無関係のエラーが OversizedInputError に変換されました")
		}
		if !errors.Is(err, raw) {
			t.Error("元のエラーが Unwrap で辿れません")
		}
	})

	t.Run("nilはnilのままであること", func(t *testing.T) {
		if classifyBackendError(nil) != nil {
			t.Error("nil が非nilに変換されました")
		}
	})
}
