package domain

import (
	"encoding/json"
	"testing"
)

func TestSession_JSONRoundTrip(t *testing.T) {
	t.Run("実行中フラグは永続化の往復で必ず落ちること", func(t *testing.T) {
		sess := NewSession()
		sess.Phase = PhasePlanning
		sess.ChapterText = "It was a dark and stormy night."
		sess.Characters = []Character{{Name: "Elara", Status: StatusDone, ImageURL: "data:image/png;base64,AAAA"}}
		sess.Shots = []VisualItem{{ID: "shot-1", Type: VisualTypeAction, Description: "storm", Status: StatusPending}}
		sess.IsAnalyzingBible = true
		sess.IsThinking = true

		data, err := json.Marshal(sess)
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}

		var decoded Session
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}

		if decoded.IsAnalyzingBible || decoded.IsThinking {
			t.Error("実行中フラグが永続化の往復を生き延びました")
		}

		// フラグ以外は構造的に等しいこと
		sess.IsAnalyzingBible = false
		sess.IsThinking = false
		redata, _ := json.Marshal(sess)
		if string(data) != string(redata) {
			t.Error("フラグ以外のフィールドが往復で変化しました")
		}
		if decoded.Phase != PhasePlanning || len(decoded.Shots) != 1 || decoded.Characters[0].ImageURL == "" {
			t.Errorf("復元されたセッションが不完全です: %+v", decoded)
		}
	})
}

func TestDecodeDataURL(t *testing.T) {
	t.Run("正しいdata URLを分解できること", func(t *testing.T) {
		mime, data, err := DecodeDataURL("data:image/png;base64,aGVsbG8=")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if mime != "image/png" || string(data) != "hello" {
			t.Errorf("期待値 (image/png, hello), 実際 (%s, %s)", mime, data)
		}
	})

	t.Run("プレフィックスのないペイロードはErrInvalidImageFormatになること", func(t *testing.T) {
		for _, bad := range []string{"aGVsbG8=", "data:image/png,raw", ""} {
			if _, _, err := DecodeDataURL(bad); err == nil {
				t.Errorf("不正なペイロード '%s' が受理されました", bad)
			}
		}
	})

	t.Run("エンコードとデコードが往復すること", func(t *testing.T) {
		url := EncodeDataURL("image/webp", []byte{0x1, 0x2, 0x3})
		mime, data, err := DecodeDataURL(url)
		if err != nil || mime != "image/webp" || len(data) != 3 {
			t.Errorf("往復に失敗しました: %s %v %v", mime, data, err)
		}
	})
}
