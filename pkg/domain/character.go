package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
)

// Character は、作品に登場するキャラクターの視覚情報を保持します。
// 同一性の判定キーは名前の小文字化です。
// プラン生成のたびに返される一時的なエントリと、ポートレート画像を蓄積していく
// セッション側の永続的なエントリの、2つのライフサイクルが重なります。
type Character struct {
	Name                string     `json:"name"`
	PhysicalDescription string     `json:"physical_description"`
	ImageURL            string     `json:"image_url,omitempty"`
	Status              ItemStatus `json:"status,omitempty"`
}

// Key はキャスト照合に使う正規化済みの同一性キーを返します。
func (c Character) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// String はキャラクターの概要を文字列で返すのだ。
func (c Character) String() string {
	return fmt.Sprintf("%s: %s", c.Name, c.PhysicalDescription)
}

// ReconcileCast は、新しいプランが返したキャスト fresh を、保持済みのキャスト
// retained と突き合わせて統合します。
//
//   - 名前（大文字小文字を無視）が一致した場合、新エントリが画像を持たなければ
//     保持済みの画像を引き継ぎ、保持済みが done ならステータスも done のまま維持します。
//   - fresh に現れなかった保持済みキャラクターは、統合リストの後ろへそのまま残します。
//
// 一度 done になったポートレートが後続のプラン生成で失われることはありません。
// キャストが消えるのは、セッションを明示的にリセットしたときだけです。
func ReconcileCast(retained, fresh []Character) []Character {
	byKey := make(map[string]Character, len(retained))
	for _, c := range retained {
		byKey[c.Key()] = c
	}

	merged := make([]Character, 0, len(fresh)+len(retained))
	seen := make(map[string]struct{}, len(fresh))

	for _, nc := range fresh {
		key := nc.Key()
		seen[key] = struct{}{}

		old, ok := byKey[key]
		if !ok {
			merged = append(merged, nc)
			continue
		}

		mc := nc
		if mc.ImageURL == "" {
			mc.ImageURL = old.ImageURL
		}
		if old.Status == StatusDone {
			mc.Status = StatusDone
		}
		merged = append(merged, mc)
	}

	for _, c := range retained {
		if _, ok := seen[c.Key()]; !ok {
			merged = append(merged, c)
		}
	}

	return merged
}

// SeedFromName は、名前から決定論的なシード値を生成します。
// 同じキャラクターには独立した生成リクエストでも同じシードが使われ、
// 外見の一貫性を保ちやすくなるのだ。
func SeedFromName(name string) int32 {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	seed := int32(binary.BigEndian.Uint32(hash[:4]))
	// Geminiのシード値は正の数が望ましいため、最上位ビットを落としておきます
	return seed & 0x7FFFFFFF
}
