package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

func TestSelectStrategy(t *testing.T) {
	sheet := &domain.ReferenceSheet{Summary: "A tale of two cities."}
	meta := domain.WorkMeta{Title: "A Tale of Two Cities", Author: "Dickens"}
	notes := "Elara has silver hair"

	// (資料, メモ, タイトル) の全8通りの組み合わせを網羅する
	cases := []struct {
		name   string
		sheet  *domain.ReferenceSheet
		notes  string
		meta   domain.WorkMeta
		want   Strategy
		search bool
	}{
		{"資料+メモ+タイトルは資料優先", sheet, notes, meta, SheetGrounded{Sheet: *sheet}, false},
		{"資料+メモは資料優先", sheet, notes, domain.WorkMeta{}, SheetGrounded{Sheet: *sheet}, false},
		{"資料+タイトルは資料優先", sheet, "", meta, SheetGrounded{Sheet: *sheet}, false},
		{"資料のみは資料優先", sheet, "", domain.WorkMeta{}, SheetGrounded{Sheet: *sheet}, false},
		{"メモ+タイトルはメモ優先で検索なし", nil, notes, meta, NoteGrounded{Notes: notes}, false},
		{"メモのみはメモ優先で検索なし", nil, notes, domain.WorkMeta{}, NoteGrounded{Notes: notes}, false},
		{"タイトルのみは検索", nil, "", meta, SearchGrounded{Title: meta.Title, Author: meta.Author}, true},
		{"手がかりが本文だけなら推論のみ", nil, "", domain.WorkMeta{}, InferenceOnly{}, false},

		// 境界: 空白や中身のない入力は「無い」扱いになる
		{"空白だけのメモは無視されること", nil, "   \n ", domain.WorkMeta{}, InferenceOnly{}, false},
		{"空白だけのタイトルは無視されること", nil, "", domain.WorkMeta{Title: "  "}, InferenceOnly{}, false},
		{"中身のない設定資料は無視されること", &domain.ReferenceSheet{}, "", meta, SearchGrounded{Title: meta.Title, Author: meta.Author}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SelectStrategy(c.sheet, c.notes, c.meta)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("SelectStrategy = %#v, 期待値 %#v", got, c.want)
			}
			if got.UseSearch() != c.search {
				t.Errorf("UseSearch = %v, 期待値 %v", got.UseSearch(), c.search)
			}
		})
	}
}

func TestSelectBibleStrategy(t *testing.T) {
	t.Run("ファイルが最優先であること", func(t *testing.T) {
		got, err := SelectBibleStrategy(true, domain.WorkMeta{Title: "T"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(FileGrounded); !ok {
			t.Errorf("期待値 FileGrounded, 実際 %#v", got)
		}
	})

	t.Run("タイトルのみは検索になること", func(t *testing.T) {
		got, err := SelectBibleStrategy(false, domain.WorkMeta{Title: "Dune", Author: "Herbert"})
		if err != nil {
			t.Fatal(err)
		}
		sg, ok := got.(SearchGrounded)
		if !ok || sg.Title != "Dune" {
			t.Errorf("期待値 SearchGrounded{Dune}, 実際 %#v", got)
		}
	})

	t.Run("ファイルもタイトルも無ければErrNoSourceになること", func(t *testing.T) {
		_, err := SelectBibleStrategy(false, domain.WorkMeta{})
		if !errors.Is(err, ErrNoSource) {
			t.Errorf("期待値 ErrNoSource, 実際 %v", err)
		}
	})

	t.Run("空白だけのタイトルはErrNoSourceになること", func(t *testing.T) {
		_, err := SelectBibleStrategy(false, domain.WorkMeta{Title: "  "})
		if !errors.Is(err, ErrNoSource) {
			t.Errorf("期待値 ErrNoSource, 実際 %v", err)
		}
	})
}
