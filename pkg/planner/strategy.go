package planner

import (
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// Strategy は構成案生成のグラウンディング方針なのだ。
// どの資料を根拠にし、検索ツールを使うかどうかを表す。
type Strategy interface {
	// UseSearch は Google検索グラウンディングを有効にすべきかを返す。
	UseSearch() bool
	isStrategy()
}

// SheetGrounded は構築済みの設定資料を唯一の根拠とする。検索は行わない。
type SheetGrounded struct {
	Sheet domain.ReferenceSheet
}

// NoteGrounded は利用者が貼り付けた設定メモを根拠とする。検索は行わない。
type NoteGrounded struct {
	Notes string
}

// SearchGrounded は作品タイトルを手がかりに検索グラウンディングを行う。
type SearchGrounded struct {
	Title  string
	Author string
}

// FileGrounded は添付された設定資料ファイルの内容を根拠とする。検索は行わない。
type FileGrounded struct{}

// InferenceOnly は本文のみから推論する。外部資料も検索も使わない。
type InferenceOnly struct{}

func (SheetGrounded) UseSearch() bool  { return false }
func (NoteGrounded) UseSearch() bool   { return false }
func (SearchGrounded) UseSearch() bool { return true }
func (FileGrounded) UseSearch() bool   { return false }
func (InferenceOnly) UseSearch() bool  { return false }

func (SheetGrounded) isStrategy()  {}
func (NoteGrounded) isStrategy()   {}
func (SearchGrounded) isStrategy() {}
func (FileGrounded) isStrategy()   {}
func (InferenceOnly) isStrategy()  {}

// SelectStrategy は構成案生成に使うグラウンディング方針を決める。
// 優先順位: 設定資料 > 設定メモ > タイトル検索 > 本文のみの推論。
func SelectStrategy(sheet *domain.ReferenceSheet, contextText string, meta domain.WorkMeta) Strategy {
	if sheet != nil && sheet.Summary != "" {
		return SheetGrounded{Sheet: *sheet}
	}
	if strings.TrimSpace(contextText) != "" {
		return NoteGrounded{Notes: contextText}
	}
	if strings.TrimSpace(meta.Title) != "" {
		return SearchGrounded{Title: meta.Title, Author: meta.Author}
	}
	return InferenceOnly{}
}

// SelectBibleStrategy は設定資料の構築に使う方針を決める。
// 添付資料 > タイトル検索 の順で選び、どちらも無ければ ErrNoSource を返す。
// 貼り付けメモは構成案生成のグラウンディングにのみ使われ、資料構築の材料にはならない。
func SelectBibleStrategy(hasFiles bool, meta domain.WorkMeta) (Strategy, error) {
	if hasFiles {
		return FileGrounded{}, nil
	}
	if strings.TrimSpace(meta.Title) != "" {
		return SearchGrounded{Title: meta.Title, Author: meta.Author}, nil
	}
	return nil, ErrNoSource
}
