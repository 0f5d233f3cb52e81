package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSource は設定資料を構築する材料が一つも無いことを示す。
	ErrNoSource = errors.New("設定資料を構築するための入力がありません (ファイル添付または作品タイトルが必要です)")
	// ErrEmptySource は本文と添付のどちらにも中身が無いことを示す。
	ErrEmptySource = errors.New("本文テキストと添付ファイルのどちらも空です")
	// ErrEmptyPlan はモデルが空の構成案を返したことを示す。
	ErrEmptyPlan = errors.New("モデルが空の構成案を返しました")
	// ErrEmptyReferenceSheet はモデルが空の設定資料を返したことを示す。
	ErrEmptyReferenceSheet = errors.New("モデルが空の設定資料を返しました")
)

// pageLimitPhrase はバックエンドがPDFのページ数超過を報告するときのエラーメッセージ断片。
const pageLimitPhrase = "exceeds the supported page limit"

// OversizedInputError は添付PDFがバックエンドの処理上限を超えた場合のエラー。
// 利用者が取れる対処をメッセージに含める。
type OversizedInputError struct {
	// Raw はバックエンドが返した元のエラー。
	Raw error
}

func (e *OversizedInputError) Error() string {
	return "添付PDFがモデルの処理可能ページ数を超えています。ファイルを分割するか、必要な章だけを抽出して再実行してください"
}

func (e *OversizedInputError) Unwrap() error {
	return e.Raw
}

// classifyBackendError はバックエンドのエラーを利用者向けの形に変換する。
func classifyBackendError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), pageLimitPhrase) {
		return &OversizedInputError{Raw: err}
	}
	return fmt.Errorf("生成バックエンドの呼び出しに失敗しました: %w", err)
}
