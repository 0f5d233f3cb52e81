package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// PDFExtractor は、PDFバイト列からテキストを取り出す外部能力の契約です。
type PDFExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Extractor は、添付ファイル群を1つの結合テキストに正規化します。
// 各ドキュメントは境界マーカーで囲まれ、入力順がそのまま維持されます。
type Extractor struct {
	pdf PDFExtractor
}

// New は Extractor を初期化します。
func New(pdf PDFExtractor) (*Extractor, error) {
	if pdf == nil {
		return nil, fmt.Errorf("pdf (PDFExtractor) is required")
	}
	return &Extractor{pdf: pdf}, nil
}

// Combine は、ファイル群からテキストを抽出して結合します。
//
//   - PDF は外部のテキスト抽出能力に委譲します。抽出自体の失敗はエラーとして
//     そのまま伝播し、リクエスト全体を中断させます。
//   - text/* または .txt/.md/.csv はペイロードを直接デコードします。
//   - それ以外のファイルは黙ってスキップします（エラーにせず結合から除外）。
func (e *Extractor) Combine(ctx context.Context, files []domain.UploadedFile) (string, error) {
	var sb strings.Builder

	for _, f := range files {
		switch {
		case f.IsPDF():
			payload, err := f.Payload()
			if err != nil {
				return "", err
			}
			text, err := e.pdf.ExtractText(ctx, payload)
			if err != nil {
				return "", fmt.Errorf("PDF '%s' のテキスト抽出に失敗しました: %w", f.Name, err)
			}
			writeDocument(&sb, f.Name, text)

		case f.IsText():
			payload, err := f.Payload()
			if err != nil {
				return "", err
			}
			writeDocument(&sb, f.Name, string(payload))

		default:
			slog.Debug("未対応のファイル形式をスキップします", "name", f.Name, "mime_type", f.MimeType)
		}
	}

	return sb.String(), nil
}

func writeDocument(sb *strings.Builder, name, text string) {
	sb.WriteString("\n--- START DOCUMENT: ")
	sb.WriteString(name)
	sb.WriteString(" ---\n")
	sb.WriteString(text)
	sb.WriteString("\n--- END DOCUMENT ---\n")
}
