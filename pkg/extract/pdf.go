package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor は、ledongthuc/pdf を使ったローカルのPDFテキスト抽出実装です。
// ページごとに "[Page N]" 見出しを付けて連結します。
type PDFTextExtractor struct{}

// NewPDFTextExtractor は PDFTextExtractor を返します。
func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

// ExtractText は、PDFの全ページからプレーンテキストを抽出します。
func (x *PDFTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("PDFの読み込みに失敗しました: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("PDFのページ %d の抽出に失敗しました: %w", i, err)
		}
		sb.WriteString(fmt.Sprintf("[Page %d]\n%s\n\n", i, text))
	}

	return sb.String(), nil
}
