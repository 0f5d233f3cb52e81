package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidImageFormat は、data URL 形式を期待する処理に
// それ以外のペイロードが渡されたことを示します。
var ErrInvalidImageFormat = errors.New("画像データが data URL 形式ではありません")

// UploadedFile は、ユーザーが添付した1ファイルです。
// Data は data URL（"data:<mime>;base64,..."）または素の base64 文字列です。
// 章添付とコンテキスト添付は独立したリストとして所有されます。
type UploadedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// IsPDF は、このファイルをPDFとして扱うべきかを返します。
func (f UploadedFile) IsPDF() bool {
	return f.MimeType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}

// IsText は、このファイルをプレーンテキストとして扱うべきかを返します。
// text/* の MIME タイプに加え、拡張子 .txt / .md / .csv を許容します。
func (f UploadedFile) IsText() bool {
	if strings.HasPrefix(f.MimeType, "text/") {
		return true
	}
	name := strings.ToLower(f.Name)
	return strings.HasSuffix(name, ".txt") ||
		strings.HasSuffix(name, ".md") ||
		strings.HasSuffix(name, ".csv")
}

// Payload は、data URL のプレフィックスを取り除いた生のバイト列を返します。
func (f UploadedFile) Payload() ([]byte, error) {
	raw := f.Data
	if idx := strings.Index(raw, ","); idx >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("ファイル '%s' のbase64デコードに失敗しました: %w", f.Name, err)
	}
	return data, nil
}

var dataURLRegex = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// DecodeDataURL は data URL を MIME タイプと生バイト列に分解します。
// 形式が一致しない場合は、バックエンド呼び出しの前に ErrInvalidImageFormat を返します。
func DecodeDataURL(s string) (mimeType string, data []byte, err error) {
	m := dataURLRegex.FindStringSubmatch(s)
	if len(m) != 3 {
		return "", nil, ErrInvalidImageFormat
	}
	data, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImageFormat, err)
	}
	return m[1], data, nil
}

// EncodeDataURL はバイト列を data URL にエンコードします。
func EncodeDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
