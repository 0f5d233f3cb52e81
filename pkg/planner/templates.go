package planner

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFS embed.FS

var systemTemplates = template.Must(template.ParseFS(templateFS, "templates/*.md"))

// renderTemplate は埋め込み済みのシステム指示テンプレートを実行するのだ。
func renderTemplate(name string, data any) (string, error) {
	var sb strings.Builder
	if err := systemTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレート '%s' の実行に失敗しました: %w", name, err)
	}
	return sb.String(), nil
}
