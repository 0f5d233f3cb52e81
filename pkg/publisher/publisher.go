// Package publisher はストーリーボードの成果物をMarkdownと画像ファイルとして
// 書き出します。出力先はローカルディレクトリとGCSの両方に対応します。
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理で生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された storyboard.md のパス
	ImagePaths   []string // 保存された全画像のパスリスト
}

const (
	defaultStoryboardName = "storyboard.md"
	defaultImageDirName   = "images"
	defaultTitle          = "Storyboard"
)

// StoryboardPublisher は成果物の永続化を担います。
type StoryboardPublisher struct {
	writer remoteio.OutputWriter
}

// NewStoryboardPublisher は StoryboardPublisher を生成します。
func NewStoryboardPublisher(writer remoteio.OutputWriter) (*StoryboardPublisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer (remoteio.OutputWriter) is required")
	}
	return &StoryboardPublisher{writer: writer}, nil
}

// Publish は画像の保存とMarkdownの構築を一括して実行するのだ。
// 画像を持たないショットはプレースホルダー扱いになり、エラーにはしません。
func (p *StoryboardPublisher) Publish(ctx context.Context, sess domain.Session, opts Options) (PublishResult, error) {
	result := PublishResult{}

	markdownPath, err := ResolveOutputPath(opts.OutputDir, defaultStoryboardName)
	if err != nil {
		return result, err
	}
	result.MarkdownPath = markdownPath

	imgDir, err := ResolveOutputPath(opts.OutputDir, defaultImageDirName)
	if err != nil {
		return result, err
	}

	imagePaths, relPaths, err := p.saveImages(ctx, sess.Shots, imgDir)
	if err != nil {
		return result, fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	result.ImagePaths = imagePaths

	content := buildMarkdown(sess, relPaths)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	slog.Info("ストーリーボードを書き出しました", "markdown", markdownPath, "images", len(imagePaths))
	return result, nil
}

// saveImages はショットの画像を保存し、保存パスとMarkdown用相対パスを返します。
// 戻り値の相対パスマップのキーはショットIDです。
func (p *StoryboardPublisher) saveImages(ctx context.Context, shots []domain.VisualItem, baseDir string) ([]string, map[string]string, error) {
	var paths []string
	relPaths := make(map[string]string, len(shots))

	for i, shot := range shots {
		if shot.ImageURL == "" {
			continue
		}
		mimeType, data, err := domain.DecodeDataURL(shot.ImageURL)
		if err != nil {
			slog.Warn("ショット画像をデコードできないためスキップします", "shot_id", shot.ID, "error", err)
			continue
		}

		name := fmt.Sprintf("shot_%02d%s", i+1, imageExt(mimeType))
		fullPath, err := ResolveOutputPath(baseDir, name)
		if err != nil {
			return nil, nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}

		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), mimeType); err != nil {
			return nil, nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}

		paths = append(paths, fullPath)
		relPaths[shot.ID] = path.Join(defaultImageDirName, filepath.Base(fullPath))
	}
	return paths, relPaths, nil
}

func imageExt(mimeType string) string {
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[len(exts)-1]
	}
	return ".png"
}

// buildMarkdown はセッション全体をMarkdownドキュメントに整形します。
func buildMarkdown(sess domain.Session, relPaths map[string]string) string {
	var sb strings.Builder

	title := sess.Meta.Title
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if sess.Meta.Author != "" {
		fmt.Fprintf(&sb, "- Author: %s\n", sess.Meta.Author)
	}
	if sess.Meta.Genre != "" {
		fmt.Fprintf(&sb, "- Genre: %s\n", sess.Meta.Genre)
	}
	fmt.Fprintf(&sb, "- Profile: %s\n\n", sess.Profile)

	if sess.Mood != nil {
		sb.WriteString("## Mood\n\n")
		fmt.Fprintf(&sb, "- Tone: %s\n", sess.Mood.Tone)
		fmt.Fprintf(&sb, "- Palette: %s\n\n", sess.Mood.PaletteHint)
	}

	if len(sess.Characters) > 0 {
		sb.WriteString("## Cast\n\n")
		for _, c := range sess.Characters {
			fmt.Fprintf(&sb, "- **%s**: %s\n", c.Name, c.PhysicalDescription)
		}
		sb.WriteString("\n")
	}

	if len(sess.EmotionArc) > 0 {
		sb.WriteString("## Emotion Arc\n\n")
		sb.WriteString("| Beat | Emotion | Intensity | Color |\n")
		sb.WriteString("|------|---------|-----------|-------|\n")
		for _, e := range sess.EmotionArc {
			fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", e.BeatDescription, e.EmotionLabel, e.Intensity, e.ColorHex)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Shots\n\n")
	for i, shot := range sess.Shots {
		fmt.Fprintf(&sb, "### Shot %d (%s)\n\n", i+1, shot.Type)
		fmt.Fprintf(&sb, "%s\n\n", shot.Description)
		if rel, ok := relPaths[shot.ID]; ok {
			fmt.Fprintf(&sb, "![Shot %d](%s)\n\n", i+1, rel)
		}
	}

	return sb.String()
}
