// Package director は、ストーリーボードのショット画像・キャラクターポートレートの
// 生成と編集を指揮します。レートリミットと呼び出しタイムアウトを一元管理し、
// 生成結果は世代チケット経由でのみセッションへ反映されます。
package director

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	geminicli "github.com/shouni/go-gemini-client/pkg/gemini"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/prompts"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

// PanelGenerator は1枚の画像生成を担うバックエンドの契約です。
type PanelGenerator interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// ImageEditor は既存画像+指示文からの再生成を担うバックエンドの契約です。
type ImageEditor interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts geminicli.GenerateOptions) (*geminicli.Response, error)
}

// Director は画像生成のオーケストレーターです。
type Director struct {
	store     *state.Store
	panels    PanelGenerator
	editor    ImageEditor
	editModel string
	limiter   *rate.Limiter
	timeout   time.Duration
}

// New は Director を初期化します。
func New(store *state.Store, panels PanelGenerator, editor ImageEditor, editModel string, limiter *rate.Limiter, timeout time.Duration) (*Director, error) {
	if store == nil {
		return nil, fmt.Errorf("store (*state.Store) is required")
	}
	if panels == nil {
		return nil, fmt.Errorf("panels (PanelGenerator) is required")
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Director{
		store:     store,
		panels:    panels,
		editor:    editor,
		editModel: editModel,
		limiter:   limiter,
		timeout:   timeout,
	}, nil
}

// GenerateShotImage は1ショットの画像を生成してセッションへ反映します。
// 生成中にショットが消えた・作り直された場合、結果は反映されません。
func (d *Director) GenerateShotImage(ctx context.Context, id string) error {
	token, item, err := d.store.BeginShot(id)
	if err != nil {
		return err
	}

	snap := d.store.Snapshot()
	mood := domain.ChapterMood{}
	if snap.Mood != nil {
		mood = *snap.Mood
	}

	builder := prompts.NewShotPromptBuilder(snap.Profile, mood, snap.Characters, snap.AspectRatio)
	req := imagedom.ImageGenerationRequest{
		Prompt:         builder.Build(item),
		NegativePrompt: prompts.NegativeShotPrompt,
		AspectRatio:    snap.AspectRatio,
		Seed:           castSeed(item.Description, snap.Characters),
	}

	resp, err := d.generatePanel(ctx, req)
	if err != nil {
		d.store.CompleteShot(id, token, "", domain.StatusError)
		return fmt.Errorf("ショット %s の画像生成に失敗しました: %w", id, err)
	}

	d.store.CompleteShot(id, token, domain.EncodeDataURL(resp.MimeType, resp.Data), domain.StatusDone)
	slog.Info("ショット画像を生成しました", "shot_id", id, "mime_type", resp.MimeType)
	return nil
}

// GeneratePortrait はキャラクターのリファレンスポートレートを生成します。
// シードは名前から決定論的に導出され、同じキャラクターの再生成では同じ値になります。
func (d *Director) GeneratePortrait(ctx context.Context, name string) error {
	token, character, err := d.store.BeginCharacter(name)
	if err != nil {
		return err
	}

	snap := d.store.Snapshot()
	seed := int64(domain.SeedFromName(character.Name))
	req := imagedom.ImageGenerationRequest{
		Prompt:         prompts.BuildPortraitPrompt(character, snap.Profile),
		NegativePrompt: prompts.NegativeShotPrompt,
		AspectRatio:    "1:1",
		Seed:           &seed,
	}

	resp, err := d.generatePanel(ctx, req)
	if err != nil {
		d.store.CompleteCharacter(name, token, "", domain.StatusError)
		return fmt.Errorf("キャラクター '%s' のポートレート生成に失敗しました: %w", name, err)
	}

	d.store.CompleteCharacter(name, token, domain.EncodeDataURL(resp.MimeType, resp.Data), domain.StatusDone)
	slog.Info("ポートレートを生成しました", "character", character.Name)
	return nil
}

// EditShotImage は既存のショット画像に編集指示を適用した新しい画像を生成します。
// 元画像が data URL でない場合、バックエンドを呼ぶ前に ErrInvalidImageFormat で失敗します。
func (d *Director) EditShotImage(ctx context.Context, id, instruction string) error {
	if d.editor == nil {
		return fmt.Errorf("画像編集バックエンドが構成されていません")
	}

	item, err := d.findShot(id)
	if err != nil {
		return err
	}
	mimeType, data, err := domain.DecodeDataURL(item.ImageURL)
	if err != nil {
		return fmt.Errorf("ショット %s の元画像を読めません: %w", id, err)
	}

	token, _, err := d.store.BeginShot(id)
	if err != nil {
		return err
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		{Text: prompts.BuildEditInstruction(instruction)},
	}

	if err := d.limiter.Wait(ctx); err != nil {
		d.store.CompleteShot(id, token, "", domain.StatusError)
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.editor.GenerateWithParts(cctx, d.editModel, parts, geminicli.GenerateOptions{})
	if err != nil {
		d.store.CompleteShot(id, token, "", domain.StatusError)
		return fmt.Errorf("ショット %s の画像編集に失敗しました: %w", id, err)
	}

	editedMime, editedData, err := extractInlineImage(resp)
	if err != nil {
		d.store.CompleteShot(id, token, "", domain.StatusError)
		return fmt.Errorf("ショット %s の編集応答に画像がありません: %w", id, err)
	}

	d.store.CompleteShot(id, token, domain.EncodeDataURL(editedMime, editedData), domain.StatusDone)
	slog.Info("ショット画像を編集しました", "shot_id", id)
	return nil
}

// GenerateAll は画像を持たないショット全件の生成を並行実行します。
// 個々のショットの失敗は他のショットを巻き込まず、ログとステータスに残るだけです。
func (d *Director) GenerateAll(ctx context.Context) error {
	snap := d.store.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	for _, shot := range snap.Shots {
		if shot.ImageURL != "" && shot.Status == domain.StatusDone {
			continue
		}
		id := shot.ID
		g.Go(func() error {
			if err := d.GenerateShotImage(gctx, id); err != nil {
				// 失敗したショットは error 状態のまま残し、全体は続行する
				slog.Warn("ショットの一括生成で1件失敗しました", "shot_id", id, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// generatePanel はレートリミットとタイムアウトを適用してバックエンドを呼びます。
func (d *Director) generatePanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.panels.GenerateMangaPanel(cctx, req)
}

func (d *Director) findShot(id string) (domain.VisualItem, error) {
	for _, shot := range d.store.Snapshot().Shots {
		if shot.ID == id {
			return shot, nil
		}
	}
	return domain.VisualItem{}, fmt.Errorf("%w: id=%s", state.ErrShotNotFound, id)
}

// castSeed は、説明文に最初に名前が現れるキャラクターからシードを導出します。
// 誰の名前も現れないショットはシードなし(非決定)で生成します。
func castSeed(description string, cast []domain.Character) *int64 {
	lower := strings.ToLower(description)
	for _, c := range cast {
		key := c.Key()
		if key == "" {
			continue
		}
		if strings.Contains(lower, key) {
			seed := int64(domain.SeedFromName(c.Name))
			return &seed
		}
	}
	return nil
}

// extractInlineImage は編集応答の候補から最初のインライン画像を取り出します。
func extractInlineImage(resp *geminicli.Response) (mimeType string, data []byte, err error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return "", nil, fmt.Errorf("応答に候補がありません")
	}
	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content == nil {
		return "", nil, fmt.Errorf("応答候補にコンテンツがありません")
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil {
			return part.InlineData.MIMEType, part.InlineData.Data, nil
		}
	}
	return "", nil, fmt.Errorf("応答候補にインライン画像がありません")
}
