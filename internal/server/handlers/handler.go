// Package handlers は、ストーリーボードAPIのHTTPハンドラー群なのだ。
// 全エンドポイントはJSONを返し、セッションへの変更は必ず state.Store を経由する。
package handlers

import (
	"fmt"

	"github.com/shouni/go-storyboard-kit/pkg/director"
	"github.com/shouni/go-storyboard-kit/pkg/planner"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

// Handler はAPIエンドポイントの依存をまとめたものです。
type Handler struct {
	store     *state.Store
	planner   *planner.PlanRunner
	bible     *planner.BibleRunner
	refiner   *planner.RefineRunner
	director  *director.Director
	publisher *publisher.StoryboardPublisher
	outputDir string
}

// NewHandler は Handler を初期化します。
func NewHandler(
	store *state.Store,
	planRunner *planner.PlanRunner,
	bibleRunner *planner.BibleRunner,
	refineRunner *planner.RefineRunner,
	d *director.Director,
	pub *publisher.StoryboardPublisher,
	outputDir string,
) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("store (*state.Store) is required")
	}
	if planRunner == nil || bibleRunner == nil || refineRunner == nil {
		return nil, fmt.Errorf("planner runners are required")
	}
	if d == nil {
		return nil, fmt.Errorf("director (*director.Director) is required")
	}
	return &Handler{
		store:     store,
		planner:   planRunner,
		bible:     bibleRunner,
		refiner:   refineRunner,
		director:  d,
		publisher: pub,
		outputDir: outputDir,
	}, nil
}
