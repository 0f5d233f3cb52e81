package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/planner"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

// AnalyzeBible は設定資料(リファレンスシート)を構築してセッションに保存します。
// 材料はセッション内の設定ファイル・メモ・作品メタデータから選ばれます。
func (h *Handler) AnalyzeBible(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Snapshot()

	h.store.Update(func(s *domain.Session) { s.IsAnalyzingBible = true })
	defer h.store.Update(func(s *domain.Session) { s.IsAnalyzingBible = false })

	sheet, err := h.bible.Run(r.Context(), planner.BibleInput{
		ContextFiles: sess.ContextFiles,
		Meta:         sess.Meta,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.store.SetBible(sheet)
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, sheet)
}

// GeneratePlan は章テキストから構成案を生成し、セッションに反映します。
// 既存のショット一覧は置き換えられますが、一致するキャストの立ち絵は保持されます。
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Snapshot()

	h.store.Update(func(s *domain.Session) { s.IsThinking = true })
	defer h.store.Update(func(s *domain.Session) { s.IsThinking = false })

	result, err := h.planner.Run(r.Context(), planner.PlanInput{
		ChapterText:  sess.ChapterText,
		ChapterFiles: sess.Files,
		Profile:      sess.Profile,
		ContextNotes: sess.ContextNotes,
		Bible:        sess.Bible,
		Meta:         sess.Meta,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.store.ApplyPlan(result.Plan, uuid.NewString)
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// RefineShot は1ショットの説明文を練り直し、結果をそのショットに書き戻します。
func (h *Handler) RefineShot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := h.store.Snapshot()

	var target *domain.VisualItem
	for i := range sess.Shots {
		if sess.Shots[i].ID == id {
			target = &sess.Shots[i]
			break
		}
	}
	if target == nil {
		respondError(w, fmt.Errorf("ショット %q: %w", id, state.ErrShotNotFound))
		return
	}

	// 練り直し中は生成中として見せ、失敗したらショット自身に error を残す
	if err := h.store.UpdateShot(id, func(item *domain.VisualItem) {
		item.Status = domain.StatusGenerating
	}); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.refiner.Run(r.Context(), planner.RefineInput{
		CurrentType:        target.Type,
		CurrentDescription: target.Description,
		ChapterText:        sess.ChapterText,
		BookTitle:          sess.Meta.Title,
	})
	if err != nil {
		if uerr := h.store.UpdateShot(id, func(item *domain.VisualItem) {
			item.Status = domain.StatusError
		}); uerr != nil {
			slog.Warn("練り直し失敗の記録に失敗しました", "shot_id", id, "error", uerr)
		}
		respondError(w, err)
		return
	}

	if err := h.store.UpdateShot(id, func(item *domain.VisualItem) {
		item.Type = domain.VisualType(result.Type)
		item.Description = result.Description
		item.Status = domain.StatusPending
	}); err != nil {
		respondError(w, err)
		return
	}

	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, result)
}

type shotPatchRequest struct {
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

// UpdateShot はショットの説明や分類を手動編集します。
func (h *Handler) UpdateShot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req shotPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "リクエストボディを解釈できません: " + err.Error()})
		return
	}
	if req.Type != nil && !domain.VisualType(*req.Type).Valid() {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "未知のショット分類です: " + *req.Type})
		return
	}

	if err := h.store.UpdateShot(id, func(item *domain.VisualItem) {
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Type != nil {
			item.Type = domain.VisualType(*req.Type)
		}
	}); err != nil {
		respondError(w, err)
		return
	}

	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// RemoveShot はショットを構成案から取り除きます。進行中の画像生成があれば
// その完了報告は破棄されます。
func (h *Handler) RemoveShot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.RemoveShot(id); err != nil {
		respondError(w, err)
		return
	}
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}
