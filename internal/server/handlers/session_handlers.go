package handlers

import (
	"net/http"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
)

// GetSession は現在のセッション全体を返します。
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// inputRequest は入力画面からの更新リクエストです。nil のフィールドは変更されません。
type inputRequest struct {
	ChapterText  *string               `json:"chapter_text"`
	ContextNotes *string               `json:"context_text"`
	Meta         *domain.WorkMeta      `json:"meta"`
	Profile      *domain.Profile       `json:"selected_profile"`
	AspectRatio  *string               `json:"image_aspect_ratio"`
	Files        []domain.UploadedFile `json:"files"`
	ContextFiles []domain.UploadedFile `json:"context_files"`
}

// UpdateInput は章テキスト・メモ・メタデータなどの入力フィールドを更新します。
func (h *Handler) UpdateInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "リクエストボディを解釈できません: " + err.Error()})
		return
	}
	if req.Profile != nil && !req.Profile.Valid() {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "未知のプロファイルです: " + string(*req.Profile)})
		return
	}

	h.store.Update(func(sess *domain.Session) {
		if req.ChapterText != nil {
			sess.ChapterText = *req.ChapterText
		}
		if req.ContextNotes != nil {
			sess.ContextNotes = *req.ContextNotes
		}
		if req.Meta != nil {
			sess.Meta = *req.Meta
		}
		if req.Profile != nil {
			sess.Profile = *req.Profile
		}
		if req.AspectRatio != nil {
			sess.AspectRatio = *req.AspectRatio
		}
		if req.Files != nil {
			sess.Files = req.Files
		}
		if req.ContextFiles != nil {
			sess.ContextFiles = req.ContextFiles
		}
	})

	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// ResetSession はセッションを初期状態に戻します。設定資料もキャストも消えます。
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// ExportStoryboard はストーリーボードをMarkdownと画像ファイルに書き出します。
func (h *Handler) ExportStoryboard(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "書き出し機能が構成されていません"})
		return
	}

	result, err := h.publisher.Publish(r.Context(), h.store.Snapshot(), publisher.Options{OutputDir: h.outputDir})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
