package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GenerateShotImage は1ショットの画像を生成します。生成中は該当ショットの
// ステータスが generating になり、完了時に data URL が書き込まれます。
func (h *Handler) GenerateShotImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.director.GenerateShotImage(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

// EditShotImage は既存のショット画像に対し自然言語の修正指示を適用します。
// 対象ショットに画像がない、または data URL 形式でない場合は 400 を返します。
func (h *Handler) EditShotImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req editRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "リクエストボディを解釈できません: " + err.Error()})
		return
	}
	if req.Instruction == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "instruction は必須です"})
		return
	}

	if err := h.director.EditShotImage(r.Context(), id, req.Instruction); err != nil {
		respondError(w, err)
		return
	}
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// GenerateAllImages は未生成のショット画像を一括生成します。個々のショットの
// 失敗は他のショットを止めず、ステータスとしてセッションに残ります。
func (h *Handler) GenerateAllImages(w http.ResponseWriter, r *http.Request) {
	if err := h.director.GenerateAll(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// GeneratePortrait はキャラクターの立ち絵(1:1のアンカー画像)を生成します。
func (h *Handler) GeneratePortrait(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.director.GeneratePortrait(r.Context(), name); err != nil {
		respondError(w, err)
		return
	}
	h.saveSession(r.Context())
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}
