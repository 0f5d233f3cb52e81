package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/planner"
	"github.com/shouni/go-storyboard-kit/pkg/state"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON はJSONレスポンスを書き込みます。
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// respondError はエラーの種類をHTTPステータスに写像して返します。
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var oversized *planner.OversizedInputError
	switch {
	case errors.Is(err, state.ErrShotNotFound), errors.Is(err, state.ErrCharacterNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, planner.ErrNoSource),
		errors.Is(err, planner.ErrEmptySource):
		status = http.StatusBadRequest
	case errors.As(err, &oversized):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	slog.Error("リクエストの処理に失敗しました", "status", status, "error", err)
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody はJSONボディを指定の型にデコードします。
func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// saveSession はセッションを永続化します。保存の失敗はリクエスト自体を
// 失敗させず、ログに残すだけです。
func (h *Handler) saveSession(ctx context.Context) {
	if err := h.store.Save(ctx); err != nil {
		slog.Warn("セッションの保存に失敗しました", "error", err)
	}
}
