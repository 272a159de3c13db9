package handler

import (
	"context"
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/feedback"
	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// FeedbackServiceInterface はフィードバックハンドラーが必要とするサービスインターフェース。
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, req feedback.Request) (*model.Feedback, error)
}

// FeedbackHandler は翻訳フィードバックのHTTPハンドラー。
type FeedbackHandler struct {
	service FeedbackServiceInterface
}

// NewFeedbackHandler はFeedbackHandlerを生成する。
func NewFeedbackHandler(service FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type feedbackRequestBody struct {
	TranslationID string `json:"translation_id"`
	Rating        int    `json:"rating"`
	UserEdit      string `json:"user_edit"`
}

// Submit は翻訳へのフィードバックを登録する。
// POST /api/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	var body feedbackRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	fb, err := h.service.Submit(r.Context(), feedback.Request{
		TranslationID: body.TranslationID,
		UserID:        userID,
		Rating:        body.Rating,
		UserEdit:      body.UserEdit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             fb.ID,
		"translation_id": fb.TranslationID,
		"rating":         fb.Rating,
		"user_edit":      fb.UserEdit,
	})
}
