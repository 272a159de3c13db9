package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IND-Anshuman/BHASHASETU/internal/feedback"
	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

type mockFeedbackService struct {
	submitFn func(ctx context.Context, req feedback.Request) (*model.Feedback, error)
}

func (m *mockFeedbackService) Submit(ctx context.Context, req feedback.Request) (*model.Feedback, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, req)
	}
	return nil, nil
}

func TestFeedbackHandler_Submit_Returns201(t *testing.T) {
	var captured feedback.Request
	svc := &mockFeedbackService{
		submitFn: func(ctx context.Context, req feedback.Request) (*model.Feedback, error) {
			captured = req
			return &model.Feedback{
				ID:            "01FB",
				TranslationID: req.TranslationID,
				UserID:        req.UserID,
				Rating:        req.Rating,
				UserEdit:      req.UserEdit,
			}, nil
		},
	}
	h := NewFeedbackHandler(svc)

	req := authedJSONRequest(t, http.MethodPost, "/api/feedback", map[string]any{
		"translation_id": "01TRN",
		"rating":         5,
		"user_edit":      "better wording",
	})
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Result().StatusCode, http.StatusCreated, w.Body.String())
	}
	if captured.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1 from session context", captured.UserID)
	}
	if captured.Rating != 5 {
		t.Errorf("rating = %d, want 5", captured.Rating)
	}
}

func TestFeedbackHandler_Submit_InvalidRating_Returns400(t *testing.T) {
	svc := &mockFeedbackService{
		submitFn: func(ctx context.Context, req feedback.Request) (*model.Feedback, error) {
			return nil, model.NewInvalidRatingError(req.Rating)
		},
	}
	h := NewFeedbackHandler(svc)

	req := authedJSONRequest(t, http.MethodPost, "/api/feedback", map[string]any{
		"translation_id": "01TRN",
		"rating":         9,
	})
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestFeedbackHandler_Submit_UnknownTranslation_Returns404(t *testing.T) {
	svc := &mockFeedbackService{
		submitFn: func(ctx context.Context, req feedback.Request) (*model.Feedback, error) {
			return nil, model.NewTranslationNotFoundError(req.TranslationID)
		},
	}
	h := NewFeedbackHandler(svc)

	req := authedJSONRequest(t, http.MethodPost, "/api/feedback", map[string]any{
		"translation_id": "missing",
		"rating":         3,
	})
	w := httptest.NewRecorder()

	h.Submit(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}

	var errBody middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if errBody.Code != model.ErrCodeTranslationNotFound {
		t.Errorf("code = %q, want %q", errBody.Code, model.ErrCodeTranslationNotFound)
	}
}
