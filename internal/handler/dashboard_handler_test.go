package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

type mockDashboardService struct {
	metricsFn func(ctx context.Context) (*model.DashboardMetrics, error)
}

func (m *mockDashboardService) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	if m.metricsFn != nil {
		return m.metricsFn(ctx)
	}
	return nil, nil
}

func TestDashboardHandler_Metrics_ReturnsAggregates(t *testing.T) {
	svc := &mockDashboardService{
		metricsFn: func(ctx context.Context) (*model.DashboardMetrics, error) {
			return &model.DashboardMetrics{
				TotalTranslations:    120,
				LanguagesServed:      []string{"hi", "ta", "bn"},
				AverageConfidence:    0.87,
				FeedbackPositiveRate: 0.75,
				TTSRequests:          14,
				SubtitleTranslations: 9,
			}, nil
		},
	}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var body struct {
		TotalTranslations    int      `json:"total_translations"`
		LanguagesServed      []string `json:"languages_served"`
		FeedbackPositiveRate float64  `json:"feedback_positive_rate"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.TotalTranslations != 120 {
		t.Errorf("total_translations = %d, want 120", body.TotalTranslations)
	}
	if len(body.LanguagesServed) != 3 {
		t.Errorf("languages_served = %v, want 3 entries", body.LanguagesServed)
	}
	if body.FeedbackPositiveRate != 0.75 {
		t.Errorf("feedback_positive_rate = %v, want 0.75", body.FeedbackPositiveRate)
	}
}

func TestDashboardHandler_Metrics_ServiceError_Returns500(t *testing.T) {
	svc := &mockDashboardService{
		metricsFn: func(ctx context.Context) (*model.DashboardMetrics, error) {
			return nil, errors.New("db unavailable")
		},
	}
	h := NewDashboardHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
