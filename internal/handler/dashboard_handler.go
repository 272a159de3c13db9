package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	Metrics(ctx context.Context) (*model.DashboardMetrics, error)
}

// DashboardHandler は管理ダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Metrics は集計済みのダッシュボード指標を返す。
// GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Metrics(r.Context())
	if err != nil {
		slog.Error("failed to compute dashboard metrics", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	if m == nil {
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_translations":     m.TotalTranslations,
		"languages_served":       m.LanguagesServed,
		"average_confidence":     m.AverageConfidence,
		"feedback_positive_rate": m.FeedbackPositiveRate,
		"tts_requests":           m.TTSRequests,
		"subtitle_translations":  m.SubtitleTranslations,
	})
}
