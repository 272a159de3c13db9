// Package dashboard は管理画面向けの利用状況メトリクスを集計する。
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
)

// Service は翻訳記録とフィードバックからダッシュボード指標を組み立てる。
type Service struct {
	translations repository.TranslationRepository
	feedbacks    repository.FeedbackRepository
	logger       *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	translations repository.TranslationRepository,
	feedbacks repository.FeedbackRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		translations: translations,
		feedbacks:    feedbacks,
		logger:       logger,
	}
}

// Metrics は現在の利用状況指標を集計して返す。
func (s *Service) Metrics(ctx context.Context) (*model.DashboardMetrics, error) {
	counts, err := s.translations.CountByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate translation counts: %w", err)
	}

	languages, err := s.translations.ListTargetLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list target languages: %w", err)
	}

	avgConfidence, err := s.translations.AverageConfidence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average confidence: %w", err)
	}

	positiveRate, err := s.feedbacks.PositiveRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute feedback rate: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &model.DashboardMetrics{
		TotalTranslations:    total,
		LanguagesServed:      languages,
		AverageConfidence:    avgConfidence,
		FeedbackPositiveRate: positiveRate,
		TTSRequests:          counts[model.KindTTS],
		SubtitleTranslations: counts[model.KindSubtitle],
	}, nil
}
