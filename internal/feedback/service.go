// Package feedback は翻訳結果へのユーザー評価の受付を提供する。
package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/IND-Anshuman/BHASHASETU/internal/ids"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
)

// Service はフィードバックの検証・サニタイズ・保存を行う。
type Service struct {
	feedbacks    repository.FeedbackRepository
	translations repository.TranslationRepository
	sanitizer    *bluemonday.Policy
	logger       *slog.Logger
}

// NewService はServiceを生成する。
// ユーザー編集文はHTMLタグを全て除去して保存される。
func NewService(
	feedbacks repository.FeedbackRepository,
	translations repository.TranslationRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		feedbacks:    feedbacks,
		translations: translations,
		sanitizer:    bluemonday.StrictPolicy(),
		logger:       logger,
	}
}

// Request はフィードバック送信リクエスト。
type Request struct {
	TranslationID string
	UserID        string
	Rating        int
	UserEdit      string
}

// Submit はフィードバックを検証して保存する。
// 評価は0〜5、対象の翻訳記録が存在しない場合はエラー。
func (s *Service) Submit(ctx context.Context, req Request) (*model.Feedback, error) {
	if req.Rating < 0 || req.Rating > 5 {
		return nil, model.NewInvalidRatingError(req.Rating)
	}

	rec, err := s.translations.FindByID(ctx, req.TranslationID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, model.NewTranslationNotFoundError(req.TranslationID)
	}

	fb := &model.Feedback{
		ID:            ids.New(),
		TranslationID: req.TranslationID,
		UserID:        req.UserID,
		Rating:        req.Rating,
		UserEdit:      strings.TrimSpace(s.sanitizer.Sanitize(req.UserEdit)),
		CreatedAt:     time.Now(),
	}

	if err := s.feedbacks.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.logger.Info("feedback submitted",
		"translation_id", req.TranslationID, "rating", req.Rating)

	return fb, nil
}
