package app

import (
	"context"
	"errors"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/metrics"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
)

const translationProvider = "google"

// instrumentedTranslateService は翻訳サービスの結果をPrometheusメトリクスに
// 記録するデコレータ。ハンドラーからは通常の翻訳サービスとして見える。
type instrumentedTranslateService struct {
	svc       *translate.Service
	collector metrics.MetricsCollector
}

func newInstrumentedTranslateService(svc *translate.Service, collector metrics.MetricsCollector) *instrumentedTranslateService {
	return &instrumentedTranslateService{svc: svc, collector: collector}
}

// Translate は翻訳を実行し、成功・失敗・レイテンシをメトリクスに記録する。
func (s *instrumentedTranslateService) Translate(ctx context.Context, req translate.Request) (*translate.Result, error) {
	start := time.Now()
	result, err := s.svc.Translate(ctx, req)
	s.collector.RecordProviderLatency(translationProvider, time.Since(start))

	if err != nil {
		s.collector.RecordTranslationFailure(failureReason(err))
		return nil, err
	}

	s.collector.RecordTranslation(string(req.Kind), result.TargetLanguage)
	s.collector.RecordCharactersTranslated(result.CharacterCount)
	return result, nil
}

// TranslateBatch はバッチ翻訳を実行し、件数と文字数をメトリクスに記録する。
func (s *instrumentedTranslateService) TranslateBatch(ctx context.Context, texts []string, source, target, domain, regionCode string) ([]string, error) {
	start := time.Now()
	results, err := s.svc.TranslateBatch(ctx, texts, source, target, domain, regionCode)
	s.collector.RecordProviderLatency(translationProvider, time.Since(start))

	if err != nil {
		s.collector.RecordTranslationFailure(failureReason(err))
		return nil, err
	}

	chars := 0
	for _, text := range texts {
		chars += len([]rune(text))
	}
	s.collector.RecordTranslation(string(model.KindText), target)
	s.collector.RecordCharactersTranslated(chars)
	return results, nil
}

// failureReason はエラーからメトリクスラベル用の失敗理由を取り出す。
func failureReason(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return "internal_error"
}
