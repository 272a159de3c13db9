package subtitle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/ids"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
)

// 1バッチあたりの翻訳エントリ数
const batchSize = 20

// Service はSRT字幕の翻訳を行う。タイミングと番号は維持される。
type Service struct {
	translator *translate.Service
	records    repository.TranslationRepository
	logger     *slog.Logger
}

// NewService はServiceを生成する。recordsがnilの場合、記録は保存されない。
func NewService(translator *translate.Service, records repository.TranslationRepository, logger *slog.Logger) *Service {
	return &Service{
		translator: translator,
		records:    records,
		logger:     logger,
	}
}

// Request は字幕翻訳リクエスト。
type Request struct {
	Content        string
	SourceLanguage string
	TargetLanguage string
	Domain         string
	Region         string
	UserID         string
}

// Result は字幕翻訳結果。
type Result struct {
	RecordID   string
	Content    string
	EntryCount int
}

// Translate はSRTコンテンツを解析し、本文をバッチ翻訳して再構成する。
// 複数行の本文は1行に畳んでから翻訳する。
func (s *Service) Translate(ctx context.Context, req Request) (*Result, error) {
	entries, err := Parse(req.Content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("parsed subtitle file", "entries", len(entries))

	translated := make([]Entry, len(entries))
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		texts := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			texts = append(texts, flatten(e.Text))
		}

		results, err := s.translator.TranslateBatch(ctx, texts,
			req.SourceLanguage, req.TargetLanguage, req.Domain, req.Region)
		if err != nil {
			return nil, err
		}

		for i, text := range results {
			e := entries[start+i]
			translated[start+i] = Entry{
				Index:     e.Index,
				Timestamp: e.Timestamp,
				Text:      text,
			}
		}

		s.logger.Info("translated subtitle batch",
			"batch", start/batchSize+1, "total", (len(entries)-1)/batchSize+1)
	}

	result := &Result{
		Content:    Format(translated),
		EntryCount: len(entries),
	}
	result.RecordID = s.record(ctx, req, result)

	return result, nil
}

// TranslateSRT はSRTコンテンツを翻訳して再構成済みコンテンツのみを返す。
// ドキュメント翻訳パイプラインからの委譲に使用する。
func (s *Service) TranslateSRT(ctx context.Context, content, source, target, domain, region, userID string) (string, error) {
	result, err := s.Translate(ctx, Request{
		Content:        content,
		SourceLanguage: source,
		TargetLanguage: target,
		Domain:         domain,
		Region:         region,
		UserID:         userID,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

func (s *Service) record(ctx context.Context, req Request, result *Result) string {
	if s.records == nil {
		return ""
	}

	rec := &model.TranslationRecord{
		ID:             ids.New(),
		UserID:         req.UserID,
		Kind:           model.KindSubtitle,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Domain:         req.Domain,
		Region:         req.Region,
		CharCount:      len([]rune(req.Content)),
		Confidence:     1.0,
		CreatedAt:      time.Now(),
	}

	if err := s.records.Create(ctx, rec); err != nil {
		s.logger.Error("failed to record subtitle translation", "error", err)
		return ""
	}
	return rec.ID
}

// flatten は複数行の字幕本文を1行へ畳む。
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
