// Package translate は検出→用語集→地域適応→翻訳のパイプラインを提供する。
package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/glossary"
	"github.com/IND-Anshuman/BHASHASETU/internal/ids"
	"github.com/IND-Anshuman/BHASHASETU/internal/language"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/region"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
)

// 言語検出に使用する先頭文字数
const detectSampleRunes = 500

// Request は翻訳リクエスト。
type Request struct {
	Text           string
	SourceLanguage string // 言語コードまたは"auto"
	TargetLanguage string
	Domain         string
	Region         string
	UserID         string
	Kind           model.TranslationKind
}

// Result は翻訳結果。
type Result struct {
	RecordID        string
	OriginalText    string
	TranslatedText  string
	SourceLanguage  string
	TargetLanguage  string
	GlossaryApplied bool
	RegionAdapted   bool
	CharacterCount  int
	Confidence      float64
}

// Service は翻訳パイプラインを実行する。
type Service struct {
	engine     Engine
	glossaries *glossary.Loader
	regions    *region.Adapter
	records    repository.TranslationRepository
	chunkSize  int
	logger     *slog.Logger
}

// NewService はServiceを生成する。chunkSizeが0の場合は4500を使用する。
// recordsがnilの場合、翻訳記録は保存されない。
func NewService(
	engine Engine,
	glossaries *glossary.Loader,
	regions *region.Adapter,
	records repository.TranslationRepository,
	chunkSize int,
	logger *slog.Logger,
) *Service {
	if chunkSize == 0 {
		chunkSize = 4500
	}
	return &Service{
		engine:     engine,
		glossaries: glossaries,
		regions:    regions,
		records:    records,
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

// Translate は翻訳パイプラインを実行する。
//  1. sourceが"auto"の場合は言語検出
//  2. ドメイン用語集の適用
//  3. 地域適応の適用
//  4. チャンク分割して翻訳（失敗チャンクは原文のまま残す）
//  5. 翻訳記録の保存
func (s *Service) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, model.NewEmptyTextError()
	}
	if !language.Supported(req.TargetLanguage) {
		return nil, model.NewUnsupportedLanguageError(req.TargetLanguage)
	}
	if req.SourceLanguage != language.Auto && !language.Supported(req.SourceLanguage) {
		return nil, model.NewUnsupportedLanguageError(req.SourceLanguage)
	}

	source := req.SourceLanguage
	confidence := 1.0
	if source == language.Auto {
		detection := language.Detect(sampleText(req.Text, detectSampleRunes))
		// 検出できない場合は"auto"のままエンジンへ渡す
		if detection.Language != "unknown" {
			source = detection.Language
		}
		confidence = detection.Confidence
		s.logger.Info("detected source language",
			"language", source, "confidence", confidence)
	}

	terms := map[string]string{}
	if s.glossaries != nil && req.Domain != "" {
		terms = s.glossaries.Load(req.Domain)
	}
	text := glossary.Apply(req.Text, terms)

	regionAdapted := false
	if s.regions != nil && req.Region != "" && req.Region != "default" {
		adapted := s.regions.Adapt(text, req.Region)
		regionAdapted = adapted != text
		text = adapted
	}

	translated := text
	if source != req.TargetLanguage {
		translated = s.translateChunked(ctx, text, source, req.TargetLanguage)
	}

	result := &Result{
		OriginalText:    req.Text,
		TranslatedText:  translated,
		SourceLanguage:  source,
		TargetLanguage:  req.TargetLanguage,
		GlossaryApplied: len(terms) > 0,
		RegionAdapted:   regionAdapted,
		CharacterCount:  len([]rune(req.Text)),
		Confidence:      confidence,
	}

	result.RecordID = s.record(ctx, req, result)

	return result, nil
}

// TranslateBatch は複数テキストを翻訳する。各テキストに用語集と地域適応を
// 適用した上で翻訳し、失敗したテキストは適応済み原文のまま返す。
func (s *Service) TranslateBatch(ctx context.Context, texts []string, source, target, domain, regionCode string) ([]string, error) {
	if !language.Supported(target) {
		return nil, model.NewUnsupportedLanguageError(target)
	}
	if source != language.Auto && !language.Supported(source) {
		return nil, model.NewUnsupportedLanguageError(source)
	}

	terms := map[string]string{}
	if s.glossaries != nil && domain != "" {
		terms = s.glossaries.Load(domain)
	}

	results := make([]string, len(texts))
	for i, text := range texts {
		adapted := glossary.Apply(text, terms)
		if s.regions != nil && regionCode != "" && regionCode != "default" {
			adapted = s.regions.Adapt(adapted, regionCode)
		}

		if strings.TrimSpace(adapted) == "" {
			results[i] = adapted
			continue
		}

		translated, err := s.engine.Translate(ctx, adapted, source, target)
		if err != nil {
			s.logger.Warn("batch item translation failed, keeping original",
				"index", i, "error", err)
			results[i] = adapted
			continue
		}
		results[i] = translated
	}

	return results, nil
}

// translateChunked はテキストをチャンク分割して翻訳する。
// 失敗したチャンクは原文のまま残し、全体の失敗にはしない。
func (s *Service) translateChunked(ctx context.Context, text, source, target string) string {
	chunks := splitText(text, s.chunkSize)
	if len(chunks) > 1 {
		s.logger.Info("splitting text for translation",
			"chunks", len(chunks), "chars", len(text))
	}

	translated := make([]string, len(chunks))
	for i, chunk := range chunks {
		result, err := s.engine.Translate(ctx, chunk, source, target)
		if err != nil {
			s.logger.Warn("chunk translation failed, keeping original",
				"chunk", i+1, "total", len(chunks), "error", err)
			translated[i] = chunk
			continue
		}
		translated[i] = result
	}

	return strings.Join(translated, " ")
}

// record は翻訳記録を保存してIDを返す。保存失敗は翻訳自体の失敗にしない。
func (s *Service) record(ctx context.Context, req Request, result *Result) string {
	if s.records == nil {
		return ""
	}

	kind := req.Kind
	if kind == "" {
		kind = model.KindText
	}

	rec := &model.TranslationRecord{
		ID:             ids.New(),
		UserID:         req.UserID,
		Kind:           kind,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		Domain:         req.Domain,
		Region:         req.Region,
		CharCount:      result.CharacterCount,
		Confidence:     result.Confidence,
		CreatedAt:      time.Now(),
	}

	if err := s.records.Create(ctx, rec); err != nil {
		s.logger.Error("failed to record translation", "error", err)
		return ""
	}
	return rec.ID
}

// sampleText は先頭n文字（rune単位）を返す。
func sampleText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
