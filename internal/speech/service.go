// Package speech は音声認識・音声合成・音声間翻訳のオーケストレーションを提供する。
package speech

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IND-Anshuman/BHASHASETU/internal/ids"
	"github.com/IND-Anshuman/BHASHASETU/internal/language"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/repository"
	"github.com/IND-Anshuman/BHASHASETU/internal/storage"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
)

// Engine は音声エンジン（Bhashini等）のインターフェース。
type Engine interface {
	Transcribe(ctx context.Context, audio []byte, lang string) (string, error)
	Synthesize(ctx context.Context, text, lang, gender string) ([]byte, error)
}

// Service は音声パイプラインを実行する。
type Service struct {
	engine     Engine
	translator *translate.Service
	store      storage.Store
	records    repository.TranslationRepository
	logger     *slog.Logger
}

// NewService はServiceを生成する。
func NewService(
	engine Engine,
	translator *translate.Service,
	store storage.Store,
	records repository.TranslationRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		engine:     engine,
		translator: translator,
		store:      store,
		records:    records,
		logger:     logger,
	}
}

// Transcription は音声認識の結果。
type Transcription struct {
	Text         string
	Language     string
	LanguageName string
	Confidence   float64
}

// Transcribe は音声をテキストへ変換する。langが"auto"の場合は
// 仮にヒンディー語として認識し、結果テキストから言語を再判定する。
func (s *Service) Transcribe(ctx context.Context, audio []byte, lang string) (*Transcription, error) {
	engineLang := lang
	if lang == language.Auto {
		engineLang = "hi"
	} else if !language.Supported(lang) {
		return nil, model.NewUnsupportedLanguageError(lang)
	}

	text, err := s.engine.Transcribe(ctx, audio, engineLang)
	if err != nil {
		return nil, model.NewSpeechEngineFailedError(err.Error())
	}

	result := &Transcription{Text: text, Language: engineLang, Confidence: 0.95}
	if lang == language.Auto {
		detection := language.Detect(text)
		if detection.Language != "unknown" {
			result.Language = detection.Language
			result.Confidence = detection.Confidence
		}
	}
	result.LanguageName = language.Name(result.Language)

	s.logger.Info("transcribed audio",
		"language", result.Language, "chars", len([]rune(text)))

	return result, nil
}

// SynthesisRequest は音声合成リクエスト。
type SynthesisRequest struct {
	Text     string
	Language string
	Voice    string // "male"または"female"
	UserID   string
}

// SynthesisResult は音声合成結果。
type SynthesisResult struct {
	RecordID   string
	Audio      []byte
	OutputFile string
}

// Synthesize はテキストを音声へ変換する。
func (s *Service) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, model.NewEmptyTextError()
	}
	if req.Voice != "male" && req.Voice != "female" {
		return nil, model.NewInvalidVoiceError(req.Voice)
	}
	if !language.Supported(req.Language) {
		return nil, model.NewUnsupportedLanguageError(req.Language)
	}

	audio, err := s.engine.Synthesize(ctx, req.Text, req.Language, req.Voice)
	if err != nil {
		return nil, model.NewSpeechEngineFailedError(err.Error())
	}

	result := &SynthesisResult{Audio: audio}
	result.OutputFile = s.saveAudio(ctx, req.Language, req.Voice, audio)
	result.RecordID = s.record(ctx, model.KindTTS, req.UserID, req.Language, req.Language, len([]rune(req.Text)))

	return result, nil
}

// TranslationRequest は音声間翻訳リクエスト。
type TranslationRequest struct {
	Audio          []byte
	SourceLanguage string // 言語コードまたは"auto"
	TargetLanguage string
	Domain         string
	Region         string
	Voice          string
	UserID         string
}

// TranslationResult は音声間翻訳結果。
type TranslationResult struct {
	RecordID       string
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	Audio          []byte
	OutputFile     string
}

// Translate は音声→テキスト→翻訳→音声のパイプラインを実行する。
//  1. 音声認識
//  2. 用語集・地域適応込みのテキスト翻訳
//  3. 翻訳先言語での音声合成
func (s *Service) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	if req.Voice != "male" && req.Voice != "female" {
		return nil, model.NewInvalidVoiceError(req.Voice)
	}

	transcription, err := s.Transcribe(ctx, req.Audio, req.SourceLanguage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcription.Text) == "" {
		return nil, model.NewEmptyTextError()
	}

	translated, err := s.translator.Translate(ctx, translate.Request{
		Text:           transcription.Text,
		SourceLanguage: transcription.Language,
		TargetLanguage: req.TargetLanguage,
		Domain:         req.Domain,
		Region:         req.Region,
		UserID:         req.UserID,
		Kind:           model.KindSpeech,
	})
	if err != nil {
		return nil, err
	}

	audio, err := s.engine.Synthesize(ctx, translated.TranslatedText, req.TargetLanguage, req.Voice)
	if err != nil {
		return nil, model.NewSpeechEngineFailedError(err.Error())
	}

	result := &TranslationResult{
		RecordID:       translated.RecordID,
		OriginalText:   transcription.Text,
		TranslatedText: translated.TranslatedText,
		SourceLanguage: transcription.Language,
		TargetLanguage: req.TargetLanguage,
		Audio:          audio,
	}
	result.OutputFile = s.saveAudio(ctx, req.TargetLanguage, req.Voice, audio)

	return result, nil
}

// saveAudio は合成音声を保存して場所を返す。保存失敗は処理全体の失敗にしない。
func (s *Service) saveAudio(ctx context.Context, lang, voice string, audio []byte) string {
	if s.store == nil {
		return ""
	}

	name := fmt.Sprintf("output_tts_%s_%s_%s.wav", lang, voice, ids.New())
	location, err := s.store.Save(ctx, name, bytes.NewReader(audio))
	if err != nil {
		s.logger.Error("failed to save synthesized audio", "error", err)
		return ""
	}
	return location
}

func (s *Service) record(ctx context.Context, kind model.TranslationKind, userID, source, target string, chars int) string {
	if s.records == nil {
		return ""
	}

	rec := &model.TranslationRecord{
		ID:             ids.New(),
		UserID:         userID,
		Kind:           kind,
		SourceLanguage: source,
		TargetLanguage: target,
		CharCount:      chars,
		Confidence:     1.0,
		CreatedAt:      time.Now(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		s.logger.Error("failed to record speech request", "error", err)
		return ""
	}
	return rec.ID
}
