package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IND-Anshuman/BHASHASETU/internal/ids"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/storage"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
)

// Service はドキュメントの抽出→翻訳→保存パイプラインを実行する。
type Service struct {
	translator *translate.Service
	subtitles  SubtitleTranslator
	fetcher    *Fetcher
	store      storage.Store
	logger     *slog.Logger
}

// SubtitleTranslator はSRTドキュメント用の字幕翻訳インターフェース。
type SubtitleTranslator interface {
	TranslateSRT(ctx context.Context, content, source, target, domain, region, userID string) (string, error)
}

// NewService はServiceを生成する。storeがnilの場合、成果物は保存されない。
func NewService(
	translator *translate.Service,
	subtitles SubtitleTranslator,
	fetcher *Fetcher,
	store storage.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		translator: translator,
		subtitles:  subtitles,
		fetcher:    fetcher,
		store:      store,
		logger:     logger,
	}
}

// Request はドキュメント翻訳リクエスト。
type Request struct {
	Filename       string
	Data           []byte
	SourceLanguage string
	TargetLanguage string
	Domain         string
	Region         string
	UserID         string
}

// Result はドキュメント翻訳結果。
type Result struct {
	RecordID       string
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	FileType       string
	CharacterCount int
	OutputFile     string
}

// Translate はアップロードされたドキュメントを翻訳する。
// SRTファイルはタイミングを保持する字幕パイプラインへ委譲する。
func (s *Service) Translate(ctx context.Context, req Request) (*Result, error) {
	text, fileType, err := Extract(req.Filename, req.Data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, model.NewEmptyTextError()
	}
	s.logger.Info("extracted document text",
		"file", req.Filename, "type", fileType, "chars", len([]rune(text)))

	if fileType == "srt" && s.subtitles != nil {
		return s.translateSRT(ctx, req)
	}

	result, err := s.translator.Translate(ctx, translate.Request{
		Text:           text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Domain:         req.Domain,
		Region:         req.Region,
		UserID:         req.UserID,
		Kind:           model.KindDocument,
	})
	if err != nil {
		return nil, err
	}

	out := &Result{
		RecordID:       result.RecordID,
		OriginalText:   result.OriginalText,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		FileType:       fileType,
		CharacterCount: result.CharacterCount,
	}
	out.OutputFile = s.save(ctx, req, "txt", result.TranslatedText)

	return out, nil
}

// TranslateURL はリモートURLからドキュメントを取得して翻訳する。
func (s *Service) TranslateURL(ctx context.Context, rawURL string, req Request) (*Result, error) {
	filename, data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	req.Filename = filename
	req.Data = data
	return s.Translate(ctx, req)
}

func (s *Service) translateSRT(ctx context.Context, req Request) (*Result, error) {
	translated, err := s.subtitles.TranslateSRT(ctx, string(req.Data),
		req.SourceLanguage, req.TargetLanguage, req.Domain, req.Region, req.UserID)
	if err != nil {
		return nil, err
	}

	out := &Result{
		OriginalText:   string(req.Data),
		TranslatedText: translated,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		FileType:       "srt",
		CharacterCount: len([]rune(string(req.Data))),
	}
	out.OutputFile = s.save(ctx, req, "srt", translated)

	return out, nil
}

// save は翻訳結果を保存して場所を返す。保存失敗は翻訳自体の失敗にしない。
func (s *Service) save(ctx context.Context, req Request, ext, content string) string {
	if s.store == nil {
		return ""
	}

	name := fmt.Sprintf("translated_%s_%s.%s", req.TargetLanguage, ids.New(), ext)
	location, err := s.store.Save(ctx, name, strings.NewReader(content))
	if err != nil {
		s.logger.Error("failed to save translated document", "error", err)
		return ""
	}
	return location
}
