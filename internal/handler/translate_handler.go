package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/IND-Anshuman/BHASHASETU/internal/language"
	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/translate"
)

// TranslateServiceInterface は翻訳ハンドラーが必要とするサービスインターフェース。
type TranslateServiceInterface interface {
	Translate(ctx context.Context, req translate.Request) (*translate.Result, error)
	TranslateBatch(ctx context.Context, texts []string, source, target, domain, regionCode string) ([]string, error)
}

// TranslateHandler はテキスト翻訳関連のHTTPハンドラー。
type TranslateHandler struct {
	service TranslateServiceInterface
}

// NewTranslateHandler はTranslateHandlerを生成する。
func NewTranslateHandler(service TranslateServiceInterface) *TranslateHandler {
	return &TranslateHandler{service: service}
}

type translateRequestBody struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Domain         string `json:"domain"`
	Region         string `json:"region"`
}

type translateResponseBody struct {
	RecordID        string  `json:"record_id"`
	OriginalText    string  `json:"original_text"`
	TranslatedText  string  `json:"translated_text"`
	SourceLanguage  string  `json:"source_language"`
	TargetLanguage  string  `json:"target_language"`
	GlossaryApplied bool    `json:"glossary_applied"`
	RegionAdapted   bool    `json:"region_adapted"`
	CharacterCount  int     `json:"character_count"`
	Confidence      float64 `json:"confidence"`
}

// Translate はテキストを翻訳する。
// POST /api/translate
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	var body translateRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	result, err := h.service.Translate(r.Context(), translate.Request{
		Text:           body.Text,
		SourceLanguage: body.SourceLanguage,
		TargetLanguage: body.TargetLanguage,
		Domain:         body.Domain,
		Region:         body.Region,
		UserID:         userID,
		Kind:           model.KindText,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponseBody{
		RecordID:        result.RecordID,
		OriginalText:    result.OriginalText,
		TranslatedText:  result.TranslatedText,
		SourceLanguage:  result.SourceLanguage,
		TargetLanguage:  result.TargetLanguage,
		GlossaryApplied: result.GlossaryApplied,
		RegionAdapted:   result.RegionAdapted,
		CharacterCount:  result.CharacterCount,
		Confidence:      result.Confidence,
	})
}

type batchRequestBody struct {
	Texts          []string `json:"texts"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
	Domain         string   `json:"domain"`
	Region         string   `json:"region"`
}

// TranslateBatch は複数テキストを一括で翻訳する。
// POST /api/translate/batch
func (h *TranslateHandler) TranslateBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if len(body.Texts) == 0 {
		writeBadRequest(w, "texts must not be empty")
		return
	}

	translated, err := h.service.TranslateBatch(r.Context(), body.Texts, body.SourceLanguage, body.TargetLanguage, body.Domain, body.Region)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"translations": translated,
		"count":        len(translated),
	})
}

type detectRequestBody struct {
	Text string `json:"text"`
}

// Detect はテキストの言語を文字種から判定する。
// POST /api/translate/detect
func (h *TranslateHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var body detectRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeServiceError(w, model.NewEmptyTextError())
		return
	}

	detection := language.Detect(body.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"language":      detection.Language,
		"language_name": language.Name(detection.Language),
		"confidence":    detection.Confidence,
	})
}

// Languages は対応言語の一覧を返す。
// GET /api/translate/languages
func (h *TranslateHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": language.All(),
		"count":     len(language.Codes()),
	})
}
