package handler

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/speech"
)

// SpeechServiceInterface は音声ハンドラーが必要とするサービスインターフェース。
type SpeechServiceInterface interface {
	Transcribe(ctx context.Context, audio []byte, lang string) (*speech.Transcription, error)
	Synthesize(ctx context.Context, req speech.SynthesisRequest) (*speech.SynthesisResult, error)
	Translate(ctx context.Context, req speech.TranslationRequest) (*speech.TranslationResult, error)
}

// SpeechHandler は音声認識・音声合成・音声間翻訳のHTTPハンドラー。
type SpeechHandler struct {
	service        SpeechServiceInterface
	maxUploadBytes int64
}

// NewSpeechHandler はSpeechHandlerを生成する。
// maxUploadBytesが0の場合は10MiBを使用する。
func NewSpeechHandler(service SpeechServiceInterface, maxUploadBytes int64) *SpeechHandler {
	if maxUploadBytes == 0 {
		maxUploadBytes = 10 << 20
	}
	return &SpeechHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Transcribe は音声をテキストへ変換する。
// POST /api/speech/transcribe (multipart/form-data: audio, language)
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	dh := &DocumentHandler{maxUploadBytes: h.maxUploadBytes}
	_, audio, ok := dh.readUpload(w, r, "audio")
	if !ok {
		return
	}

	result, err := h.service.Transcribe(r.Context(), audio, r.FormValue("language"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"text":          result.Text,
		"language":      result.Language,
		"language_name": result.LanguageName,
		"confidence":    result.Confidence,
	})
}

// TranslateSpeech は音声→テキスト→翻訳→音声のパイプラインを実行する。
// POST /api/speech/translate (multipart/form-data: audio, source_language, target_language, domain, region, voice)
func (h *SpeechHandler) TranslateSpeech(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	dh := &DocumentHandler{maxUploadBytes: h.maxUploadBytes}
	_, audio, ok := dh.readUpload(w, r, "audio")
	if !ok {
		return
	}

	result, err := h.service.Translate(r.Context(), speech.TranslationRequest{
		Audio:          audio,
		SourceLanguage: r.FormValue("source_language"),
		TargetLanguage: r.FormValue("target_language"),
		Domain:         r.FormValue("domain"),
		Region:         r.FormValue("region"),
		Voice:          r.FormValue("voice"),
		UserID:         userID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record_id":       result.RecordID,
		"original_text":   result.OriginalText,
		"translated_text": result.TranslatedText,
		"source_language": result.SourceLanguage,
		"target_language": result.TargetLanguage,
		"audio_base64":    base64.StdEncoding.EncodeToString(result.Audio),
		"output_file":     result.OutputFile,
	})
}

type ttsRequestBody struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// Synthesize はテキストを音声へ変換する。
// POST /api/tts
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	var body ttsRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	result, err := h.service.Synthesize(r.Context(), speech.SynthesisRequest{
		Text:     body.Text,
		Language: body.Language,
		Voice:    body.Voice,
		UserID:   userID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record_id":    result.RecordID,
		"audio_base64": base64.StdEncoding.EncodeToString(result.Audio),
		"output_file":  result.OutputFile,
	})
}
