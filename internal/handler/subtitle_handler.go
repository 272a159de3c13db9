package handler

import (
	"context"
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/subtitle"
)

// SubtitleServiceInterface は字幕ハンドラーが必要とするサービスインターフェース。
type SubtitleServiceInterface interface {
	Translate(ctx context.Context, req subtitle.Request) (*subtitle.Result, error)
}

// SubtitleHandler は字幕翻訳関連のHTTPハンドラー。
type SubtitleHandler struct {
	service        SubtitleServiceInterface
	maxUploadBytes int64
}

// NewSubtitleHandler はSubtitleHandlerを生成する。
// maxUploadBytesが0の場合は10MiBを使用する。
func NewSubtitleHandler(service SubtitleServiceInterface, maxUploadBytes int64) *SubtitleHandler {
	if maxUploadBytes == 0 {
		maxUploadBytes = 10 << 20
	}
	return &SubtitleHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Translate はアップロードされたSRTファイルを翻訳する。
// POST /api/subtitles/translate (multipart/form-data: file, source_language, target_language, domain, region)
func (h *SubtitleHandler) Translate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	dh := &DocumentHandler{maxUploadBytes: h.maxUploadBytes}
	_, data, ok := dh.readUpload(w, r, "file")
	if !ok {
		return
	}

	result, err := h.service.Translate(r.Context(), subtitle.Request{
		Content:        string(data),
		SourceLanguage: r.FormValue("source_language"),
		TargetLanguage: r.FormValue("target_language"),
		Domain:         r.FormValue("domain"),
		Region:         r.FormValue("region"),
		UserID:         userID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record_id":   result.RecordID,
		"content":     result.Content,
		"entry_count": result.EntryCount,
	})
}

type mergeRequestBody struct {
	Files []string `json:"files"`
}

// Merge は複数のSRTコンテンツをインデックス順に統合する。
// POST /api/subtitles/merge
func (h *SubtitleHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var body mergeRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if len(body.Files) == 0 {
		writeBadRequest(w, "files must not be empty")
		return
	}

	merged, err := subtitle.Merge(body.Files)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries, err := subtitle.Parse(merged)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"content":     merged,
		"entry_count": len(entries),
	})
}
