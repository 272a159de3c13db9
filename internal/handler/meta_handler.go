package handler

import (
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/language"
)

// MetaHandler はヘルスチェック等の公開メタ情報のHTTPハンドラー。
type MetaHandler struct {
	serviceName string
	version     string
}

// NewMetaHandler はMetaHandlerを生成する。
func NewMetaHandler(serviceName, version string) *MetaHandler {
	return &MetaHandler{
		serviceName: serviceName,
		version:     version,
	}
}

// Health はヘルスチェックエンドポイント。
// GET /health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// Languages は認証なしで参照できる対応言語一覧。
// GET /languages
func (h *MetaHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": language.All(),
		"count":     len(language.Codes()),
	})
}

// Info はサービスの概要情報を返す。
// GET /info
func (h *MetaHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": h.serviceName,
		"version": h.version,
		"features": []string{
			"text_translation",
			"document_translation",
			"subtitle_translation",
			"speech_translation",
			"text_to_speech",
			"domain_glossaries",
			"regional_adaptation",
		},
	})
}
