package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/IND-Anshuman/BHASHASETU/internal/document"
	"github.com/IND-Anshuman/BHASHASETU/internal/middleware"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// DocumentServiceInterface はドキュメントハンドラーが必要とするサービスインターフェース。
type DocumentServiceInterface interface {
	Translate(ctx context.Context, req document.Request) (*document.Result, error)
	TranslateURL(ctx context.Context, rawURL string, req document.Request) (*document.Result, error)
}

// DocumentHandler はドキュメント翻訳関連のHTTPハンドラー。
type DocumentHandler struct {
	service        DocumentServiceInterface
	maxUploadBytes int64
}

// NewDocumentHandler はDocumentHandlerを生成する。
// maxUploadBytesが0の場合は10MiBを使用する。
func NewDocumentHandler(service DocumentServiceInterface, maxUploadBytes int64) *DocumentHandler {
	if maxUploadBytes == 0 {
		maxUploadBytes = 10 << 20
	}
	return &DocumentHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

type documentResponseBody struct {
	RecordID       string `json:"record_id"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	FileType       string `json:"file_type"`
	CharacterCount int    `json:"character_count"`
	OutputFile     string `json:"output_file,omitempty"`
}

// Translate はアップロードされたドキュメントを翻訳する。
// POST /api/documents/translate (multipart/form-data: file, source_language, target_language, domain, region)
func (h *DocumentHandler) Translate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	filename, data, ok := h.readUpload(w, r, "file")
	if !ok {
		return
	}

	result, err := h.service.Translate(r.Context(), document.Request{
		Filename:       filename,
		Data:           data,
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

	writeJSON(w, http.StatusOK, documentResponseBody{
		RecordID:       result.RecordID,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		FileType:       result.FileType,
		CharacterCount: result.CharacterCount,
		OutputFile:     result.OutputFile,
	})
}

type translateURLRequestBody struct {
	URL            string `json:"url"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Domain         string `json:"domain"`
	Region         string `json:"region"`
}

// TranslateURL はリモートURLのドキュメントを取得して翻訳する。
// POST /api/documents/translate-url
func (h *DocumentHandler) TranslateURL(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	var body translateURLRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}

	result, err := h.service.TranslateURL(r.Context(), body.URL, document.Request{
		SourceLanguage: body.SourceLanguage,
		TargetLanguage: body.TargetLanguage,
		Domain:         body.Domain,
		Region:         body.Region,
		UserID:         userID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponseBody{
		RecordID:       result.RecordID,
		TranslatedText: result.TranslatedText,
		SourceLanguage: result.SourceLanguage,
		TargetLanguage: result.TargetLanguage,
		FileType:       result.FileType,
		CharacterCount: result.CharacterCount,
		OutputFile:     result.OutputFile,
	})
}

// Formats は対応するドキュメント形式の一覧を返す。
// GET /api/documents/formats
func (h *DocumentHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats": []string{".txt", ".srt", ".html"},
	})
}

// readUpload はアップロードサイズ制限付きでmultipartフォームのファイルを読み取る。
func (h *DocumentHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, model.NewUploadTooLargeError(h.maxUploadBytes))
			return "", nil, false
		}
		writeBadRequest(w, "request must be multipart/form-data")
		return "", nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeBadRequest(w, "missing uploaded file in field '"+field+"'")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, model.NewUploadTooLargeError(h.maxUploadBytes))
		return "", nil, false
	}

	return header.Filename, data, true
}
