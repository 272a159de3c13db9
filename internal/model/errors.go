// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, translation, speech, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	ErrCodeEmptyText           = "EMPTY_TEXT"
	ErrCodeTranslationFailed   = "TRANSLATION_FAILED"
	ErrCodeInvalidSRT          = "INVALID_SRT"
	ErrCodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	ErrCodeInvalidURL          = "INVALID_URL"
	ErrCodeSSRFBlocked         = "SSRF_BLOCKED"
	ErrCodeFetchFailed         = "FETCH_FAILED"
	ErrCodeInvalidRating       = "INVALID_RATING"
	ErrCodeTranslationNotFound = "TRANSLATION_NOT_FOUND"
	ErrCodeSpeechEngineFailed  = "SPEECH_ENGINE_FAILED"
	ErrCodeInvalidVoice        = "INVALID_VOICE"
	ErrCodeUploadTooLarge      = "UPLOAD_TOO_LARGE"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
)

// NewUnsupportedLanguageError は未対応言語エラーを生成する。
func NewUnsupportedLanguageError(code string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedLanguage,
		Message:  fmt.Sprintf("unsupported language code: %s", code),
		Category: "validation",
		Action:   "Use one of the 22 supported Indian language codes, 'en', or 'auto'.",
	}
}

// NewEmptyTextError は空テキストエラーを生成する。
func NewEmptyTextError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyText,
		Message:  "no text was provided for translation",
		Category: "validation",
		Action:   "Provide non-empty text in the request body.",
	}
}

// NewTranslationFailedError は翻訳失敗エラーを生成する。
func NewTranslationFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeTranslationFailed,
		Message:  fmt.Sprintf("translation failed: %s", reason),
		Category: "translation",
		Action:   "Check the language codes and try again in a moment.",
	}
}

// NewInvalidSRTError はSRT解析失敗エラーを生成する。
func NewInvalidSRTError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSRT,
		Message:  "no valid SRT entries were found in the file",
		Category: "validation",
		Action:   "Upload a well-formed .srt subtitle file.",
	}
}

// NewUnsupportedFormatError は未対応フォーマットエラーを生成する。
func NewUnsupportedFormatError(ext string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedFormat,
		Message:  fmt.Sprintf("unsupported document format: %s", ext),
		Category: "validation",
		Action:   "Supported formats are .txt, .srt and .html.",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("invalid URL: %s", reason),
		Category: "validation",
		Action:   "Provide a URL starting with http:// or https://.",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "access to the requested URL is blocked by security policy",
		Category: "validation",
		Action:   "Only publicly reachable URLs are allowed. Private and local addresses are rejected.",
	}
}

// NewFetchFailedError はリモート取得失敗エラーを生成する。
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("failed to fetch the document: %s", reason),
		Category: "translation",
		Action:   "Verify the URL and try again later.",
	}
}

// NewInvalidRatingError は無効な評価値エラーを生成する。
func NewInvalidRatingError(rating int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRating,
		Message:  fmt.Sprintf("rating must be between 0 and 5, got %d", rating),
		Category: "validation",
		Action:   "Submit a rating from 0 (worst) to 5 (best).",
	}
}

// NewTranslationNotFoundError は翻訳記録未検出エラーを生成する。
func NewTranslationNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeTranslationNotFound,
		Message:  fmt.Sprintf("translation record not found: %s", id),
		Category: "validation",
		Action:   "Check the translation ID returned by the translate endpoints.",
	}
}

// NewSpeechEngineFailedError は音声エンジン失敗エラーを生成する。
func NewSpeechEngineFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeSpeechEngineFailed,
		Message:  fmt.Sprintf("speech engine request failed: %s", reason),
		Category: "speech",
		Action:   "The speech service may be temporarily unavailable. Try again later.",
	}
}

// NewInvalidVoiceError は無効な音声タイプエラーを生成する。
func NewInvalidVoiceError(voice string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidVoice,
		Message:  fmt.Sprintf("invalid voice type: %s", voice),
		Category: "validation",
		Action:   "Voice type must be either 'male' or 'female'.",
	}
}

// NewUploadTooLargeError はアップロードサイズ超過エラーを生成する。
func NewUploadTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeUploadTooLarge,
		Message:  fmt.Sprintf("uploaded file exceeds the size limit of %d bytes", maxBytes),
		Category: "validation",
		Action:   "Upload a smaller file.",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "user not found",
		Category: "auth",
		Action:   "Sign in again.",
	}
}
