package model

import "time"

// TranslationKind は翻訳リクエストの種別を表す。
type TranslationKind string

const (
	// KindText はテキスト翻訳を示す。
	KindText TranslationKind = "text"
	// KindDocument はドキュメント翻訳を示す。
	KindDocument TranslationKind = "document"
	// KindSubtitle は字幕翻訳を示す。
	KindSubtitle TranslationKind = "subtitle"
	// KindSpeech は音声翻訳（音声→音声）を示す。
	KindSpeech TranslationKind = "speech"
	// KindTTS は音声合成を示す。
	KindTTS TranslationKind = "tts"
)

// TranslationRecord は完了した翻訳リクエストの記録を表す。
// ダッシュボードの集計とフィードバックの紐付けに使用する。
// IDはULID（時系列ソート可能）。
type TranslationRecord struct {
	ID             string
	UserID         string
	Kind           TranslationKind
	SourceLanguage string
	TargetLanguage string
	Domain         string
	Region         string
	CharCount      int
	Confidence     float64
	CreatedAt      time.Time
}

// Feedback は翻訳結果に対するユーザー評価を表す。
// Ratingは0（最低）から5（最高）。
type Feedback struct {
	ID            string
	TranslationID string
	UserID        string
	Rating        int
	UserEdit      string
	CreatedAt     time.Time
}

// DashboardMetrics は管理ダッシュボードに表示する集計値を表す。
type DashboardMetrics struct {
	TotalTranslations    int
	LanguagesServed      []string
	AverageConfidence    float64
	FeedbackPositiveRate float64
	TTSRequests          int
	SubtitleTranslations int
}
