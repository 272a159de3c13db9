// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するidentities、sessions、translationsはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// TranslationRepository は翻訳記録の永続化インターフェース。
// ダッシュボードの集計クエリを含む。
type TranslationRepository interface {
	// Create は翻訳記録を作成する。
	Create(ctx context.Context, rec *model.TranslationRecord) error

	// FindByID は指定IDの翻訳記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.TranslationRecord, error)

	// CountByKind は翻訳種別ごとの件数を返す。
	CountByKind(ctx context.Context) (map[model.TranslationKind]int, error)

	// ListTargetLanguages はこれまでに翻訳先として使われた言語コードを重複なしで返す。
	ListTargetLanguages(ctx context.Context) ([]string, error)

	// AverageConfidence は全翻訳記録の平均信頼度を返す。記録が無い場合は0。
	AverageConfidence(ctx context.Context) (float64, error)
}

// FeedbackRepository はフィードバックの永続化インターフェース。
type FeedbackRepository interface {
	// Create はフィードバックを作成する。
	Create(ctx context.Context, fb *model.Feedback) error

	// PositiveRate は高評価（rating >= 4）の割合を返す。フィードバックが無い場合は0。
	PositiveRate(ctx context.Context) (float64, error)
}
