package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// PostgresFeedbackRepo はPostgreSQLを使用したフィードバックリポジトリ。
type PostgresFeedbackRepo struct {
	db *sql.DB
}

// NewPostgresFeedbackRepo はPostgresFeedbackRepoを生成する。
func NewPostgresFeedbackRepo(db *sql.DB) *PostgresFeedbackRepo {
	return &PostgresFeedbackRepo{db: db}
}

// Create はフィードバックを作成する。
func (r *PostgresFeedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, translation_id, user_id, rating, user_edit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.TranslationID, fb.UserID, fb.Rating, fb.UserEdit, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// PositiveRate は高評価（rating >= 4）の割合を返す。フィードバックが無い場合は0。
func (r *PostgresFeedbackRepo) PositiveRate(ctx context.Context) (float64, error) {
	var rate sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(CASE WHEN rating >= 4 THEN 1.0 ELSE 0.0 END) FROM feedback`,
	).Scan(&rate)
	if err != nil {
		return 0, fmt.Errorf("failed to compute positive feedback rate: %w", err)
	}
	if !rate.Valid {
		return 0, nil
	}
	return rate.Float64, nil
}

// compile-time interface check
var _ FeedbackRepository = (*PostgresFeedbackRepo)(nil)
