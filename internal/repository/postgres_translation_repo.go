package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// PostgresTranslationRepo はPostgreSQLを使用した翻訳記録リポジトリ。
type PostgresTranslationRepo struct {
	db *sql.DB
}

// NewPostgresTranslationRepo はPostgresTranslationRepoを生成する。
func NewPostgresTranslationRepo(db *sql.DB) *PostgresTranslationRepo {
	return &PostgresTranslationRepo{db: db}
}

// Create は翻訳記録を作成する。
func (r *PostgresTranslationRepo) Create(ctx context.Context, rec *model.TranslationRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO translations
		 (id, user_id, kind, source_language, target_language, domain, region, char_count, confidence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.UserID, rec.Kind, rec.SourceLanguage, rec.TargetLanguage,
		rec.Domain, rec.Region, rec.CharCount, rec.Confidence, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create translation record: %w", err)
	}
	return nil
}

// FindByID は指定IDの翻訳記録を取得する。見つからない場合はnilを返す。
func (r *PostgresTranslationRepo) FindByID(ctx context.Context, id string) (*model.TranslationRecord, error) {
	rec := &model.TranslationRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, source_language, target_language, domain, region, char_count, confidence, created_at
		 FROM translations
		 WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.SourceLanguage, &rec.TargetLanguage,
		&rec.Domain, &rec.Region, &rec.CharCount, &rec.Confidence, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find translation record: %w", err)
	}

	return rec, nil
}

// CountByKind は翻訳種別ごとの件数を返す。
func (r *PostgresTranslationRepo) CountByKind(ctx context.Context) (map[model.TranslationKind]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM translations GROUP BY kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count translations by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.TranslationKind]int)
	for rows.Next() {
		var kind model.TranslationKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind count: %w", err)
		}
		counts[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kind counts: %w", err)
	}

	return counts, nil
}

// ListTargetLanguages はこれまでに翻訳先として使われた言語コードを重複なしで返す。
func (r *PostgresTranslationRepo) ListTargetLanguages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT target_language FROM translations ORDER BY target_language`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list target languages: %w", err)
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		langs = append(langs, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate languages: %w", err)
	}

	return langs, nil
}

// AverageConfidence は全翻訳記録の平均信頼度を返す。記録が無い場合は0。
func (r *PostgresTranslationRepo) AverageConfidence(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(confidence) FROM translations`,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to compute average confidence: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// compile-time interface check
var _ TranslationRepository = (*PostgresTranslationRepo)(nil)
