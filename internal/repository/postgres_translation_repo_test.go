package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

func TestPostgresTranslationRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rec := &model.TranslationRecord{
		ID:             "01HTESTULID000000000000000",
		UserID:         "user-1",
		Kind:           model.KindText,
		SourceLanguage: "en",
		TargetLanguage: "hi",
		Domain:         "automotive",
		Region:         "tamilnadu",
		CharCount:      120,
		Confidence:     0.95,
		CreatedAt:      time.Now(),
	}

	mock.ExpectExec("INSERT INTO translations").
		WithArgs(rec.ID, rec.UserID, string(rec.Kind), rec.SourceLanguage, rec.TargetLanguage,
			rec.Domain, rec.Region, rec.CharCount, rec.Confidence, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgresTranslationRepo(db)
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresTranslationRepo_FindByID_NotFound_ReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM translations").
		WithArgs("missing-id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "kind", "source_language", "target_language",
			"domain", "region", "char_count", "confidence", "created_at",
		}))

	repo := NewPostgresTranslationRepo(db)
	rec, err := repo.FindByID(context.Background(), "missing-id")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing record, got %+v", rec)
	}
}

func TestPostgresTranslationRepo_CountByKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT kind, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "count"}).
			AddRow("text", 42).
			AddRow("subtitle", 7).
			AddRow("tts", 3))

	repo := NewPostgresTranslationRepo(db)
	counts, err := repo.CountByKind(context.Background())
	if err != nil {
		t.Fatalf("CountByKind: %v", err)
	}

	if counts[model.KindText] != 42 {
		t.Errorf("counts[text] = %d, want 42", counts[model.KindText])
	}
	if counts[model.KindSubtitle] != 7 {
		t.Errorf("counts[subtitle] = %d, want 7", counts[model.KindSubtitle])
	}
	if counts[model.KindTTS] != 3 {
		t.Errorf("counts[tts] = %d, want 3", counts[model.KindTTS])
	}
	if counts[model.KindDocument] != 0 {
		t.Errorf("counts[document] = %d, want 0", counts[model.KindDocument])
	}
}

func TestPostgresTranslationRepo_ListTargetLanguages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT DISTINCT target_language FROM translations").
		WillReturnRows(sqlmock.NewRows([]string{"target_language"}).
			AddRow("hi").
			AddRow("ta").
			AddRow("te"))

	repo := NewPostgresTranslationRepo(db)
	langs, err := repo.ListTargetLanguages(context.Background())
	if err != nil {
		t.Fatalf("ListTargetLanguages: %v", err)
	}

	want := []string{"hi", "ta", "te"}
	if len(langs) != len(want) {
		t.Fatalf("len(langs) = %d, want %d", len(langs), len(want))
	}
	for i := range want {
		if langs[i] != want[i] {
			t.Errorf("langs[%d] = %q, want %q", i, langs[i], want[i])
		}
	}
}

func TestPostgresTranslationRepo_AverageConfidence_Empty_ReturnsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// 記録が1件も無い場合、AVGはNULLを返す
	mock.ExpectQuery("SELECT AVG\\(confidence\\) FROM translations").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	repo := NewPostgresTranslationRepo(db)
	avg, err := repo.AverageConfidence(context.Background())
	if err != nil {
		t.Fatalf("AverageConfidence: %v", err)
	}
	if avg != 0 {
		t.Errorf("avg = %f, want 0", avg)
	}
}

func TestPostgresTranslationRepo_AverageConfidence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT AVG\\(confidence\\) FROM translations").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(0.87))

	repo := NewPostgresTranslationRepo(db)
	avg, err := repo.AverageConfidence(context.Background())
	if err != nil {
		t.Fatalf("AverageConfidence: %v", err)
	}
	if avg != 0.87 {
		t.Errorf("avg = %f, want 0.87", avg)
	}
}
