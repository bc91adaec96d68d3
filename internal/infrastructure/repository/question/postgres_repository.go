package question

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/question"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
)

// PostgresRepository provides persistence for question counters.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Increment upserts by exact question text in a single statement.
func (r *PostgresRepository) Increment(ctx context.Context, text string, at time.Time) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	row := entities.PopularQuestion{
		ID:           idgen.NewRowID(),
		QuestionText: text,
		Frequency:    1,
		Category:     domain.DefaultCategory,
		LastAsked:    at,
		CreatedAt:    at,
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question_text"}},
		DoUpdates: clause.Assignments(map[string]any{
			"frequency":  gorm.Expr("popular_questions.frequency + 1"),
			"last_asked": at,
		}),
	}).Create(&row).Error
	if err != nil {
		return dbconn.DBError(ctx, "failed to track question", err, "question-increment-db-001")
	}
	return nil
}

func (r *PostgresRepository) Top(ctx context.Context, limit int) ([]*domain.PopularQuestion, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var rows []entities.PopularQuestion
	if err := db.Order("frequency DESC").Order("last_asked DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, dbconn.DBError(ctx, "failed to list popular questions", err, "question-top-db-001")
	}
	out := make([]*domain.PopularQuestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.PopularQuestion{
			ID:        row.ID,
			Text:      row.QuestionText,
			Frequency: row.Frequency,
			Category:  row.Category,
			LastAsked: row.LastAsked,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
