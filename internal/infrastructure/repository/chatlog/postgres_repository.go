package chatlog

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
)

const userKeyExpr = "COALESCE(NULLIF(NULLIF(user_email, ''), ?), session_id)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresRepository provides persistence for chat analytics rows.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *domain.Entry) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	row := entities.ChatAnalytics{
		ID:             entry.ID,
		SessionID:      entry.SessionID,
		UserMessage:    entry.UserMessage,
		AIResponse:     entry.AIResponse,
		ResponseTimeMs: entry.ResponseTimeMs,
		UserEmail:      entry.UserEmail,
		CreatedAt:      entry.CreatedAt,
	}
	if entry.TokensUsed > 0 {
		tokens := entry.TokensUsed
		row.TokensUsed = &tokens
	}
	if err := db.Create(&row).Error; err != nil {
		return dbconn.DBError(ctx, "failed to save chat analytics", err, "chatlog-create-db-001")
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Entry, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	q := db.Model(&entities.ChatAnalytics{}).Order("created_at DESC")
	if query != "" {
		pattern := "%" + likeEscaper.Replace(query) + "%"
		q = q.Where("user_message ILIKE ? OR ai_response ILIKE ? OR user_email ILIKE ?", pattern, pattern, pattern)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []entities.ChatAnalytics
	if err := q.Find(&rows).Error; err != nil {
		return nil, dbconn.DBError(ctx, "failed to search chat logs", err, "chatlog-search-db-001")
	}
	out := make([]*domain.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, "chatlog-count-db-001", func(db *gorm.DB) *gorm.DB { return db })
}

func (r *PostgresRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, "chatlog-count-since-db-001", func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", since)
	})
}

func (r *PostgresRepository) CountUniqueUsers(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "chatlog-unique-users-db-001", "COUNT(DISTINCT "+userKeyExpr+")", domain.AnonymousEmail)
}

func (r *PostgresRepository) CountUniqueSessions(ctx context.Context) (int64, error) {
	return r.scalar(ctx, "chatlog-unique-sessions-db-001", "COUNT(DISTINCT session_id)")
}

func (r *PostgresRepository) AverageResponseTime(ctx context.Context) (decimal.Decimal, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return decimal.Zero, err
	}
	var avg decimal.NullDecimal
	if err := db.Model(&entities.ChatAnalytics{}).Select("AVG(response_time_ms)").Row().Scan(&avg); err != nil {
		return decimal.Zero, dbconn.DBError(ctx, "failed to average response time", err, "chatlog-avg-db-001")
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal, nil
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return 0, err
	}
	result := db.Where("created_at < ?", cutoff).Delete(&entities.ChatAnalytics{})
	if result.Error != nil {
		return 0, dbconn.DBError(ctx, "failed to purge chat logs", result.Error, "chatlog-purge-db-001")
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) count(ctx context.Context, code string, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := scope(db.Model(&entities.ChatAnalytics{})).Count(&n).Error; err != nil {
		return 0, dbconn.DBError(ctx, "failed to count chat logs", err, code)
	}
	return n, nil
}

func (r *PostgresRepository) scalar(ctx context.Context, code, expr string, args ...any) (int64, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Model(&entities.ChatAnalytics{}).Select(expr, args...).Row().Scan(&n); err != nil {
		return 0, dbconn.DBError(ctx, "failed to aggregate chat logs", err, code)
	}
	return n, nil
}

func toDomain(e *entities.ChatAnalytics) *domain.Entry {
	entry := &domain.Entry{
		ID:             e.ID,
		SessionID:      e.SessionID,
		UserMessage:    e.UserMessage,
		AIResponse:     e.AIResponse,
		ResponseTimeMs: e.ResponseTimeMs,
		UserEmail:      e.UserEmail,
		CreatedAt:      e.CreatedAt,
	}
	if e.TokensUsed != nil {
		entry.TokensUsed = *e.TokensUsed
	}
	return entry
}
