package knowledge

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
)

// PostgresRepository provides persistence for knowledge documents.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, doc *domain.Document) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(toEntity(doc)).Error; err != nil {
		return dbconn.DBError(ctx, "failed to store document", err, "knowledge-create-db-001")
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var row entities.KnowledgeDocument
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dbconn.NotFound(ctx, "document not found", err, "knowledge-find-notfound-001")
		}
		return nil, dbconn.DBError(ctx, "failed to load document", err, "knowledge-find-db-001")
	}
	return toDomain(&row), nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Document, error) {
	return r.list(ctx, false, 0)
}

func (r *PostgresRepository) ListActive(ctx context.Context, limit int) ([]*domain.Document, error) {
	return r.list(ctx, true, limit)
}

func (r *PostgresRepository) list(ctx context.Context, activeOnly bool, limit int) ([]*domain.Document, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	query := db.Model(&entities.KnowledgeDocument{}).Order("upload_date DESC")
	if activeOnly {
		query = query.Where("status = ?", string(domain.StatusActive))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.KnowledgeDocument
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbconn.DBError(ctx, "failed to list documents", err, "knowledge-list-db-001")
	}
	out := make([]*domain.Document, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	result := db.Model(&entities.KnowledgeDocument{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return dbconn.DBError(ctx, "failed to update document status", result.Error, "knowledge-status-db-001")
	}
	if result.RowsAffected == 0 {
		return dbconn.NotFound(ctx, "document not found", nil, "knowledge-status-notfound-001")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&entities.KnowledgeDocument{})
	if result.Error != nil {
		return dbconn.DBError(ctx, "failed to delete document", result.Error, "knowledge-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return dbconn.NotFound(ctx, "document not found", nil, "knowledge-delete-notfound-001")
	}
	return nil
}

func toDomain(e *entities.KnowledgeDocument) *domain.Document {
	return &domain.Document{
		ID:           e.ID,
		Filename:     e.Filename,
		Content:      e.Content,
		FileType:     e.FileType,
		FileSize:     e.FileSize,
		DetectedType: e.DetectedType,
		StorageKey:   e.StorageKey,
		Status:       domain.Status(e.Status),
		UploadDate:   e.UploadDate,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toEntity(d *domain.Document) *entities.KnowledgeDocument {
	return &entities.KnowledgeDocument{
		ID:           d.ID,
		Filename:     d.Filename,
		Content:      d.Content,
		FileType:     d.FileType,
		FileSize:     d.FileSize,
		DetectedType: d.DetectedType,
		StorageKey:   d.StorageKey,
		Status:       string(d.Status),
		UploadDate:   d.UploadDate,
		UpdatedAt:    d.UpdatedAt,
	}
}
