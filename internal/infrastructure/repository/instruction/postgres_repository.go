package instruction

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/instruction"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
)

// PostgresRepository provides persistence for chatbot instructions.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository. db may be nil when no database is configured.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Instruction, error) {
	return r.list(ctx, false)
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*domain.Instruction, error) {
	return r.list(ctx, true)
}

func (r *PostgresRepository) list(ctx context.Context, activeOnly bool) ([]*domain.Instruction, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	query := db.Model(&entities.ChatbotInstruction{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var rows []entities.ChatbotInstruction
	if err := query.Order("priority ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, dbconn.DBError(ctx, "failed to list instructions", err, "instruction-list-db-001")
	}

	out := make([]*domain.Instruction, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Instruction, error) {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var row entities.ChatbotInstruction
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dbconn.NotFound(ctx, "instruction not found", err, "instruction-find-notfound-001")
		}
		return nil, dbconn.DBError(ctx, "failed to load instruction", err, "instruction-find-db-001")
	}
	return toDomain(&row), nil
}

func (r *PostgresRepository) Create(ctx context.Context, instruction *domain.Instruction) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(toEntity(instruction)).Error; err != nil {
		return dbconn.DBError(ctx, "failed to create instruction", err, "instruction-create-db-001")
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, instruction *domain.Instruction) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"instruction_text": instruction.Text,
		"priority":         instruction.Priority,
		"is_active":        instruction.IsActive,
		"updated_at":       instruction.UpdatedAt,
	}
	result := db.Model(&entities.ChatbotInstruction{}).Where("id = ?", instruction.ID).Updates(updates)
	if result.Error != nil {
		return dbconn.DBError(ctx, "failed to update instruction", result.Error, "instruction-update-db-001")
	}
	if result.RowsAffected == 0 {
		return dbconn.NotFound(ctx, "instruction not found", nil, "instruction-update-notfound-001")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&entities.ChatbotInstruction{})
	if result.Error != nil {
		return dbconn.DBError(ctx, "failed to delete instruction", result.Error, "instruction-delete-db-001")
	}
	if result.RowsAffected == 0 {
		return dbconn.NotFound(ctx, "instruction not found", nil, "instruction-delete-notfound-001")
	}
	return nil
}

func toDomain(e *entities.ChatbotInstruction) *domain.Instruction {
	return &domain.Instruction{
		ID:        e.ID,
		Text:      e.InstructionText,
		Priority:  e.Priority,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEntity(i *domain.Instruction) *entities.ChatbotInstruction {
	return &entities.ChatbotInstruction{
		ID:              i.ID,
		InstructionText: i.Text,
		Priority:        i.Priority,
		IsActive:        i.IsActive,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}
