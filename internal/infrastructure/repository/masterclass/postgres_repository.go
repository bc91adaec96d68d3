package masterclass

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/masterclass"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
)

// PostgresRepository provides persistence for replay registrations.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *domain.Record) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = idgen.NewRowID()
	}
	row := entities.MasterclassRegistration{
		ID:              record.ID,
		FullName:        record.FullName,
		Email:           record.Email,
		Phone:           record.Phone,
		FirmName:        record.FirmName,
		PracticeArea:    record.PracticeArea,
		Source:          record.Source,
		AccessExpiresAt: record.AccessExpiresAt,
		CreatedAt:       record.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return dbconn.DBError(ctx, "failed to save registration", err, "registration-create-db-001")
	}
	return nil
}
