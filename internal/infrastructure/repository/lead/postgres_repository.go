package lead

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/dbconn"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
)

// ProfileRepository persists contact profiles.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertByEmail inserts the profile or refreshes the contact fields of the row with the same email.
func (r *ProfileRepository) UpsertByEmail(ctx context.Context, profile *domain.Profile) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	if profile.ID == "" {
		profile.ID = idgen.NewRowID()
	}
	row := entities.Profile{
		ID:           profile.ID,
		Email:        profile.Email,
		FullName:     profile.FullName,
		Phone:        profile.Phone,
		LawFirmName:  profile.LawFirmName,
		PracticeType: profile.PracticeType,
		Source:       profile.Source,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}
	if err := upsertProfile(db, &row).Error; err != nil {
		return dbconn.DBError(ctx, "failed to upsert profile", err, "profile-upsert-db-001")
	}
	// On conflict the existing row keeps its id, so report what was stored.
	profile.ID = row.ID
	profile.CreatedAt = row.CreatedAt
	return nil
}

func upsertProfile(db *gorm.DB, row *entities.Profile) *gorm.DB {
	return db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "law_firm_name", "practice_type", "source", "updated_at"}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
	).Create(row)
}

// SubmissionRepository stores outbound webhook audit rows.
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository constructs the submission repository.
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	db, err := dbconn.WithContext(ctx, r.db)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(submission.Payload)
	if err != nil {
		return dbconn.DBError(ctx, "failed to encode submission payload", err, "submission-encode-001")
	}
	if submission.ID == "" {
		submission.ID = idgen.NewRowID()
	}
	row := entities.FormSubmission{
		ID:         submission.ID,
		Target:     string(submission.Target),
		Payload:    datatypes.JSON(payload),
		StatusCode: submission.StatusCode,
		Error:      submission.Error,
		CreatedAt:  submission.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return dbconn.DBError(ctx, "failed to record submission", err, "submission-create-db-001")
	}
	return nil
}
