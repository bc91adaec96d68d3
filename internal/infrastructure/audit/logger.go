// Package audit records admin mutations in admin_audit_logs.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database/entities"
	"github.com/aifirstlegal/masterclass-server/internal/utils/idgen"
)

// Entry describes one admin action.
type Entry struct {
	AdminSubject string
	Action       string
	ResourceType string
	ResourceID   string
	Payload      any
	StatusCode   int
	IPAddress    string
	UserAgent    string
	ErrorMessage string
}

// Logger writes audit rows. Failures are logged and never surface to the caller.
type Logger struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
}

func NewLogger(db *gorm.DB, log zerolog.Logger) *Logger {
	return &Logger{
		db:  db,
		log: log.With().Str("component", "audit-logger").Logger(),
		now: time.Now,
	}
}

func (l *Logger) Record(ctx context.Context, entry Entry) {
	if l == nil || l.db == nil {
		return
	}
	row := entities.AdminAuditLog{
		ID:           idgen.NewRowID(),
		AdminSubject: entry.AdminSubject,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		StatusCode:   entry.StatusCode,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    l.now().UTC(),
	}
	if entry.Payload != nil {
		raw, err := json.Marshal(entry.Payload)
		if err == nil {
			row.Payload = datatypes.JSON(raw)
		}
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		l.log.Warn().Err(err).Str("action", entry.Action).Str("resource_type", entry.ResourceType).Msg("failed to write audit log")
	}
}
