// Package dbconn hands repositories a context-bound GORM session.
package dbconn

import (
	"context"

	"gorm.io/gorm"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// ReasonDatabaseNotConfigured is reported when DATABASE_URL was not set.
const ReasonDatabaseNotConfigured = "database_not_configured"

// WithContext returns db bound to ctx, or a configuration error when no database is configured.
func WithContext(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if db == nil {
		return nil, platformerrors.NewConfigurationError(ctx, platformerrors.LayerRepository,
			ReasonDatabaseNotConfigured, "Server configuration error", "repository-db-config-001")
	}
	return db.WithContext(ctx), nil
}

// DBError wraps a query failure.
func DBError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, code)
}

// NotFound reports a missing row.
func NotFound(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, message, err, code)
}
