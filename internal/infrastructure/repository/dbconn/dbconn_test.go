package dbconn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func TestWithContextNilDB(t *testing.T) {
	db, err := WithContext(context.Background(), nil)
	assert.Nil(t, db)
	perr := platformerrors.GetPlatformError(err)
	require.NotNil(t, perr)
	assert.Equal(t, platformerrors.ErrorTypeConfiguration, perr.Type)
	assert.Equal(t, ReasonDatabaseNotConfigured, perr.Reason)
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("boom")
	assert.True(t, platformerrors.IsErrorType(DBError(context.Background(), "x", cause, "c"), platformerrors.ErrorTypeDatabaseError))
	assert.True(t, platformerrors.IsErrorType(NotFound(context.Background(), "x", cause, "c"), platformerrors.ErrorTypeNotFound))
	assert.ErrorIs(t, DBError(context.Background(), "x", cause, "c"), cause)
}
