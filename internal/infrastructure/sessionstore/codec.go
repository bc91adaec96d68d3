// Package sessionstore keeps intake sessions in Redis or in process memory.
package sessionstore

import (
	"context"
	"encoding/json"

	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

func encode(session *intake.Session) ([]byte, error) {
	return json.Marshal(session)
}

func decode(raw []byte) (*intake.Session, error) {
	var session intake.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
		"session not found", nil, "session-not-found-001").WithDetails(map[string]string{"session_id": id})
}

func storeError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, message, err, code)
}
