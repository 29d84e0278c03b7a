package audit

import (
	"context"

	"member-access-be/internal/apperrors"
	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Recorder appends one immutable record per admin-initiated transition.
// Records are never updated or deleted; the trail is the only place where
// a transition's full decision snapshot survives.
type Recorder struct {
	logger logger.ILogger
}

func NewRecorder(logger logger.ILogger) *Recorder {
	return &Recorder{
		logger: logger,
	}
}

// Record writes the audit entry through the given unit of work, so callers
// holding a transaction get the entry committed atomically with their
// ledger change. actorId is nil for system-initiated transitions.
func (r *Recorder) Record(ctx context.Context, uow unitofwork.UnitOfWork, actorId *uuid.UUID, action string, targetUserId uuid.UUID, meta map[string]interface{}) error {
	record := &entity.AuditRecord{
		ActorId:      actorId,
		Action:       action,
		TargetUserId: targetUserId,
		Meta:         meta,
	}

	if err := uow.AuditRepository().Create(ctx, record); err != nil {
		r.logger.Error("AUDIT", "Failed to write audit record", map[string]interface{}{
			"action":      action,
			"target_user": targetUserId.String(),
			"error":       err.Error(),
		})
		return apperrors.NewLedger("audit create", err)
	}

	return nil
}
