package audit

import (
	"context"

	common_models "go-placement/internal/common/models"
)

// ActorIDKey is the context value carrying the acting user's id.
type contextKey string

const ActorIDKey contextKey = "actorID"

// AuditService defines the interface for audit logging
type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error
	GetRecordHistory(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	repo AuditRepository
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{repo: repo}
}

// LogChange records a change-set against a record. Callers treat this as
// best-effort and ignore the returned error.
func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	actorID, _ := ctx.Value(ActorIDKey).(string)

	entry := &common_models.AuditLog{
		Action:   action,
		Module:   module,
		RecordID: recordID,
		ActorID:  actorID,
		Changes:  changes,
	}
	return s.repo.Create(ctx, entry)
}

func (s *AuditServiceImpl) GetRecordHistory(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error) {
	return s.repo.FindByRecord(ctx, module, recordID, limit)
}
