package sqlite

import (
	"context"

	"github.com/example/veganaut/internal/ctxutil"
	"github.com/example/veganaut/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using VisitLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.VisitLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.VisitLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, visitID, entityType, entityID string) error {
	return w.writeLog(ctx, visitID, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, visitID, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, visitID, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, visitID, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	if visitID == "" {
		// Nothing outside a visit is audited
		return nil
	}

	id, err := w.logRepo.GetNextID(ctx)
	if err != nil {
		return err
	}

	record := &secondary.VisitLogRecord{
		ID:         id,
		VisitID:    visitID,
		ActorID:    ctxutil.ActorFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	}

	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
