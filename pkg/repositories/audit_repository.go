package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/controltower/decision-engine/pkg/database"
	"github.com/controltower/decision-engine/pkg/models"
)

// AuditRepository persists the insert-only action audit trail.
type AuditRepository interface {
	RecordEvent(ctx context.Context, event *models.AuditEvent) error
	RecordActionRequest(ctx context.Context, request *models.ActionRequest) error
}

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

var _ AuditRepository = (*auditRepository)(nil)

func (r *auditRepository) RecordEvent(ctx context.Context, event *models.AuditEvent) error {
	input, err := json.Marshal(event.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal audit input: %w", err)
	}
	output, err := json.Marshal(event.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal audit output: %w", err)
	}

	ts := event.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_events (event_id, ts, actor, action, input, output, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.EventID, ts, event.Actor, event.Action, input, output, event.Status)
	if err != nil {
		return fmt.Errorf("failed to record audit event %s: %w", event.EventID, err)
	}
	return nil
}

func (r *auditRepository) RecordActionRequest(ctx context.Context, request *models.ActionRequest) error {
	payload, err := json.Marshal(request.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal action payload: %w", err)
	}

	createdAt := request.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO action_requests (request_id, type, payload, approval_status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		request.RequestID, request.Type, payload, request.ApprovalStatus, createdAt)
	if err != nil {
		return fmt.Errorf("failed to record action request %s: %w", request.RequestID, err)
	}
	return nil
}
