package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// ExecuteRequest carries the parameters of one write-back action.
type ExecuteRequest struct {
	Action     models.Action
	PartID     string
	SupplierID string
	Qty        int
	OrderID    string
	POID       string
	NewMode    models.TransportMode
	Actor      string
}

// ActionService executes approved write-backs against the ERP. Every call
// leaves an audit trail entry, including rejections; a rejection is a
// successful call with Success=false, not an error.
type ActionService interface {
	Execute(ctx context.Context, req ExecuteRequest) (*models.ExecuteResult, error)
}

type actionService struct {
	orders repositories.OrderRepository
	audit  repositories.AuditRepository
	logger *zap.Logger
}

func NewActionService(orders repositories.OrderRepository, audit repositories.AuditRepository, logger *zap.Logger) ActionService {
	return &actionService{
		orders: orders,
		audit:  audit,
		logger: logger.Named("action-service"),
	}
}

var _ ActionService = (*actionService)(nil)

func newTraceID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *actionService) Execute(ctx context.Context, req ExecuteRequest) (*models.ExecuteResult, error) {
	if req.Actor == "" {
		req.Actor = "agent"
	}

	switch req.Action {
	case models.ActionCreatePO:
		return s.executeCreatePO(ctx, req)
	case models.ActionExpediteShipment:
		return s.executeExpediteShipment(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAction, req.Action)
	}
}

// reject records a rejected audit event and returns the non-error
// rejection result.
func (s *actionService) reject(ctx context.Context, req ExecuteRequest, eventID string, input map[string]any, reason, message string) (*models.ExecuteResult, error) {
	err := s.audit.RecordEvent(ctx, &models.AuditEvent{
		EventID: eventID,
		Actor:   req.Actor,
		Action:  req.Action,
		Input:   input,
		Output:  map[string]any{"reason": reason},
		Status:  "rejected",
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("Action rejected",
		zap.String("action", string(req.Action)),
		zap.String("reason", reason))

	return &models.ExecuteResult{
		Success:      false,
		Message:      "Rejected: " + message,
		AuditEventID: eventID,
	}, nil
}

func (s *actionService) executeCreatePO(ctx context.Context, req ExecuteRequest) (*models.ExecuteResult, error) {
	if req.PartID == "" || req.SupplierID == "" || req.Qty <= 0 {
		return nil, fmt.Errorf("%w: CREATE_PO requires partId, supplierId, and qty",
			apperrors.ErrInvalidRequest)
	}

	eventID := newTraceID("AE")
	requestID := newTraceID("AR")
	input := map[string]any{
		"action":     string(models.ActionCreatePO),
		"partId":     req.PartID,
		"supplierId": req.SupplierID,
		"qty":        req.Qty,
		"orderId":    req.OrderID,
	}

	supplier, err := s.orders.GetSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return s.reject(ctx, req, eventID, input, "Supplier not found",
			fmt.Sprintf("supplier %s not found in ERP", req.SupplierID))
	}
	if !supplier.Approved {
		return s.reject(ctx, req, eventID, input, "Supplier not approved",
			fmt.Sprintf("supplier %s is not approved", req.SupplierID))
	}

	supplies, err := s.orders.SupplierSuppliesPart(ctx, req.SupplierID, req.PartID)
	if err != nil {
		return nil, err
	}
	if !supplies {
		reason := fmt.Sprintf("Supplier %s does not supply part %s", req.SupplierID, req.PartID)
		return s.reject(ctx, req, eventID, input, reason,
			fmt.Sprintf("supplier %s does not supply part %s", req.SupplierID, req.PartID))
	}

	count, err := s.orders.CountPurchaseOrders(ctx)
	if err != nil {
		return nil, err
	}
	poID := fmt.Sprintf("PO-AGENT-%04d", count+1)

	if err := s.orders.CreatePurchaseOrder(ctx, poID, req.PartID, req.SupplierID, req.Qty); err != nil {
		return nil, err
	}

	output := map[string]any{"poId": poID, "status": "Open"}
	if err := s.audit.RecordEvent(ctx, &models.AuditEvent{
		EventID: eventID,
		Actor:   req.Actor,
		Action:  models.ActionCreatePO,
		Input:   input,
		Output:  output,
		Status:  "success",
	}); err != nil {
		return nil, err
	}

	payload := map[string]any{"poId": poID}
	for k, v := range input {
		payload[k] = v
	}
	if err := s.audit.RecordActionRequest(ctx, &models.ActionRequest{
		RequestID:      requestID,
		Type:           models.ActionCreatePO,
		Payload:        payload,
		ApprovalStatus: "auto-approved",
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		zap.String("po_id", poID),
		zap.String("supplier_id", req.SupplierID),
		zap.Int("qty", req.Qty))

	return &models.ExecuteResult{
		Success: true,
		Message: fmt.Sprintf("Purchase order %s created for %dx %s from %s",
			poID, req.Qty, req.PartID, req.SupplierID),
		AuditEventID:    eventID,
		ActionRequestID: requestID,
		Details:         output,
	}, nil
}

func (s *actionService) executeExpediteShipment(ctx context.Context, req ExecuteRequest) (*models.ExecuteResult, error) {
	if req.POID == "" {
		return nil, fmt.Errorf("%w: EXPEDITE_SHIPMENT requires poId", apperrors.ErrInvalidRequest)
	}

	newMode := req.NewMode
	if newMode == "" {
		newMode = models.ModeAir
	}
	eventID := newTraceID("AE")
	requestID := newTraceID("AR")
	input := map[string]any{
		"action":  string(models.ActionExpediteShipment),
		"poId":    req.POID,
		"newMode": string(newMode),
	}

	shipment, err := s.orders.ShipmentForPO(ctx, req.POID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return s.reject(ctx, req, eventID, input, "No shipment found for PO",
			fmt.Sprintf("no shipment found for PO %s", req.POID))
	}

	oldMode := shipment.Mode
	oldETA := ""
	if shipment.ETA != nil {
		oldETA = shipment.ETA.Format("2006-01-02")
	}

	newETA, err := s.orders.ExpediteShipment(ctx, req.POID, newMode)
	if err != nil {
		return nil, err
	}

	output := map[string]any{
		"shipmentId": shipment.ShipmentID,
		"oldMode":    string(oldMode),
		"newMode":    string(newMode),
		"oldEta":     oldETA,
		"newEta":     newETA.Format("2006-01-02"),
	}
	if err := s.audit.RecordEvent(ctx, &models.AuditEvent{
		EventID: eventID,
		Actor:   req.Actor,
		Action:  models.ActionExpediteShipment,
		Input:   input,
		Output:  output,
		Status:  "success",
	}); err != nil {
		return nil, err
	}

	payload := map[string]any{"shipmentId": shipment.ShipmentID}
	for k, v := range input {
		payload[k] = v
	}
	if err := s.audit.RecordActionRequest(ctx, &models.ActionRequest{
		RequestID:      requestID,
		Type:           models.ActionExpediteShipment,
		Payload:        payload,
		ApprovalStatus: "auto-approved",
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment expedited",
		zap.String("po_id", req.POID),
		zap.String("shipment_id", shipment.ShipmentID),
		zap.String("new_mode", string(newMode)))

	return &models.ExecuteResult{
		Success: true,
		Message: fmt.Sprintf("Shipment %s expedited: %s to %s, ETA %s to %s",
			shipment.ShipmentID, oldMode, newMode, oldETA, newETA.Format("2006-01-02")),
		AuditEventID:    eventID,
		ActionRequestID: requestID,
		Details:         output,
	}, nil
}
