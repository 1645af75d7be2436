package models

import "time"

// Action names an executable write-back against the ERP tier.
type Action string

const (
	ActionCreatePO         Action = "CREATE_PO"
	ActionExpediteShipment Action = "EXPEDITE_SHIPMENT"
)

// Shipment is the ERP shipment row for a purchase order.
type Shipment struct {
	ShipmentID string        `json:"shipmentId"`
	POID       string        `json:"poId"`
	Mode       TransportMode `json:"mode"`
	Status     string        `json:"status"`
	ETA        *time.Time    `json:"eta,omitempty"`
}

// AuditEvent is one insert-only audit-trail row. Input and Output are
// stored as JSON.
type AuditEvent struct {
	EventID string         `json:"eventId"`
	TS      time.Time      `json:"ts"`
	Actor   string         `json:"actor"`
	Action  Action         `json:"action"`
	Input   map[string]any `json:"input"`
	Output  map[string]any `json:"output"`
	Status  string         `json:"status"`
}

// ActionRequest records an approved write-back request.
type ActionRequest struct {
	RequestID      string         `json:"requestId"`
	Type           Action         `json:"type"`
	Payload        map[string]any `json:"payload"`
	ApprovalStatus string         `json:"approvalStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// ExecuteResult is the outcome of an action execution. Rejections are
// successful calls with Success=false and an audit trail entry.
type ExecuteResult struct {
	Success         bool           `json:"success"`
	Message         string         `json:"message"`
	AuditEventID    string         `json:"auditEventId,omitempty"`
	ActionRequestID string         `json:"actionRequestId,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
}
