package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/services"
)

// PlanRequest for POST /agent/plan
type PlanRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang,omitempty"`
}

// AnalyzeRequest for POST /agent/analyze. All anchors are optional.
type AnalyzeRequest struct {
	OrderID    string `json:"orderId,omitempty"`
	PartID     string `json:"partId,omitempty"`
	SupplierID string `json:"supplierId,omitempty"`
}

// AgentExecuteRequest for POST /agent/execute
type AgentExecuteRequest struct {
	Action     models.Action        `json:"action"`
	PartID     string               `json:"partId,omitempty"`
	SupplierID string               `json:"supplierId,omitempty"`
	Qty        int                  `json:"qty,omitempty"`
	OrderID    string               `json:"orderId,omitempty"`
	POID       string               `json:"poId,omitempty"`
	NewMode    models.TransportMode `json:"newMode,omitempty"`
	Actor      string               `json:"actor,omitempty"`
}

// AgentHandler serves the agent workflow endpoints.
type AgentHandler struct {
	planService    services.PlanService
	analystService services.AnalystService
	actionService  services.ActionService
	logger         *zap.Logger
}

func NewAgentHandler(planService services.PlanService, analystService services.AnalystService, actionService services.ActionService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		planService:    planService,
		analystService: analystService,
		actionService:  actionService,
		logger:         logger,
	}
}

// RegisterRoutes registers the agent handler's routes on the given mux.
func (h *AgentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /agent/plan", h.Plan)
	mux.HandleFunc("POST /agent/analyze", h.Analyze)
	mux.HandleFunc("POST /agent/execute", h.Execute)
}

// Plan handles POST /agent/plan
func (h *AgentHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Question == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "question is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	plan := h.planService.BuildPlan(req.Question, req.Lang)
	if err := WriteJSON(w, http.StatusOK, plan); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Analyze handles POST /agent/analyze
func (h *AgentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	report, err := h.analystService.Analyze(r.Context(), services.AnalyzeRequest{
		OrderID:    req.OrderID,
		PartID:     req.PartID,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		h.logger.Error("Failed to analyze", zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Execute handles POST /agent/execute
func (h *AgentHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req AgentExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.actionService.Execute(r.Context(), services.ExecuteRequest{
		Action:     req.Action,
		PartID:     req.PartID,
		SupplierID: req.SupplierID,
		Qty:        req.Qty,
		OrderID:    req.OrderID,
		POID:       req.POID,
		NewMode:    req.NewMode,
		Actor:      req.Actor,
	})
	if err != nil {
		h.logger.Error("Failed to execute action",
			zap.String("action", string(req.Action)),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
