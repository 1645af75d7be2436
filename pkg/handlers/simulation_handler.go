package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/services"
)

// SwitchSupplierRequest for POST /simulate/switch-supplier
type SwitchSupplierRequest struct {
	OrderID        string           `json:"orderId"`
	PartID         string           `json:"partId"`
	FromSupplierID string           `json:"fromSupplierId,omitempty"`
	ToSupplierID   string           `json:"toSupplierId"`
	Objective      models.Objective `json:"objective,omitempty"`
}

// ChangeLaneRequest for POST /simulate/change-lane
type ChangeLaneRequest struct {
	OrderID    string           `json:"orderId"`
	PartID     string           `json:"partId"`
	SupplierID string           `json:"supplierId"`
	Objective  models.Objective `json:"objective,omitempty"`
}

// TransferFactoryRequest for POST /simulate/transfer-factory
type TransferFactoryRequest struct {
	OrderID       string           `json:"orderId"`
	FromFactoryID string           `json:"fromFactoryId,omitempty"`
	ToFactoryID   string           `json:"toFactoryId"`
	Objective     models.Objective `json:"objective,omitempty"`
}

// SimulationHandler serves the what-if simulation and blast-radius
// endpoints.
type SimulationHandler struct {
	simulationService  services.SimulationService
	blastRadiusService services.BlastRadiusService
	logger             *zap.Logger
}

func NewSimulationHandler(
	simulationService services.SimulationService,
	blastRadiusService services.BlastRadiusService,
	logger *zap.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		simulationService:  simulationService,
		blastRadiusService: blastRadiusService,
		logger:             logger,
	}
}

// RegisterRoutes registers the simulation handler's routes on the given mux.
func (h *SimulationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /simulate/switch-supplier", h.SwitchSupplier)
	mux.HandleFunc("POST /simulate/change-lane", h.ChangeLane)
	mux.HandleFunc("POST /simulate/transfer-factory", h.TransferFactory)
	mux.HandleFunc("GET /blast-radius", h.BlastRadius)
}

// SwitchSupplier handles POST /simulate/switch-supplier
func (h *SimulationHandler) SwitchSupplier(w http.ResponseWriter, r *http.Request) {
	var req SwitchSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.OrderID == "" || req.PartID == "" || req.ToSupplierID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request",
			"orderId, partId, and toSupplierId are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.simulationService.SwitchSupplier(r.Context(), services.SwitchSupplierRequest{
		OrderID:        req.OrderID,
		PartID:         req.PartID,
		FromSupplierID: req.FromSupplierID,
		ToSupplierID:   req.ToSupplierID,
		Objective:      req.Objective,
	})
	if err != nil {
		h.logger.Error("Failed to simulate supplier switch",
			zap.String("order_id", req.OrderID),
			zap.String("part_id", req.PartID),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ChangeLane handles POST /simulate/change-lane
func (h *SimulationHandler) ChangeLane(w http.ResponseWriter, r *http.Request) {
	var req ChangeLaneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.OrderID == "" || req.PartID == "" || req.SupplierID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request",
			"orderId, partId, and supplierId are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.simulationService.ChangeLane(r.Context(), services.ChangeLaneRequest{
		OrderID:    req.OrderID,
		PartID:     req.PartID,
		SupplierID: req.SupplierID,
		Objective:  req.Objective,
	})
	if err != nil {
		h.logger.Error("Failed to simulate lane change",
			zap.String("order_id", req.OrderID),
			zap.String("part_id", req.PartID),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// TransferFactory handles POST /simulate/transfer-factory
func (h *SimulationHandler) TransferFactory(w http.ResponseWriter, r *http.Request) {
	var req TransferFactoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.OrderID == "" || req.ToFactoryID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request",
			"orderId and toFactoryId are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.simulationService.TransferFactory(r.Context(), services.TransferFactoryRequest{
		OrderID:       req.OrderID,
		FromFactoryID: req.FromFactoryID,
		ToFactoryID:   req.ToFactoryID,
		Objective:     req.Objective,
	})
	if err != nil {
		h.logger.Error("Failed to simulate factory transfer",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// BlastRadius handles GET /blast-radius
func (h *SimulationHandler) BlastRadius(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	radius, err := h.blastRadiusService.Analyze(r.Context(),
		q.Get("orderId"), q.Get("supplierId"), q.Get("partId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, radius); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
