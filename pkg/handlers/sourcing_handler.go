package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/services"
)

// RFQCandidatesRequest for POST /agent/rfq-candidates
type RFQCandidatesRequest struct {
	PartID    string           `json:"partId"`
	FactoryID string           `json:"factoryId,omitempty"`
	Qty       int              `json:"qty,omitempty"`
	NeedBy    string           `json:"needBy,omitempty"` // YYYY-MM-DD
	Objective models.Objective `json:"objective,omitempty"`
}

// SingleSourceRequest for POST /agent/single-source-parts
type SingleSourceRequest struct {
	Threshold int `json:"threshold,omitempty"`
}

// ConsolidatePORequest for POST /agent/consolidate-po
type ConsolidatePORequest struct {
	PartID      string                  `json:"partId"`
	HorizonDays int                     `json:"horizonDays,omitempty"`
	Policy      models.AllocationPolicy `json:"policy,omitempty"`
}

// SourcingHandler serves the RFQ scoring, single-source detection, and
// demand consolidation endpoints.
type SourcingHandler struct {
	rfqService           services.RFQService
	singleSourceService  services.SingleSourceService
	consolidationService services.ConsolidationService
	logger               *zap.Logger
}

func NewSourcingHandler(
	rfqService services.RFQService,
	singleSourceService services.SingleSourceService,
	consolidationService services.ConsolidationService,
	logger *zap.Logger,
) *SourcingHandler {
	return &SourcingHandler{
		rfqService:           rfqService,
		singleSourceService:  singleSourceService,
		consolidationService: consolidationService,
		logger:               logger,
	}
}

// RegisterRoutes registers the sourcing handler's routes on the given mux.
func (h *SourcingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /agent/rfq-candidates", h.RFQCandidates)
	mux.HandleFunc("POST /agent/single-source-parts", h.SingleSourceParts)
	mux.HandleFunc("POST /agent/consolidate-po", h.ConsolidatePO)
}

// RFQCandidates handles POST /agent/rfq-candidates
func (h *SourcingHandler) RFQCandidates(w http.ResponseWriter, r *http.Request) {
	var req RFQCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.PartID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "partId is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	svcReq := services.RFQRequest{
		PartID:    req.PartID,
		FactoryID: req.FactoryID,
		Qty:       req.Qty,
		Objective: req.Objective,
	}
	if req.NeedBy != "" {
		needBy, err := time.Parse("2006-01-02", req.NeedBy)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "needBy must be YYYY-MM-DD"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		svcReq.NeedBy = &needBy
	}

	result, err := h.rfqService.ScoreCandidates(r.Context(), svcReq)
	if err != nil {
		h.logger.Error("Failed to score RFQ candidates",
			zap.String("part_id", req.PartID),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SingleSourceParts handles POST /agent/single-source-parts
func (h *SourcingHandler) SingleSourceParts(w http.ResponseWriter, r *http.Request) {
	var req SingleSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Threshold <= 0 {
		req.Threshold = 1
	}

	report, err := h.singleSourceService.FindSingleSourceParts(r.Context(), req.Threshold)
	if err != nil {
		h.logger.Error("Failed to find single-source parts", zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ConsolidatePO handles POST /agent/consolidate-po
func (h *SourcingHandler) ConsolidatePO(w http.ResponseWriter, r *http.Request) {
	var req ConsolidatePORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.PartID == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "partId is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	plan, err := h.consolidationService.ConsolidatePO(r.Context(), services.ConsolidateRequest{
		PartID:      req.PartID,
		HorizonDays: req.HorizonDays,
		Policy:      req.Policy,
	})
	if err != nil {
		h.logger.Error("Failed to consolidate demand",
			zap.String("part_id", req.PartID),
			zap.Error(err))
		writeServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, plan); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
