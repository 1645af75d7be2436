package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// Available inventory below this triggers a low-stock root cause.
const lowInventoryUnits = 100

// AnalyzeRequest anchors an analysis on any combination of order,
// part, and supplier. All anchors are optional.
type AnalyzeRequest struct {
	OrderID    string
	PartID     string
	SupplierID string
}

// AnalystService gathers risk, sourcing, and inventory context around the
// given anchors and composes a root-cause explanation. Context gathering
// is best effort: a tier that cannot be reached contributes no metrics
// instead of failing the analysis.
type AnalystService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisReport, error)
}

type analystService struct {
	erp    repositories.ERPRepository
	graph  repositories.GraphRepository
	logger *zap.Logger
}

func NewAnalystService(erp repositories.ERPRepository, graph repositories.GraphRepository, logger *zap.Logger) AnalystService {
	return &analystService{
		erp:    erp,
		graph:  graph,
		logger: logger.Named("analyst-service"),
	}
}

var _ AnalystService = (*analystService)(nil)

func (s *analystService) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisReport, error) {
	metrics := map[string]any{}
	var rootParts []string

	if req.OrderID != "" {
		oc, err := s.graph.OrderContext(ctx, req.OrderID)
		switch {
		case err != nil:
			s.logger.Warn("Order context unavailable",
				zap.String("orderId", req.OrderID), zap.Error(err))
		case oc != nil:
			status := oc.Status
			if status == "" {
				status = "unknown"
			}
			metrics["orderStatus"] = status
			metrics["requiredParts"] = len(oc.Parts)
			for _, p := range oc.Parts {
				if p.SupplierCount <= 1 {
					rootParts = append(rootParts, p.PartID)
				}
			}
		}
	}

	if req.SupplierID != "" {
		events, err := s.graph.RiskEvents(ctx, req.SupplierID)
		if err != nil {
			s.logger.Warn("Risk events unavailable",
				zap.String("supplierId", req.SupplierID), zap.Error(err))
		} else {
			metrics["activeRisks"] = len(events)
			if len(events) > 0 {
				metrics["maxSeverity"] = maxSeverity(events)
			}
		}
	}

	if req.PartID != "" {
		pos, err := s.erp.InventorySummary(ctx, req.PartID)
		switch {
		case err != nil:
			s.logger.Warn("Inventory summary unavailable",
				zap.String("partId", req.PartID), zap.Error(err))
		case pos != nil:
			metrics["onHand"] = pos.OnHand
			metrics["reserved"] = pos.Reserved
			metrics["available"] = pos.Available()
		}
	}

	var causes []string
	if len(rootParts) > 0 {
		causes = append(causes, "Single-source parts: "+strings.Join(rootParts, ", "))
	}
	if risks, ok := metrics["activeRisks"].(int); ok && risks > 0 {
		causes = append(causes, fmt.Sprintf("Supplier has %s (max severity %d)",
			countNoun(risks, "active risk event"), metrics["maxSeverity"]))
	}
	if avail, ok := metrics["available"].(int); ok && avail < lowInventoryUnits {
		causes = append(causes, fmt.Sprintf("Low available inventory: %d units", avail))
	}

	rootCause := "No immediate root cause identified"
	if len(causes) > 0 {
		rootCause = strings.Join(causes, "; ")
	}
	summary := fmt.Sprintf("Analysis for order=%s, part=%s, supplier=%s. %s.",
		orNA(req.OrderID), orNA(req.PartID), orNA(req.SupplierID), rootCause)

	s.logger.Info("Analysis composed",
		zap.String("orderId", req.OrderID),
		zap.String("partId", req.PartID),
		zap.String("supplierId", req.SupplierID),
		zap.Int("causes", len(causes)))

	return &models.AnalysisReport{
		Summary:   summary,
		Metrics:   metrics,
		RootCause: rootCause,
	}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
