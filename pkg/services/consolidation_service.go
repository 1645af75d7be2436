package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/config"
	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// ConsolidateRequest asks for one MOQ-compliant purchase covering all
// near-term demand for a part.
type ConsolidateRequest struct {
	PartID      string
	HorizonDays int
	Policy      models.AllocationPolicy
}

// ConsolidationService aggregates demand into a single purchase with a
// per-order allocation plan.
type ConsolidationService interface {
	ConsolidatePO(ctx context.Context, req ConsolidateRequest) (*models.ConsolidationPlan, error)
}

type consolidationService struct {
	erp    repositories.ERPRepository
	cfg    config.EngineConfig
	logger *zap.Logger
}

func NewConsolidationService(erp repositories.ERPRepository, cfg config.EngineConfig, logger *zap.Logger) ConsolidationService {
	return &consolidationService{
		erp:    erp,
		cfg:    cfg,
		logger: logger.Named("consolidation-service"),
	}
}

var _ ConsolidationService = (*consolidationService)(nil)

func (s *consolidationService) ConsolidatePO(ctx context.Context, req ConsolidateRequest) (*models.ConsolidationPlan, error) {
	if req.HorizonDays <= 0 {
		req.HorizonDays = s.cfg.DefaultHorizonDays
	}
	if req.Policy == "" {
		req.Policy = models.PolicyPriority
	}

	demands, err := s.erp.DemandWithinHorizon(ctx, req.PartID, req.HorizonDays)
	if err != nil {
		s.logger.Error("Failed to fetch demand",
			zap.String("part_id", req.PartID),
			zap.Error(err))
		return nil, err
	}
	if len(demands) == 0 {
		return nil, fmt.Errorf("part %s within %d days: %w",
			req.PartID, req.HorizonDays, apperrors.ErrNoDemand)
	}

	totalDemand := 0
	for _, d := range demands {
		totalDemand += d.Qty
	}

	supplier, err := s.bestEligibleSupplier(ctx, req.PartID)
	if err != nil {
		return nil, err
	}

	moq := supplier.MOQ
	consolidatedQty := totalDemand
	if consolidatedQty < moq {
		consolidatedQty = moq
	}
	// Round up to the next MOQ multiple.
	if moq > 0 && consolidatedQty%moq != 0 {
		consolidatedQty = (consolidatedQty/moq + 1) * moq
	}

	sorted := make([]models.Demand, len(demands))
	copy(sorted, demands)
	sortDemand(sorted, req.Policy)

	remaining := consolidatedQty
	allocations := make([]models.AllocationItem, 0, len(sorted))
	for _, d := range sorted {
		allocQty := d.Qty
		if allocQty > remaining {
			allocQty = remaining
		}
		if allocQty <= 0 {
			continue
		}
		allocations = append(allocations, models.AllocationItem{
			OrderID:    d.OrderID,
			Qty:        allocQty,
			NeedByDate: d.NeedByDate,
			Priority:   d.Priority,
		})
		remaining -= allocQty
	}

	return &models.ConsolidationPlan{
		PartID:          req.PartID,
		TotalDemand:     totalDemand,
		ConsolidatedQty: consolidatedQty,
		SupplierID:      supplier.SupplierID,
		SupplierName:    supplier.SupplierName,
		MOQ:             moq,
		UnitPrice:       supplier.LastPrice,
		Allocations:     allocations,
		Explanation: buildExplanation(req, len(demands), totalDemand,
			consolidatedQty, moq, *supplier),
	}, nil
}

// bestEligibleSupplier picks the first approved, qualified supplier by
// (priority, price). First match wins.
func (s *consolidationService) bestEligibleSupplier(ctx context.Context, partID string) (*models.SupplierPart, error) {
	suppliers, err := s.erp.SuppliersForPart(ctx, partID)
	if err != nil {
		return nil, err
	}

	var eligible []models.SupplierPart
	for _, sp := range suppliers {
		if sp.Approved && sp.Qualification.Qualified() {
			eligible = append(eligible, sp)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("part %s: %w", partID, apperrors.ErrNoQualifiedSupplier)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority < eligible[j].Priority
		}
		return eligible[i].LastPrice < eligible[j].LastPrice
	})
	return &eligible[0], nil
}

// sortDemand orders demand lines per allocation policy. "priority" and
// "risk_min" are deliberately identical in the current rule set.
func sortDemand(demands []models.Demand, policy models.AllocationPolicy) {
	switch policy {
	case models.PolicyEarliestDue:
		sort.SliceStable(demands, func(i, j int) bool {
			return demands[i].NeedByDate.Before(demands[j].NeedByDate)
		})
	default: // priority, risk_min
		sort.SliceStable(demands, func(i, j int) bool {
			if demands[i].Priority != demands[j].Priority {
				return demands[i].Priority < demands[j].Priority
			}
			return demands[i].NeedByDate.Before(demands[j].NeedByDate)
		})
	}
}

func buildExplanation(req ConsolidateRequest, orderCount, totalDemand, consolidatedQty, moq int, supplier models.SupplierPart) string {
	parts := []string{fmt.Sprintf(
		"Total demand: %d units across %s within %d-day horizon.",
		totalDemand, countNoun(orderCount, "order"), req.HorizonDays)}

	if totalDemand < moq {
		parts = append(parts, fmt.Sprintf(
			"Individual demand (%d) below MOQ (%d). Consolidated order raised to %d units.",
			totalDemand, moq, consolidatedQty))
	}
	if surplus := consolidatedQty - totalDemand; surplus > 0 {
		parts = append(parts, fmt.Sprintf(
			"Surplus of %d units can buffer safety stock.", surplus))
	}
	parts = append(parts, fmt.Sprintf(
		"Best supplier: %s (%s), $%.2f/unit, qual=%s.",
		supplier.SupplierID, supplier.SupplierName, supplier.LastPrice, supplier.Qualification))
	parts = append(parts, fmt.Sprintf("Allocation policy: %s.", req.Policy))

	return strings.Join(parts, " ")
}
