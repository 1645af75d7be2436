package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// SingleSourceService flags parts whose qualified-supplier count is at or
// below a threshold, with a risk classification and a recommendation.
type SingleSourceService interface {
	FindSingleSourceParts(ctx context.Context, threshold int) (*models.SingleSourceReport, error)
}

type singleSourceService struct {
	erp    repositories.ERPRepository
	logger *zap.Logger
}

func NewSingleSourceService(erp repositories.ERPRepository, logger *zap.Logger) SingleSourceService {
	return &singleSourceService{
		erp:    erp,
		logger: logger.Named("single-source-service"),
	}
}

var _ SingleSourceService = (*singleSourceService)(nil)

func (s *singleSourceService) FindSingleSourceParts(ctx context.Context, threshold int) (*models.SingleSourceReport, error) {
	if threshold < 0 {
		threshold = 0
	}

	counts, err := s.erp.SingleSourceParts(ctx, threshold)
	if err != nil {
		s.logger.Error("Failed to query single-source parts",
			zap.Int("threshold", threshold),
			zap.Error(err))
		return nil, err
	}

	report := &models.SingleSourceReport{
		Threshold: threshold,
		Parts:     []models.SingleSourcePart{},
	}

	for _, pc := range counts {
		suppliers, err := s.erp.SuppliersForPart(ctx, pc.PartID)
		if err != nil {
			return nil, err
		}
		orderCount, err := s.erp.OrderCountForPart(ctx, pc.PartID)
		if err != nil {
			return nil, err
		}

		var qualified, pending []models.SupplierPart
		for _, sp := range suppliers {
			if sp.Approved && sp.Qualification.Qualified() {
				qualified = append(qualified, sp)
			}
			if sp.Qualification == models.QualificationPending {
				pending = append(pending, sp)
			}
		}

		entry := models.SingleSourcePart{
			PartID:          pc.PartID,
			PartName:        pc.PartName,
			SupplierCount:   pc.QualifiedCount,
			Suppliers:       make([]models.SingleSourceSupplier, 0, len(suppliers)),
			RiskExplanation: classifyRisk(pc, qualified, orderCount, len(suppliers)),
			Recommendation:  recommend(pc.QualifiedCount, pending),
		}
		for _, sp := range suppliers {
			entry.Suppliers = append(entry.Suppliers, models.SingleSourceSupplier{
				SupplierID:    sp.SupplierID,
				Name:          sp.SupplierName,
				Qualification: sp.Qualification,
				Approved:      sp.Approved,
			})
		}
		report.Parts = append(report.Parts, entry)
	}

	return report, nil
}

func classifyRisk(pc models.PartSupplierCount, qualified []models.SupplierPart, orderCount, totalSuppliers int) string {
	switch {
	case pc.QualifiedCount == 0:
		return fmt.Sprintf(
			"CRITICAL: No qualified supplier for %s. %s exist but none are fully qualified/approved.",
			pc.PartID, countNoun(totalSuppliers, "supplier"))
	case pc.QualifiedCount == 1:
		sole := qualified[0]
		return fmt.Sprintf(
			"HIGH: Single qualified source %s (%s), qual=%s. Used by %s. Any disruption = line stop.",
			sole.SupplierID, sole.SupplierName, sole.Qualification, countNoun(orderCount, "order"))
	default:
		return fmt.Sprintf(
			"MODERATE: Only %d qualified sources. Used by %s.",
			pc.QualifiedCount, countNoun(orderCount, "order"))
	}
}

func recommend(qualifiedCount int, pending []models.SupplierPart) string {
	if len(pending) > 0 {
		ids := make([]string, 0, len(pending))
		for _, sp := range pending {
			ids = append(ids, sp.SupplierID)
		}
		return fmt.Sprintf(
			"Accelerate qualification of %s to develop second source. Estimated 4-6 weeks for full qualification.",
			strings.Join(ids, ", "))
	}
	if qualifiedCount <= 1 {
		return "Initiate RFQ with alternative suppliers. Consider regional diversification to reduce logistics risk."
	}
	return "Monitor existing supply base; consider qualifying a third source."
}
