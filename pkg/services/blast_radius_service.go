package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// BlastRadiusService computes the one-hop impact set around a change
// anchor: which orders, parts, and factories a disruption touches.
type BlastRadiusService interface {
	Analyze(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error)
}

type blastRadiusService struct {
	graph  repositories.GraphRepository
	logger *zap.Logger
}

func NewBlastRadiusService(graph repositories.GraphRepository, logger *zap.Logger) BlastRadiusService {
	return &blastRadiusService{
		graph:  graph,
		logger: logger.Named("blast-radius-service"),
	}
}

var _ BlastRadiusService = (*blastRadiusService)(nil)

func (s *blastRadiusService) Analyze(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error) {
	if orderID == "" && supplierID == "" && partID == "" {
		return nil, apperrors.ErrMissingAnchor
	}

	radius, err := s.graph.Neighborhood(ctx, orderID, supplierID, partID)
	if err != nil {
		s.logger.Error("Failed to traverse neighborhood",
			zap.String("order_id", orderID),
			zap.String("supplier_id", supplierID),
			zap.String("part_id", partID),
			zap.Error(err))
		return nil, err
	}

	// Collections serialize as [] rather than null.
	if radius.ImpactedOrders == nil {
		radius.ImpactedOrders = []models.BlastRadiusItem{}
	}
	if radius.ImpactedParts == nil {
		radius.ImpactedParts = []models.BlastRadiusItem{}
	}
	if radius.ImpactedFactories == nil {
		radius.ImpactedFactories = []models.BlastRadiusItem{}
	}
	if radius.Paths == nil {
		radius.Paths = []models.BlastRadiusEdge{}
	}
	return radius, nil
}
