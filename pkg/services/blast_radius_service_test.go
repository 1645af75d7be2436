package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/models"
)

func TestBlastRadius_RequiresAnchor(t *testing.T) {
	svc := NewBlastRadiusService(&mockGraphRepository{}, zap.NewNop())

	_, err := svc.Analyze(context.Background(), "", "", "")
	require.ErrorIs(t, err, apperrors.ErrMissingAnchor)
}

func TestBlastRadius_EmptyCollectionsNotNil(t *testing.T) {
	svc := NewBlastRadiusService(&mockGraphRepository{}, zap.NewNop())

	radius, err := svc.Analyze(context.Background(), "SO-1", "", "")
	require.NoError(t, err)
	assert.NotNil(t, radius.ImpactedOrders)
	assert.NotNil(t, radius.ImpactedParts)
	assert.NotNil(t, radius.ImpactedFactories)
	assert.NotNil(t, radius.Paths)
}

func TestBlastRadius_PassesThroughNeighborhood(t *testing.T) {
	graph := &mockGraphRepository{
		radius: &models.BlastRadius{
			ImpactedOrders: []models.BlastRadiusItem{{ID: "SO-2", Name: "SO-2", Type: "Order"}},
			ImpactedParts:  []models.BlastRadiusItem{{ID: "P1", Name: "Board", Type: "Part"}},
			Paths: []models.BlastRadiusEdge{
				{From: "S1", Relation: "SUPPLIES", To: "P1"},
			},
		},
	}
	svc := NewBlastRadiusService(graph, zap.NewNop())

	radius, err := svc.Analyze(context.Background(), "", "S1", "")
	require.NoError(t, err)
	require.Len(t, radius.ImpactedOrders, 1)
	assert.Equal(t, "SO-2", radius.ImpactedOrders[0].ID)
	require.Len(t, radius.Paths, 1)
	assert.Equal(t, "SUPPLIES", radius.Paths[0].Relation)
	assert.NotNil(t, radius.ImpactedFactories)
}
