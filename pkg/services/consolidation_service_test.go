package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/models"
)

func qualifiedSupplier(id string, priority int, price float64, moq int) models.SupplierPart {
	return models.SupplierPart{
		SupplierID: id, SupplierName: id + " Inc", Approved: true,
		Qualification: models.QualificationFull,
		Priority:      priority, LastPrice: price, MOQ: moq,
	}
}

func TestConsolidatePO_RaisesToMOQ(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-1", Qty: 180, NeedByDate: time.Now().AddDate(0, 0, 10), Priority: 1},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {qualifiedSupplier("S1", 1, 12.0, 200)},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	plan, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.NoError(t, err)

	assert.Equal(t, 180, plan.TotalDemand)
	assert.Equal(t, 200, plan.ConsolidatedQty)
	assert.Equal(t, "S1", plan.SupplierID)
	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, 180, plan.Allocations[0].Qty)
	assert.Contains(t, plan.Explanation, "below MOQ (200)")
	assert.Contains(t, plan.Explanation, "Surplus of 20 units")
}

func TestConsolidatePO_RoundsUpToMOQMultiple(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-1", Qty: 150, NeedByDate: time.Now().AddDate(0, 0, 5), Priority: 1},
			{OrderID: "SO-2", Qty: 160, NeedByDate: time.Now().AddDate(0, 0, 15), Priority: 2},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {qualifiedSupplier("S1", 1, 9.5, 150)},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	plan, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.NoError(t, err)

	assert.Equal(t, 310, plan.TotalDemand)
	assert.Equal(t, 450, plan.ConsolidatedQty)

	// Allocation conserves demand: every order fully covered.
	total := 0
	for _, a := range plan.Allocations {
		total += a.Qty
	}
	assert.Equal(t, 310, total)
}

func TestConsolidatePO_EarliestDuePolicy(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-LOW", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 3), Priority: 5},
			{OrderID: "SO-HIGH", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 20), Priority: 1},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {qualifiedSupplier("S1", 1, 10.0, 100)},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	plan, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{
		PartID: "P1", Policy: models.PolicyEarliestDue,
	})
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	// Earliest due date wins regardless of priority.
	assert.Equal(t, "SO-LOW", plan.Allocations[0].OrderID)
}

func TestConsolidatePO_PriorityPolicyDefault(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-LOW", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 3), Priority: 5},
			{OrderID: "SO-HIGH", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 20), Priority: 1},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {qualifiedSupplier("S1", 1, 10.0, 100)},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	plan, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.NoError(t, err)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "SO-HIGH", plan.Allocations[0].OrderID)
}

func TestConsolidatePO_PicksBestSupplier(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-1", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 10), Priority: 1},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {
				{SupplierID: "S-PENDING", Approved: true, Priority: 1, LastPrice: 5.0, MOQ: 100,
					Qualification: models.QualificationPending},
				qualifiedSupplier("S-CHEAP", 2, 8.0, 100),
				qualifiedSupplier("S-PRICY", 2, 9.0, 100),
			},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	plan, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.NoError(t, err)
	// Pending supplier is ineligible; priority tie resolves by price.
	assert.Equal(t, "S-CHEAP", plan.SupplierID)
}

func TestConsolidatePO_NoDemand(t *testing.T) {
	erp := &mockERPRepository{}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	_, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.ErrorIs(t, err, apperrors.ErrNoDemand)
}

func TestConsolidatePO_NoQualifiedSupplier(t *testing.T) {
	erp := &mockERPRepository{
		demand: []models.Demand{
			{OrderID: "SO-1", Qty: 100, NeedByDate: time.Now().AddDate(0, 0, 10), Priority: 1},
		},
		suppliers: map[string][]models.SupplierPart{
			"P1": {
				{SupplierID: "S1", Approved: false, Qualification: models.QualificationFull},
			},
		},
	}
	svc := NewConsolidationService(erp, testEngineConfig(), zap.NewNop())

	_, err := svc.ConsolidatePO(context.Background(), ConsolidateRequest{PartID: "P1"})
	require.ErrorIs(t, err, apperrors.ErrNoQualifiedSupplier)
}
