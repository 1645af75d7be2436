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

func switchSupplierGraph() *mockGraphRepository {
	return &mockGraphRepository{
		factory: &models.Factory{ID: "F1", Name: "Austin"},
		supplierParts: map[string]*models.SupplierPart{
			"S1": {SupplierID: "S1", SupplierName: "From Co", LeadTimeDays: 10,
				LastPrice: 10.0, Qualification: models.QualificationFull},
			"S2": {SupplierID: "S2", SupplierName: "To Co", LeadTimeDays: 8,
				LastPrice: 12.0, Qualification: models.QualificationConditional},
		},
		lanes: map[laneKey][]models.TransportLane{
			{"S1", "F1"}: {{Mode: models.ModeOcean, TransitDays: 10, Cost: 0.5, Reliability: 0.9}},
			{"S2", "F1"}: {
				{Mode: models.ModeOcean, TransitDays: 8, Cost: 0.6, Reliability: 0.9},
				{Mode: models.ModeAir, TransitDays: 3, Cost: 5.0, Reliability: 0.97},
			},
		},
		inventory: map[string]*models.InventoryPosition{
			"P1": {OnHand: 300, Reserved: 0, SafetyStock: 100},
		},
	}
}

func TestSwitchSupplier_ScenarioSet(t *testing.T) {
	svc := NewSimulationService(switchSupplierGraph(), testEngineConfig(), zap.NewNop())

	result, err := svc.SwitchSupplier(context.Background(), SwitchSupplierRequest{
		OrderID: "SO-1", PartID: "P1", FromSupplierID: "S1", ToSupplierID: "S2",
	})
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 3)

	a, b, c := result.Scenarios[0], result.Scenarios[1], result.Scenarios[2]

	assert.Equal(t, "A", a.Label)
	assert.Zero(t, a.ETADeltaDays)
	assert.Zero(t, a.CostDeltaPct)
	assert.InDelta(t, 0.18, a.LineStopRisk, 0.001)
	assert.InDelta(t, 0.05, a.QualityRisk, 0.001)

	// B: lead 8 + ocean 8 + QC 5 = 21d vs baseline 20d.
	assert.Equal(t, 1, b.ETADeltaDays)
	assert.InDelta(t, 20.0, b.CostDeltaPct, 0.01)
	assert.InDelta(t, 0.48, b.LineStopRisk, 0.001)
	assert.InDelta(t, 0.25, b.QualityRisk, 0.001)

	// C: air expedite lands 4 days early at a steep cost premium.
	assert.Equal(t, -4, c.ETADeltaDays)
	assert.InDelta(t, 61.9, c.CostDeltaPct, 0.01)
	assert.InDelta(t, 0.16, c.LineStopRisk, 0.001)

	assert.Equal(t, "C", result.Recommended)
	assert.Contains(t, result.Assumptions[0], "300 available")
}

func TestSwitchSupplier_CurrentSupplierResolvedFromGraph(t *testing.T) {
	graph := switchSupplierGraph()
	graph.currentSupplier = "S1"
	svc := NewSimulationService(graph, testEngineConfig(), zap.NewNop())

	result, err := svc.SwitchSupplier(context.Background(), SwitchSupplierRequest{
		OrderID: "SO-1", PartID: "P1", ToSupplierID: "S2",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Scenarios[0].Description, "From Co")
}

func TestSwitchSupplier_NoCurrentSupplier(t *testing.T) {
	graph := switchSupplierGraph()
	graph.currentSupplier = ""
	svc := NewSimulationService(graph, testEngineConfig(), zap.NewNop())

	_, err := svc.SwitchSupplier(context.Background(), SwitchSupplierRequest{
		OrderID: "SO-1", PartID: "P1", ToSupplierID: "S2",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSwitchSupplier_UnknownTargetUsesConservativeDefaults(t *testing.T) {
	graph := switchSupplierGraph()
	svc := NewSimulationService(graph, testEngineConfig(), zap.NewNop())

	result, err := svc.SwitchSupplier(context.Background(), SwitchSupplierRequest{
		OrderID: "SO-1", PartID: "P1", FromSupplierID: "S1", ToSupplierID: "S9",
	})
	require.NoError(t, err)

	b := result.Scenarios[1]
	assert.Contains(t, b.Description, "S9")
	// Unknown target: lead 10, default ocean lane 14d, implicit QC hold 5d.
	assert.Contains(t, b.Assumptions[0], "Lead 10d + Ocean 14d + QC 5d = 29d")
	assert.InDelta(t, 0.50, b.QualityRisk, 0.001)
	assert.Contains(t, result.Assumptions, "Target supplier qualification=Pending, QC hold=5d")
}

func TestChangeLane_ScenarioSet(t *testing.T) {
	graph := &mockGraphRepository{
		factory: &models.Factory{ID: "F1"},
		supplierParts: map[string]*models.SupplierPart{
			"S1": {SupplierID: "S1", SupplierName: "Acme", LeadTimeDays: 10,
				LastPrice: 10.0, Qualification: models.QualificationFull},
		},
		lanes: map[laneKey][]models.TransportLane{
			{"S1", "F1"}: {
				{Mode: models.ModeOcean, TransitDays: 10, Cost: 0.5, Reliability: 0.9},
				{Mode: models.ModeAir, TransitDays: 3, Cost: 5.0, Reliability: 0.97},
			},
		},
		inventory: map[string]*models.InventoryPosition{
			"P1": {OnHand: 150, Reserved: 0, SafetyStock: 50},
		},
	}
	svc := NewSimulationService(graph, testEngineConfig(), zap.NewNop())

	result, err := svc.ChangeLane(context.Background(), ChangeLaneRequest{
		OrderID: "SO-1", PartID: "P1", SupplierID: "S1",
	})
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 3)

	assert.Contains(t, result.Scenarios[0].Description, "Ocean (current)")
	assert.Equal(t, -7, result.Scenarios[1].ETADeltaDays)
	// Blend: 60/40 transit mix gives 7d, so 17d total vs 20d baseline.
	assert.Equal(t, -3, result.Scenarios[2].ETADeltaDays)
	assert.Contains(t, result.Scenarios[2].Description, "Multi-modal")

	// Same supplier throughout: quality risk identical in all scenarios.
	for _, sc := range result.Scenarios {
		assert.InDelta(t, 0.05, sc.QualityRisk, 0.001)
	}
}

func TestTransferFactory_DefaultsAndRiskBump(t *testing.T) {
	graph := &mockGraphRepository{
		factory: &models.Factory{ID: "F1"},
	}
	svc := NewSimulationService(graph, testEngineConfig(), zap.NewNop())

	result, err := svc.TransferFactory(context.Background(), TransferFactoryRequest{
		OrderID: "SO-1", ToFactoryID: "F2",
	})
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 3)

	a, b := result.Scenarios[0], result.Scenarios[1]
	assert.Contains(t, a.Description, "Keep at F1")
	assert.InDelta(t, 0.05, a.QualityRisk, 0.001)

	// Transfer adds re-qualification exposure and ramp-up days.
	assert.InDelta(t, 0.10, b.QualityRisk, 0.001)
	assert.Contains(t, b.Description, "Transfer to F2")
	assert.Equal(t, 5, b.ETADeltaDays) // same default lane, +5d ramp-up
	assert.InDelta(t, 9.4, b.CostDeltaPct, 0.01)

	assert.Contains(t, result.Assumptions, "From F1, To F2")
}

func TestLineStopRisk(t *testing.T) {
	tests := []struct {
		name        string
		coverage    float64
		eta         int
		reliability float64
		severity    int
		want        float64
	}{
		{"ample coverage", 40, 20, 1.0, 0, 0.05},
		{"coverage matches eta", 20, 20, 1.0, 0, 0.15},
		{"half coverage", 10, 20, 1.0, 0, 0.45},
		{"no coverage", 0, 20, 1.0, 0, 0.80},
		{"zero eta clamps to one day", 2, 0, 1.0, 0, 0.05},
		{"lane unreliability", 40, 20, 0.8, 0, 0.11},
		{"severity capped and total capped", 5, 20, 0.5, 10, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineStopRisk(tt.coverage, tt.eta, tt.reliability, tt.severity)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestRecommendScenario(t *testing.T) {
	scenarios := []models.Scenario{
		{Label: "A", ETADeltaDays: 0, CostDeltaPct: 0, LineStopRisk: 0.45, QualityRisk: 0.05},
		{Label: "B", ETADeltaDays: 2, CostDeltaPct: 5, LineStopRisk: 0.15, QualityRisk: 0.25},
		{Label: "C", ETADeltaDays: -3, CostDeltaPct: 60, LineStopRisk: 0.10, QualityRisk: 0.25},
	}

	// Default: ETA delta + line-stop*20 + quality*10.
	// A=9.5, B=7.5, C=1.5
	assert.Equal(t, "C", recommendScenario(scenarios, models.ObjectiveBalanced))

	// Cost-first: cost delta + line-stop*20. A=9, B=8, C=62.
	assert.Equal(t, "B", recommendScenario(scenarios, models.ObjectiveCostFirst))
}

func TestRecommendScenario_StableTieBreak(t *testing.T) {
	scenarios := []models.Scenario{
		{Label: "A", LineStopRisk: 0.10, QualityRisk: 0.10},
		{Label: "B", LineStopRisk: 0.10, QualityRisk: 0.10},
	}
	assert.Equal(t, "A", recommendScenario(scenarios, models.ObjectiveBalanced))
}
