package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
)

func TestAnalyze_ComposesAllCauses(t *testing.T) {
	graph := &mockGraphRepository{
		orderContext: &models.OrderContext{
			OrderID: "SO-9",
			Status:  "AtRisk",
			Parts: []models.OrderPart{
				{PartID: "P1", PartName: "Chassis", SupplierCount: 1},
				{PartID: "P2", PartName: "Harness", SupplierCount: 3},
			},
		},
		riskEvents: map[string][]models.RiskEvent{
			"S3": {
				{ID: "RE-1", Type: "PortCongestion", Severity: 4},
				{ID: "RE-2", Type: "Strike", Severity: 7},
			},
		},
	}
	erp := &mockERPRepository{
		inventory: &models.InventoryPosition{OnHand: 120, Reserved: 45, SafetyStock: 30},
	}
	svc := NewAnalystService(erp, graph, zap.NewNop())

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		OrderID: "SO-9", PartID: "P1", SupplierID: "S3",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Single-source parts: P1; "+
			"Supplier has 2 active risk events (max severity 7); "+
			"Low available inventory: 75 units",
		report.RootCause)
	assert.Equal(t,
		"Analysis for order=SO-9, part=P1, supplier=S3. "+report.RootCause+".",
		report.Summary)

	assert.Equal(t, "AtRisk", report.Metrics["orderStatus"])
	assert.Equal(t, 2, report.Metrics["requiredParts"])
	assert.Equal(t, 2, report.Metrics["activeRisks"])
	assert.Equal(t, 7, report.Metrics["maxSeverity"])
	assert.Equal(t, 120, report.Metrics["onHand"])
	assert.Equal(t, 45, report.Metrics["reserved"])
	assert.Equal(t, 75, report.Metrics["available"])
}

func TestAnalyze_NoAnchors(t *testing.T) {
	svc := NewAnalystService(&mockERPRepository{}, &mockGraphRepository{}, zap.NewNop())

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{})
	require.NoError(t, err)

	assert.Equal(t, "No immediate root cause identified", report.RootCause)
	assert.Equal(t,
		"Analysis for order=N/A, part=N/A, supplier=N/A. No immediate root cause identified.",
		report.Summary)
	assert.Empty(t, report.Metrics)
}

func TestAnalyze_GraphErrorIsBestEffort(t *testing.T) {
	graph := &mockGraphRepository{err: errors.New("bolt connection refused")}
	svc := NewAnalystService(&mockERPRepository{}, graph, zap.NewNop())

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		OrderID: "SO-9", SupplierID: "S3",
	})
	require.NoError(t, err)

	assert.Equal(t, "No immediate root cause identified", report.RootCause)
	assert.Empty(t, report.Metrics)
}

func TestAnalyze_HealthyInventoryNotFlagged(t *testing.T) {
	graph := &mockGraphRepository{
		riskEvents: map[string][]models.RiskEvent{
			"S1": {{ID: "RE-1", Type: "Flood", Severity: 3}},
		},
	}
	erp := &mockERPRepository{
		inventory: &models.InventoryPosition{OnHand: 500, Reserved: 100, SafetyStock: 50},
	}
	svc := NewAnalystService(erp, graph, zap.NewNop())

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		PartID: "P1", SupplierID: "S1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Supplier has 1 active risk event (max severity 3)", report.RootCause)
	assert.Equal(t, 400, report.Metrics["available"])
}

func TestAnalyze_UnknownOrderStatusDefaults(t *testing.T) {
	graph := &mockGraphRepository{
		orderContext: &models.OrderContext{
			OrderID: "SO-9",
			Parts:   []models.OrderPart{{PartID: "P1", SupplierCount: 2}},
		},
	}
	svc := NewAnalystService(&mockERPRepository{}, graph, zap.NewNop())

	report, err := svc.Analyze(context.Background(), AnalyzeRequest{OrderID: "SO-9"})
	require.NoError(t, err)

	assert.Equal(t, "unknown", report.Metrics["orderStatus"])
	assert.Equal(t, "No immediate root cause identified", report.RootCause)
}
