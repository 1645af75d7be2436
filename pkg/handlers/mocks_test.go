package handlers

import (
	"context"

	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/services"
)

// mockRFQService is a configurable mock for sourcing handler tests.
type mockRFQService struct {
	result *models.RFQResult
	err    error
}

func (m *mockRFQService) ScoreCandidates(ctx context.Context, req services.RFQRequest) (*models.RFQResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &models.RFQResult{
		PartID:     req.PartID,
		Qty:        req.Qty,
		Objective:  req.Objective,
		Candidates: []models.Candidate{},
	}, nil
}

type mockSingleSourceService struct {
	report *models.SingleSourceReport
	err    error
}

func (m *mockSingleSourceService) FindSingleSourceParts(ctx context.Context, threshold int) (*models.SingleSourceReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &models.SingleSourceReport{Threshold: threshold, Parts: []models.SingleSourcePart{}}, nil
}

type mockConsolidationService struct {
	plan *models.ConsolidationPlan
	err  error
}

func (m *mockConsolidationService) ConsolidatePO(ctx context.Context, req services.ConsolidateRequest) (*models.ConsolidationPlan, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.plan != nil {
		return m.plan, nil
	}
	return &models.ConsolidationPlan{PartID: req.PartID}, nil
}

type mockSimulationService struct {
	result   *models.SimulationResult
	err      error
	lastCall string
}

func (m *mockSimulationService) SwitchSupplier(ctx context.Context, req services.SwitchSupplierRequest) (*models.SimulationResult, error) {
	m.lastCall = "switch-supplier"
	return m.simResult()
}

func (m *mockSimulationService) ChangeLane(ctx context.Context, req services.ChangeLaneRequest) (*models.SimulationResult, error) {
	m.lastCall = "change-lane"
	return m.simResult()
}

func (m *mockSimulationService) TransferFactory(ctx context.Context, req services.TransferFactoryRequest) (*models.SimulationResult, error) {
	m.lastCall = "transfer-factory"
	return m.simResult()
}

func (m *mockSimulationService) simResult() (*models.SimulationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &models.SimulationResult{
		Scenarios:   []models.Scenario{{Label: "A"}},
		Recommended: "A",
	}, nil
}

type mockBlastRadiusService struct {
	radius *models.BlastRadius
	err    error
}

func (m *mockBlastRadiusService) Analyze(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.radius != nil {
		return m.radius, nil
	}
	return &models.BlastRadius{
		ImpactedOrders:    []models.BlastRadiusItem{},
		ImpactedParts:     []models.BlastRadiusItem{},
		ImpactedFactories: []models.BlastRadiusItem{},
		Paths:             []models.BlastRadiusEdge{},
	}, nil
}

type mockPlanService struct {
	plan     *models.Plan
	lastLang string
}

func (m *mockPlanService) BuildPlan(question, lang string) *models.Plan {
	m.lastLang = lang
	if m.plan != nil {
		return m.plan
	}
	return &models.Plan{Intent: models.IntentUnknown, Steps: []models.PlanStep{}}
}

type mockAnalystService struct {
	report *models.AnalysisReport
	err    error
}

func (m *mockAnalystService) Analyze(ctx context.Context, req services.AnalyzeRequest) (*models.AnalysisReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &models.AnalysisReport{
		Summary:   "ok",
		Metrics:   map[string]any{},
		RootCause: "No immediate root cause identified",
	}, nil
}

type mockActionService struct {
	result *models.ExecuteResult
	err    error
}

func (m *mockActionService) Execute(ctx context.Context, req services.ExecuteRequest) (*models.ExecuteResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &models.ExecuteResult{Success: true, Message: "ok"}, nil
}
