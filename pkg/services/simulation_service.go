package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/apperrors"
	"github.com/controltower/decision-engine/pkg/config"
	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// SwitchSupplierRequest proposes re-sourcing a part to another supplier.
type SwitchSupplierRequest struct {
	OrderID        string
	PartID         string
	FromSupplierID string // resolved from the graph when empty
	ToSupplierID   string
	Objective      models.Objective
}

// ChangeLaneRequest proposes expediting the transport lane for a part.
type ChangeLaneRequest struct {
	OrderID    string
	PartID     string
	SupplierID string
	Objective  models.Objective
}

// TransferFactoryRequest proposes moving production to another factory.
type TransferFactoryRequest struct {
	OrderID       string
	FromFactoryID string // resolved from the graph when empty
	ToFactoryID   string
	Objective     models.Objective
}

// SimulationService evaluates corrective interventions as comparative
// scenario sets: a keep-current baseline "A" plus intervention variants,
// each scored on ETA delta, cost delta, line-stop risk, and quality risk.
type SimulationService interface {
	SwitchSupplier(ctx context.Context, req SwitchSupplierRequest) (*models.SimulationResult, error)
	ChangeLane(ctx context.Context, req ChangeLaneRequest) (*models.SimulationResult, error)
	TransferFactory(ctx context.Context, req TransferFactoryRequest) (*models.SimulationResult, error)
}

type simulationService struct {
	graph  repositories.GraphRepository
	cfg    config.EngineConfig
	logger *zap.Logger
}

func NewSimulationService(graph repositories.GraphRepository, cfg config.EngineConfig, logger *zap.Logger) SimulationService {
	return &simulationService{
		graph:  graph,
		cfg:    cfg,
		logger: logger.Named("simulation-service"),
	}
}

var _ SimulationService = (*simulationService)(nil)

// scenarioCost scores one scenario under an objective; lower is better.
type scenarioCost func(models.Scenario) float64

// objectiveCosts is the objective-to-scoring strategy table. Objectives
// not listed use defaultScenarioCost.
var objectiveCosts = map[models.Objective]scenarioCost{
	models.ObjectiveCostFirst: func(sc models.Scenario) float64 {
		return sc.CostDeltaPct + sc.LineStopRisk*20
	},
}

func defaultScenarioCost(sc models.Scenario) float64 {
	return float64(sc.ETADeltaDays) + sc.LineStopRisk*20 + sc.QualityRisk*10
}

// recommendScenario returns the label of the lowest-cost scenario. Ties
// resolve to the first minimal scenario in encounter order.
func recommendScenario(scenarios []models.Scenario, objective models.Objective) string {
	cost, ok := objectiveCosts[objective]
	if !ok {
		cost = defaultScenarioCost
	}
	best := scenarios[0]
	bestCost := cost(best)
	for _, sc := range scenarios[1:] {
		if c := cost(sc); c < bestCost {
			best, bestCost = sc, c
		}
	}
	return best.Label
}

// lineStopRisk estimates the probability that inventory runs out before
// the scenario ETA. Base risk steps down with the coverage-to-ETA ratio,
// then lane unreliability and open risk events add penalties.
func lineStopRisk(coverageDays float64, etaDays int, reliability float64, maxSeverity int) float64 {
	if etaDays < 1 {
		etaDays = 1
	}
	ratio := coverageDays / float64(etaDays)

	var base float64
	switch {
	case ratio >= 2.0:
		base = 0.05
	case ratio >= 1.0:
		base = 0.15
	case ratio >= 0.5:
		base = 0.45
	default:
		base = 0.80
	}

	lanePenalty := (1.0 - reliability) * 0.3
	riskPenalty := 0.0
	if maxSeverity > 0 {
		riskPenalty = float64(maxSeverity) / 10.0
		if riskPenalty > 0.5 {
			riskPenalty = 0.5
		}
	}

	risk := base + lanePenalty + riskPenalty
	if risk > 1.0 {
		risk = 1.0
	}
	return round2(risk)
}

// qualityRisk resolves a qualification level against the rule table,
// falling back to the contextual default for unknown levels.
func qualityRisk(qual models.QualificationLevel, fallback float64) float64 {
	if v, ok := models.QualityRiskByQualification[qual]; ok {
		return v
	}
	return fallback
}

// pickLane returns the first lane with the requested mode, or the fastest
// lane on record, or the documented default when nothing is on record.
func pickLane(lanes []models.TransportLane, mode models.TransportMode) models.TransportLane {
	for _, ln := range lanes {
		if ln.Mode == mode {
			return ln
		}
	}
	if len(lanes) > 0 {
		return lanes[0]
	}
	return defaultLane(mode)
}

func defaultLane(mode models.TransportMode) models.TransportLane {
	if mode == models.ModeAir {
		return models.DefaultAirLane
	}
	return models.DefaultOceanLane
}

// inventoryCoverage returns (available units, safety stock, coverage days)
// for a possibly-missing inventory position.
func inventoryCoverage(inv *models.InventoryPosition) (int, int, float64) {
	if inv == nil {
		return 0, 0, 0
	}
	avail := inv.Available()
	net := avail - inv.SafetyStock
	if net < 0 {
		net = 0
	}
	return avail, inv.SafetyStock, float64(net) / models.DefaultDailyConsumption
}

func maxSeverity(events []models.RiskEvent) int {
	max := 0
	for _, ev := range events {
		if ev.Severity > max {
			max = ev.Severity
		}
	}
	return max
}

// costDeltaPct is the percentage cost change of a scenario vs baseline,
// rounded to one decimal.
func costDeltaPct(cost, baseCost float64) float64 {
	if baseCost == 0 {
		return 0
	}
	return round1((cost - baseCost) / baseCost * 100)
}

func (s *simulationService) factoryFor(ctx context.Context, orderID string) (string, error) {
	factory, err := s.graph.OrderFactory(ctx, orderID)
	if err != nil {
		return "", err
	}
	if factory == nil {
		return s.cfg.DefaultFactoryID, nil
	}
	return factory.ID, nil
}

func (s *simulationService) SwitchSupplier(ctx context.Context, req SwitchSupplierRequest) (*models.SimulationResult, error) {
	fid, err := s.factoryFor(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	fromSID := req.FromSupplierID
	if fromSID == "" {
		fromSID, err = s.graph.CurrentSupplier(ctx, req.OrderID, req.PartID)
		if err != nil {
			return nil, err
		}
		if fromSID == "" {
			return nil, fmt.Errorf("no current supplier for %s on %s: %w",
				req.PartID, req.OrderID, apperrors.ErrNotFound)
		}
	}

	fromData, err := s.graph.SupplierPart(ctx, fromSID, req.PartID)
	if err != nil {
		return nil, err
	}
	toData, err := s.graph.SupplierPart(ctx, req.ToSupplierID, req.PartID)
	if err != nil {
		return nil, err
	}
	fromLanes, err := s.graph.Lanes(ctx, fromSID, fid)
	if err != nil {
		return nil, err
	}
	toLanes, err := s.graph.Lanes(ctx, req.ToSupplierID, fid)
	if err != nil {
		return nil, err
	}
	inv, err := s.graph.Inventory(ctx, req.PartID, fid)
	if err != nil {
		return nil, err
	}
	fromRisks, err := s.graph.RiskEvents(ctx, fromSID)
	if err != nil {
		return nil, err
	}
	toRisks, err := s.graph.RiskEvents(ctx, req.ToSupplierID)
	if err != nil {
		return nil, err
	}
	qcHold, err := s.graph.QualityHold(ctx, req.ToSupplierID, req.PartID)
	if err != nil {
		return nil, err
	}
	blast, err := s.graph.Neighborhood(ctx, req.OrderID, "", "")
	if err != nil {
		return nil, err
	}

	avail, safety, covDays := inventoryCoverage(inv)

	// Missing records degrade to documented defaults: the incumbent gets
	// optimistic assumptions, the unknown target conservative ones.
	fromLead, fromPrice := models.DefaultLeadTimeDays, models.DefaultUnitPrice
	fromQual := models.DefaultQualification
	fromName := fromSID
	if fromData != nil {
		fromLead, fromPrice = fromData.LeadTimeDays, fromData.LastPrice
		fromQual, fromName = fromData.Qualification, fromData.SupplierName
	}
	toLead, toPrice := models.DefaultTargetLeadTimeDays, models.DefaultTargetUnitPrice
	toQual := models.DefaultTargetQualification
	toName := req.ToSupplierID
	if toData != nil {
		toLead, toPrice = toData.LeadTimeDays, toData.LastPrice
		toQual, toName = toData.Qualification, toData.SupplierName
	}

	fromOcean := pickLane(fromLanes, models.ModeOcean)
	toOcean := pickLane(toLanes, models.ModeOcean)
	toAir := pickLane(toLanes, models.ModeAir)

	qcDays := 0
	if qcHold != nil {
		qcDays = qcHold.HoldDays
	}
	if toQual != models.QualificationFull && qcDays == 0 {
		qcDays = models.DefaultQCHoldDays
	}

	fromSev := maxSeverity(fromRisks)
	toSev := maxSeverity(toRisks)

	aETA := fromLead + fromOcean.TransitDays
	aCost := fromPrice + fromOcean.Cost
	bETA := toLead + toOcean.TransitDays + qcDays
	bCost := toPrice + toOcean.Cost
	cETA := toLead + toAir.TransitDays + qcDays
	cCost := toPrice + toAir.Cost

	recertNote := ""
	if toQual != models.QualificationFull {
		recertNote = " -> re-certification required"
	}

	scenarios := []models.Scenario{
		{
			Label:        "A",
			Description:  fmt.Sprintf("Keep %s (Ocean)", fromName),
			LineStopRisk: lineStopRisk(covDays, aETA, fromOcean.Reliability, fromSev),
			QualityRisk:  qualityRisk(fromQual, 0.05),
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Ocean %dd = %dd", fromLead, fromOcean.TransitDays, aETA),
				fmt.Sprintf("Unit $%.2f + ship $%.2f", fromPrice, fromOcean.Cost),
				fmt.Sprintf("Qualification: %s", fromQual),
			},
		},
		{
			Label:        "B",
			Description:  fmt.Sprintf("Switch to %s (Ocean)", toName),
			ETADeltaDays: bETA - aETA,
			CostDeltaPct: costDeltaPct(bCost, aCost),
			LineStopRisk: lineStopRisk(covDays, bETA, toOcean.Reliability, toSev),
			QualityRisk:  qualityRisk(toQual, 0.25),
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Ocean %dd + QC %dd = %dd", toLead, toOcean.TransitDays, qcDays, bETA),
				fmt.Sprintf("Unit $%.2f + ship $%.2f", toPrice, toOcean.Cost),
				fmt.Sprintf("Qualification: %s%s", toQual, recertNote),
			},
		},
		{
			Label:        "C",
			Description:  fmt.Sprintf("Switch to %s (Air expedite)", toName),
			ETADeltaDays: cETA - aETA,
			CostDeltaPct: costDeltaPct(cCost, aCost),
			LineStopRisk: lineStopRisk(covDays, cETA, toAir.Reliability, toSev),
			QualityRisk:  qualityRisk(toQual, 0.25),
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Air %dd + QC %dd = %dd", toLead, toAir.TransitDays, qcDays, cETA),
				fmt.Sprintf("Unit $%.2f + ship $%.2f (expedite)", toPrice, toAir.Cost),
				fmt.Sprintf("Qualification: %s%s", toQual, recertNote),
			},
		},
	}

	assumptions := []string{
		fmt.Sprintf("Inventory: %d available, %d safety stock, ~%.0fd coverage", avail, safety, covDays),
		fmt.Sprintf("Daily consumption: ~%.0f units/day (est.)", models.DefaultDailyConsumption),
	}
	if fromSev > 0 {
		assumptions = append(assumptions,
			fmt.Sprintf("Current supplier has active risk (max severity %d)", fromSev))
	}
	if toQual != models.QualificationFull {
		assumptions = append(assumptions,
			fmt.Sprintf("Target supplier qualification=%s, QC hold=%dd", toQual, qcDays))
	}

	return &models.SimulationResult{
		Scenarios:   scenarios,
		Recommended: recommendScenario(scenarios, req.Objective),
		BlastRadius: *blast,
		Assumptions: assumptions,
	}, nil
}

func (s *simulationService) ChangeLane(ctx context.Context, req ChangeLaneRequest) (*models.SimulationResult, error) {
	fid, err := s.factoryFor(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	spData, err := s.graph.SupplierPart(ctx, req.SupplierID, req.PartID)
	if err != nil {
		return nil, err
	}
	lanes, err := s.graph.Lanes(ctx, req.SupplierID, fid)
	if err != nil {
		return nil, err
	}
	inv, err := s.graph.Inventory(ctx, req.PartID, fid)
	if err != nil {
		return nil, err
	}
	risks, err := s.graph.RiskEvents(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	blast, err := s.graph.Neighborhood(ctx, req.OrderID, "", "")
	if err != nil {
		return nil, err
	}

	lead, price := models.DefaultLeadTimeDays, models.DefaultUnitPrice
	qual := models.DefaultQualification
	name := req.SupplierID
	if spData != nil {
		lead, price = spData.LeadTimeDays, spData.LastPrice
		qual, name = spData.Qualification, spData.SupplierName
	}

	sev := maxSeverity(risks)
	qRisk := qualityRisk(qual, 0.05)
	_, _, covDays := inventoryCoverage(inv)

	ocean := pickLane(lanes, models.ModeOcean)
	air := pickLane(lanes, models.ModeAir)

	aETA := lead + ocean.TransitDays
	aCost := price + ocean.Cost
	bETA := lead + air.TransitDays
	bCost := price + air.Cost
	// Multi-modal blend: 60/40 on time, 50/50 on cost.
	blendDays := int(float64(ocean.TransitDays)*0.6 + float64(air.TransitDays)*0.4)
	blendShip := ocean.Cost*0.5 + air.Cost*0.5
	cETA := lead + blendDays
	cCost := price + blendShip

	scenarios := []models.Scenario{
		{
			Label:        "A",
			Description:  fmt.Sprintf("%s Ocean (current)", name),
			LineStopRisk: lineStopRisk(covDays, aETA, ocean.Reliability, sev),
			QualityRisk:  qRisk,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Ocean %dd = %dd", lead, ocean.TransitDays, aETA),
				fmt.Sprintf("$%.2f + ship $%.2f", price, ocean.Cost),
			},
		},
		{
			Label:        "B",
			Description:  fmt.Sprintf("%s Air", name),
			ETADeltaDays: bETA - aETA,
			CostDeltaPct: costDeltaPct(bCost, aCost),
			LineStopRisk: lineStopRisk(covDays, bETA, air.Reliability, sev),
			QualityRisk:  qRisk,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Air %dd = %dd", lead, air.TransitDays, bETA),
				fmt.Sprintf("$%.2f + ship $%.2f (expedite)", price, air.Cost),
			},
		},
		{
			Label:        "C",
			Description:  fmt.Sprintf("%s Multi-modal (Ocean+Air)", name),
			ETADeltaDays: cETA - aETA,
			CostDeltaPct: costDeltaPct(cCost, aCost),
			LineStopRisk: lineStopRisk(covDays, cETA, (ocean.Reliability+air.Reliability)/2, sev),
			QualityRisk:  qRisk,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + blended %dd = %dd", lead, blendDays, cETA),
				fmt.Sprintf("$%.2f + blended ship $%.2f", price, blendShip),
			},
		},
	}

	return &models.SimulationResult{
		Scenarios:   scenarios,
		Recommended: recommendScenario(scenarios, req.Objective),
		BlastRadius: *blast,
		Assumptions: []string{
			fmt.Sprintf("Inventory: ~%.0fd coverage", covDays),
			fmt.Sprintf("Supplier: %s, qual=%s", name, qual),
		},
	}, nil
}

func (s *simulationService) TransferFactory(ctx context.Context, req TransferFactoryRequest) (*models.SimulationResult, error) {
	fromFID := req.FromFactoryID
	if fromFID == "" {
		var err error
		fromFID, err = s.factoryFor(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}
	}

	supply, err := s.graph.PrimarySupplyLine(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		supply = &models.SupplyLine{
			LeadTimeDays:  models.DefaultLeadTimeDays,
			LastPrice:     models.DefaultUnitPrice,
			Qualification: models.DefaultQualification,
		}
	}

	fromLanes, err := s.graph.Lanes(ctx, supply.SupplierID, fromFID)
	if err != nil {
		return nil, err
	}
	toLanes, err := s.graph.Lanes(ctx, supply.SupplierID, req.ToFactoryID)
	if err != nil {
		return nil, err
	}
	fromInv, err := s.graph.Inventory(ctx, supply.PartID, fromFID)
	if err != nil {
		return nil, err
	}
	toInv, err := s.graph.Inventory(ctx, supply.PartID, req.ToFactoryID)
	if err != nil {
		return nil, err
	}
	risks, err := s.graph.RiskEvents(ctx, supply.SupplierID)
	if err != nil {
		return nil, err
	}
	blast, err := s.graph.Neighborhood(ctx, req.OrderID, "", "")
	if err != nil {
		return nil, err
	}

	sev := maxSeverity(risks)
	qRisk := qualityRisk(supply.Qualification, 0.05)

	fromOcean := pickLane(fromLanes, models.ModeOcean)
	fromAvail, _, fromCov := inventoryCoverage(fromInv)
	toOcean := pickLane(toLanes, models.ModeOcean)
	toAir := pickLane(toLanes, models.ModeAir)
	toAvail, _, toCov := inventoryCoverage(toInv)

	lead, price := supply.LeadTimeDays, supply.LastPrice

	aETA := lead + fromOcean.TransitDays
	aCost := price + fromOcean.Cost
	bETA := lead + toOcean.TransitDays + models.TransferRampUpDays
	bCost := price + toOcean.Cost + models.TransferOverheadCost
	cETA := lead + toAir.TransitDays + models.TransferRampUpDays
	cCost := price + toAir.Cost + models.TransferOverheadCost

	scenarios := []models.Scenario{
		{
			Label:        "A",
			Description:  fmt.Sprintf("Keep at %s (current)", fromFID),
			LineStopRisk: lineStopRisk(fromCov, aETA, fromOcean.Reliability, sev),
			QualityRisk:  qRisk,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Ocean %dd = %dd at %s", lead, fromOcean.TransitDays, aETA, fromFID),
				fmt.Sprintf("Inv: %d units at %s", fromAvail, fromFID),
			},
		},
		{
			Label:        "B",
			Description:  fmt.Sprintf("Transfer to %s (Ocean)", req.ToFactoryID),
			ETADeltaDays: bETA - aETA,
			CostDeltaPct: costDeltaPct(bCost, aCost),
			LineStopRisk: lineStopRisk(toCov, bETA, toOcean.Reliability, sev),
			QualityRisk:  qRisk + models.TransferQualityRiskBump,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Ocean %dd + ramp-up %dd = %dd",
					lead, toOcean.TransitDays, models.TransferRampUpDays, bETA),
				fmt.Sprintf("Inv: %d units at %s", toAvail, req.ToFactoryID),
				fmt.Sprintf("+$%.2f transfer overhead", models.TransferOverheadCost),
			},
		},
		{
			Label:        "C",
			Description:  fmt.Sprintf("Transfer to %s (Air expedite)", req.ToFactoryID),
			ETADeltaDays: cETA - aETA,
			CostDeltaPct: costDeltaPct(cCost, aCost),
			LineStopRisk: lineStopRisk(toCov, cETA, toAir.Reliability, sev),
			QualityRisk:  qRisk + models.TransferQualityRiskBump,
			Assumptions: []string{
				fmt.Sprintf("Lead %dd + Air %dd + ramp-up %dd = %dd",
					lead, toAir.TransitDays, models.TransferRampUpDays, cETA),
				fmt.Sprintf("Inv: %d units at %s", toAvail, req.ToFactoryID),
				fmt.Sprintf("+$%.2f transfer overhead + expedite", models.TransferOverheadCost),
			},
		},
	}

	return &models.SimulationResult{
		Scenarios:   scenarios,
		Recommended: recommendScenario(scenarios, req.Objective),
		BlastRadius: *blast,
		Assumptions: []string{
			fmt.Sprintf("From %s, To %s", fromFID, req.ToFactoryID),
			fmt.Sprintf("Ramp-up %dd", models.TransferRampUpDays),
		},
	}, nil
}
