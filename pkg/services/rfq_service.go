package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/config"
	"github.com/controltower/decision-engine/pkg/models"
	"github.com/controltower/decision-engine/pkg/repositories"
)

// Fallbacks for supplier-part rows with unset MOQ or capacity.
const (
	fallbackMOQ            = 100
	fallbackWeeklyCapacity = 5000
)

// Penalties subtracted from the weighted total. Not normalized.
const (
	penaltyBelowMOQ      = -10
	penaltyOverCapacity  = -15
	penaltyPendingQual   = -8
	overCapacityMultiple = 2
	hardFailLeadMultiple = 1.5
	multiSourceRiskBonus = 5
)

// RFQRequest asks for a ranked supplier comparison for one part.
type RFQRequest struct {
	PartID    string
	FactoryID string
	Qty       int
	NeedBy    *time.Time
	Objective models.Objective
}

// RFQService ranks the suppliers of a part under an objective profile.
type RFQService interface {
	ScoreCandidates(ctx context.Context, req RFQRequest) (*models.RFQResult, error)
}

type rfqService struct {
	erp    repositories.ERPRepository
	cfg    config.EngineConfig
	logger *zap.Logger
}

func NewRFQService(erp repositories.ERPRepository, cfg config.EngineConfig, logger *zap.Logger) RFQService {
	return &rfqService{
		erp:    erp,
		cfg:    cfg,
		logger: logger.Named("rfq-service"),
	}
}

var _ RFQService = (*rfqService)(nil)

func (s *rfqService) ScoreCandidates(ctx context.Context, req RFQRequest) (*models.RFQResult, error) {
	if req.FactoryID == "" {
		req.FactoryID = s.cfg.DefaultFactoryID
	}
	if req.Qty <= 0 {
		req.Qty = 1000
	}
	if req.Objective == "" {
		req.Objective = models.ObjectiveBalanced
	}
	weights := models.WeightsFor(req.Objective)

	needBy := time.Now().AddDate(0, 0, s.cfg.DefaultNeedByDays)
	if req.NeedBy != nil {
		needBy = *req.NeedBy
	}
	daysAvailable := daysUntil(needBy)
	if daysAvailable < 1 {
		daysAvailable = 1
	}

	suppliers, err := s.erp.SuppliersForPart(ctx, req.PartID)
	if err != nil {
		s.logger.Error("Failed to fetch suppliers",
			zap.String("part_id", req.PartID),
			zap.Error(err))
		return nil, err
	}

	result := &models.RFQResult{
		PartID:     req.PartID,
		Qty:        req.Qty,
		Objective:  req.Objective,
		Candidates: []models.Candidate{},
	}
	if len(suppliers) == 0 {
		// A part with no registered suppliers yields an empty, non-error list.
		return result, nil
	}

	lanes := make(map[string]models.TransportLane, len(suppliers))
	for _, sp := range suppliers {
		lane, err := s.erp.BestLane(ctx, sp.SupplierID, req.FactoryID)
		if err != nil {
			return nil, err
		}
		if lane == nil {
			lanes[sp.SupplierID] = models.ScoringFallbackLane
			continue
		}
		lanes[sp.SupplierID] = *lane
	}

	quotes, err := s.erp.UnexpiredQuotes(ctx, req.PartID)
	if err != nil {
		return nil, err
	}
	// Quotes arrive sorted by price; keep the cheapest per supplier.
	quoteBySupplier := make(map[string]models.Quote)
	for _, q := range quotes {
		if _, ok := quoteBySupplier[q.SupplierID]; !ok {
			quoteBySupplier[q.SupplierID] = q
		}
	}

	qualifiedSources := 0
	for _, sp := range suppliers {
		if sp.Approved && sp.Qualification != models.QualificationDisqualified {
			qualifiedSources++
		}
	}

	unitCost := func(sp models.SupplierPart) float64 {
		price := sp.LastPrice
		if q, ok := quoteBySupplier[sp.SupplierID]; ok {
			price = q.Price
		}
		return price + lanes[sp.SupplierID].Cost
	}

	minCost := unitCost(suppliers[0])
	for _, sp := range suppliers[1:] {
		if c := unitCost(sp); c < minCost {
			minCost = c
		}
	}
	if minCost <= 0 {
		minCost = 1.0
	}

	for _, sp := range suppliers {
		result.Candidates = append(result.Candidates,
			s.scoreCandidate(sp, req, weights, lanes[sp.SupplierID],
				quoteBySupplier, needBy, daysAvailable, qualifiedSources, minCost))
	}

	// Every non-hard-fail candidate outranks every hard-fail candidate.
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]
		if a.HardFail != b.HardFail {
			return !a.HardFail
		}
		return a.TotalScore > b.TotalScore
	})
	for i := range result.Candidates {
		result.Candidates[i].Rank = i + 1
	}

	return result, nil
}

func (s *rfqService) scoreCandidate(
	sp models.SupplierPart,
	req RFQRequest,
	weights models.FactorWeights,
	lane models.TransportLane,
	quoteBySupplier map[string]models.Quote,
	needBy time.Time,
	daysAvailable int,
	qualifiedSources int,
	minCost float64,
) models.Candidate {
	var explanations, actions []string
	penalties := 0.0
	hardFail := false
	hardFailReason := ""

	moq := sp.MOQ
	if moq == 0 {
		moq = fallbackMOQ
	}
	capacity := sp.CapacityPerWeek
	if capacity == 0 {
		capacity = fallbackWeeklyCapacity
	}
	qual := sp.Qualification
	if qual == "" {
		qual = models.QualificationPending
	}

	unitPrice := sp.LastPrice
	priceSource := "catalog"
	if q, ok := quoteBySupplier[sp.SupplierID]; ok {
		unitPrice = q.Price
		priceSource = "quoted"
	}
	totalCost := unitPrice + lane.Cost
	totalDelivery := sp.LeadTimeDays + lane.TransitDays

	// Lead time factor.
	var leadScore float64
	if totalDelivery <= daysAvailable {
		margin := daysAvailable - totalDelivery
		leadScore = float64(60 + 2*margin)
		if leadScore > 100 {
			leadScore = 100
		}
	} else {
		overshoot := totalDelivery - daysAvailable
		leadScore = float64(50 - 5*overshoot)
		if leadScore < 0 {
			leadScore = 0
		}
	}
	explanations = append(explanations, fmt.Sprintf(
		"Lead: %dd production + %dd %s = %dd (need by %s, %dd margin)",
		sp.LeadTimeDays, lane.TransitDays, lane.Mode, totalDelivery,
		needBy.Format("2006-01-02"), daysAvailable-totalDelivery))

	if float64(totalDelivery) > float64(daysAvailable)*hardFailLeadMultiple {
		hardFail = true
		hardFailReason = fmt.Sprintf(
			"Cannot deliver in time: %dd vs %dd available", totalDelivery, daysAvailable)
	}

	// Cost factor, normalized against the cheapest candidate.
	var costScore float64
	if totalCost > 0 {
		costScore = round1(100 * minCost / totalCost)
	}
	costDeltaPct := (totalCost - minCost) / minCost * 100
	sign := ""
	if totalCost > minCost {
		sign = "+"
	}
	explanations = append(explanations, fmt.Sprintf(
		"Cost: $%.2f/unit (%s) + $%.2f shipping = $%.2f/unit (%s%.0f%% vs cheapest)",
		unitPrice, priceSource, lane.Cost, totalCost, sign, costDeltaPct))

	// Risk factor.
	riskBase, ok := models.QualificationRiskBase[qual]
	if !ok {
		riskBase = models.UnknownQualificationRiskBase
	}
	riskScore := riskBase
	if qualifiedSources >= 2 {
		riskScore += multiSourceRiskBonus
	}
	if riskScore > 100 {
		riskScore = 100
	}
	explanations = append(explanations, fmt.Sprintf(
		"Risk: qualification=%s (base %.0f), %s",
		qual, riskBase, countNoun(qualifiedSources, "qualified source")))

	if qual == models.QualificationDisqualified {
		hardFail = true
		hardFailReason = "Supplier is disqualified"
	}
	if !sp.Approved {
		hardFail = true
		hardFailReason = fmt.Sprintf("Supplier %s is not approved", sp.SupplierID)
	}

	// Lane factor.
	laneScore := round1(lane.Reliability * 100)
	explanations = append(explanations, fmt.Sprintf(
		"Lane: %s to %s, reliability %.0f%%, %dd",
		lane.Mode, req.FactoryID, lane.Reliability*100, lane.TransitDays))

	// Penalties.
	if req.Qty < moq {
		penalties += penaltyBelowMOQ
		explanations = append(explanations, fmt.Sprintf(
			"PENALTY: MOQ=%d, requested %d. Gap of %d units.", moq, req.Qty, moq-req.Qty))
		actions = append(actions, fmt.Sprintf(
			"Consider consolidating with other orders to meet MOQ of %d. Use consolidate-po for an allocation plan.", moq))
	}
	if req.Qty > capacity*overCapacityMultiple {
		penalties += penaltyOverCapacity
		explanations = append(explanations, fmt.Sprintf(
			"PENALTY: weekly capacity=%d, order qty=%d exceeds 2-week capacity", capacity, req.Qty))
		actions = append(actions, "Consider splitting order across multiple suppliers")
	}
	switch qual {
	case models.QualificationConditional:
		actions = append(actions, fmt.Sprintf("Accelerate full qualification for %s", sp.SupplierID))
	case models.QualificationPending:
		penalties += penaltyPendingQual
		actions = append(actions, fmt.Sprintf(
			"Supplier %s needs qualification, estimated 4-6 weeks to complete", sp.SupplierID))
	}

	totalScore := round2(leadScore*weights.Lead +
		costScore*weights.Cost +
		riskScore*weights.Risk +
		laneScore*weights.Lane +
		penalties)

	return models.Candidate{
		SupplierID:   sp.SupplierID,
		SupplierName: sp.SupplierName,
		TotalScore:   totalScore,
		Breakdown: models.CandidateBreakdown{
			Lead:      round2(leadScore * weights.Lead),
			Cost:      round2(costScore * weights.Cost),
			Risk:      round2(riskScore * weights.Risk),
			Lane:      round2(laneScore * weights.Lane),
			Penalties: penalties,
		},
		Explanations:       explanations,
		RecommendedActions: actions,
		HardFail:           hardFail,
		HardFailReason:     hardFailReason,
	}
}
