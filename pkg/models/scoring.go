package models

// Objective names a sourcing objective profile. Each profile maps to fixed
// factor weights summing to 1.0.
type Objective string

const (
	ObjectiveDeliveryFirst   Objective = "delivery-first"
	ObjectiveCostFirst       Objective = "cost-first"
	ObjectiveResilienceFirst Objective = "resilience-first"
	ObjectiveBalanced        Objective = "balanced"
)

// FactorWeights are the per-factor weights of an objective profile.
type FactorWeights struct {
	Lead float64
	Cost float64
	Risk float64
	Lane float64
}

// ObjectiveWeights is the objective-to-weights rule table.
var ObjectiveWeights = map[Objective]FactorWeights{
	ObjectiveDeliveryFirst:   {Lead: 0.40, Cost: 0.15, Risk: 0.25, Lane: 0.20},
	ObjectiveCostFirst:       {Lead: 0.20, Cost: 0.40, Risk: 0.20, Lane: 0.20},
	ObjectiveResilienceFirst: {Lead: 0.15, Cost: 0.15, Risk: 0.50, Lane: 0.20},
	ObjectiveBalanced:        {Lead: 0.25, Cost: 0.25, Risk: 0.25, Lane: 0.25},
}

// WeightsFor resolves an objective to its weights, falling back to the
// balanced profile for unknown objectives.
func WeightsFor(objective Objective) FactorWeights {
	if w, ok := ObjectiveWeights[objective]; ok {
		return w
	}
	return ObjectiveWeights[ObjectiveBalanced]
}

// QualificationRiskBase maps qualification level to the risk-factor
// baseline used in candidate scoring.
var QualificationRiskBase = map[QualificationLevel]float64{
	QualificationFull:         90,
	QualificationConditional:  55,
	QualificationPending:      25,
	QualificationDisqualified: 0,
}

// UnknownQualificationRiskBase applies when a qualification level is not in
// the rule table.
const UnknownQualificationRiskBase = 30

// CandidateBreakdown carries the weighted per-factor contributions plus the
// unweighted penalty sum.
type CandidateBreakdown struct {
	Lead      float64 `json:"lead"`
	Cost      float64 `json:"cost"`
	Risk      float64 `json:"risk"`
	Lane      float64 `json:"lane"`
	Penalties float64 `json:"penalties"`
}

// Candidate is one scored supplier option for an RFQ.
type Candidate struct {
	Rank               int                `json:"rank"`
	SupplierID         string             `json:"supplierId"`
	SupplierName       string             `json:"supplierName"`
	TotalScore         float64            `json:"totalScore"`
	Breakdown          CandidateBreakdown `json:"breakdown"`
	Explanations       []string           `json:"explanations"`
	RecommendedActions []string           `json:"recommendedActions"`
	HardFail           bool               `json:"hardFail"`
	HardFailReason     string             `json:"hardFailReason,omitempty"`
}

// RFQResult is the ranked candidate list for a part.
type RFQResult struct {
	PartID     string      `json:"partId"`
	Qty        int         `json:"qty"`
	Objective  Objective   `json:"objective"`
	Candidates []Candidate `json:"candidates"`
}

// SingleSourceSupplier is a supplier row in a single-source report entry.
type SingleSourceSupplier struct {
	SupplierID    string             `json:"supplierId"`
	Name          string             `json:"name"`
	Qualification QualificationLevel `json:"qualification"`
	Approved      bool               `json:"approved"`
}

// SingleSourcePart is one part flagged by the single-source risk detector.
type SingleSourcePart struct {
	PartID          string                 `json:"partId"`
	PartName        string                 `json:"partName"`
	SupplierCount   int                    `json:"supplierCount"`
	Suppliers       []SingleSourceSupplier `json:"suppliers"`
	RiskExplanation string                 `json:"riskExplanation"`
	Recommendation  string                 `json:"recommendation"`
}

// SingleSourceReport is the full detector output.
type SingleSourceReport struct {
	Threshold int                `json:"threshold"`
	Parts     []SingleSourcePart `json:"parts"`
}
