package models

// Scenario is one evaluated branch of a what-if simulation. Label "A" is
// always the keep-current baseline; deltas are relative to it.
type Scenario struct {
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	ETADeltaDays int      `json:"eta_delta_days"`
	CostDeltaPct float64  `json:"cost_delta_pct"`
	LineStopRisk float64  `json:"line_stop_risk"`
	QualityRisk  float64  `json:"quality_risk"`
	Assumptions  []string `json:"assumptions"`
}

// SimulationResult is the comparative output of one intervention.
type SimulationResult struct {
	Scenarios   []Scenario  `json:"scenarios"`
	Recommended string      `json:"recommended"`
	BlastRadius BlastRadius `json:"blastRadius"`
	Assumptions []string    `json:"assumptions"`
}

// BlastRadiusItem is one entity reachable from the anchor.
type BlastRadiusItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// BlastRadiusEdge is a traversed (from, relation, to) triple, kept for
// rendering the impact path.
type BlastRadiusEdge struct {
	From     string `json:"from"`
	Relation string `json:"relation"`
	To       string `json:"to"`
}

// BlastRadius is the one-hop impact set of a change anchor.
type BlastRadius struct {
	ImpactedOrders    []BlastRadiusItem `json:"impactedOrders"`
	ImpactedParts     []BlastRadiusItem `json:"impactedParts"`
	ImpactedFactories []BlastRadiusItem `json:"impactedFactories"`
	Paths             []BlastRadiusEdge `json:"paths"`
}

// QualityRiskByQualification maps the target qualification level to its
// quality-risk score.
var QualityRiskByQualification = map[QualificationLevel]float64{
	QualificationFull:        0.05,
	QualificationConditional: 0.25,
	QualificationPending:     0.50,
}

// Fallback lanes used when no lane is on record between a supplier and a
// factory. The scorer uses a slower, pricier assumption than the simulator
// because an unrecorded lane is an unnegotiated one.
var (
	DefaultOceanLane    = TransportLane{Mode: ModeOcean, TransitDays: 14, Cost: 0.60, Reliability: 0.88}
	DefaultAirLane      = TransportLane{Mode: ModeAir, TransitDays: 3, Cost: 5.00, Reliability: 0.97}
	ScoringFallbackLane = TransportLane{Mode: ModeOcean, TransitDays: 21, Cost: 1.00, Reliability: 0.85}
)

// Simulation fallbacks for absent gateway records. Current-supplier gaps
// default optimistic (incumbent has history); target-supplier gaps default
// conservative (unknown counterparty).
const (
	// DefaultDailyConsumption is the fixed consumption estimate used for
	// inventory coverage. A deliberate simplification, not derived from
	// historical demand.
	DefaultDailyConsumption = 10.0

	DefaultQCHoldDays    = 5
	TransferRampUpDays   = 5
	TransferOverheadCost = 1.00

	DefaultLeadTimeDays = 14
	DefaultUnitPrice    = 10.0

	DefaultTargetLeadTimeDays = 10
	DefaultTargetUnitPrice    = 14.0
)

// Qualification assumed when a supplier-part record is missing entirely.
const (
	DefaultQualification       = QualificationFull
	DefaultTargetQualification = QualificationPending
)

// TransferQualityRiskBump is added to intervention scenarios of a factory
// transfer; a transfer always adds re-qualification exposure.
const TransferQualityRiskBump = 0.05
