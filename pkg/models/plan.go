package models

// Intent is the classified purpose of a free-text question.
type Intent string

const (
	IntentRFQ              Intent = "RFQ"
	IntentSingleSource     Intent = "SINGLE_SOURCE"
	IntentConsolidatePO    Intent = "CONSOLIDATE_PO"
	IntentCreatePO         Intent = "CREATE_PO"
	IntentExpediteShipment Intent = "EXPEDITE_SHIPMENT"
	IntentSwitchSupplier   Intent = "SWITCH_SUPPLIER"
	IntentAnalyzeRisk      Intent = "ANALYZE_RISK"
	IntentUnknown          Intent = "UNKNOWN"
)

// PlanStep is one step of a multi-role workflow plan.
type PlanStep struct {
	Step        int    `json:"step"`
	Role        string `json:"role"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Plan is the classified intent plus the ordered step list.
type Plan struct {
	Intent Intent     `json:"intent"`
	Steps  []PlanStep `json:"steps"`
}
