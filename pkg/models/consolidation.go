package models

import "time"

// AllocationPolicy orders demand lines before greedy allocation.
type AllocationPolicy string

const (
	// PolicyPriority sorts by (priority asc, need-by asc).
	PolicyPriority AllocationPolicy = "priority"
	// PolicyEarliestDue sorts by need-by date alone.
	PolicyEarliestDue AllocationPolicy = "earliest_due"
	// PolicyRiskMin is a deliberate alias of PolicyPriority in the current
	// rule set.
	PolicyRiskMin AllocationPolicy = "risk_min"
)

// AllocationItem assigns part of the consolidated quantity to one order.
type AllocationItem struct {
	OrderID    string    `json:"orderId"`
	Qty        int       `json:"qty"`
	NeedByDate time.Time `json:"needByDate"`
	Priority   int       `json:"priority"`
}

// ConsolidationPlan is one MOQ-compliant purchase covering near-term demand
// for a part, with a per-order allocation plan.
type ConsolidationPlan struct {
	PartID          string           `json:"partId"`
	TotalDemand     int              `json:"totalDemand"`
	ConsolidatedQty int              `json:"consolidatedQty"`
	SupplierID      string           `json:"supplierId"`
	SupplierName    string           `json:"supplierName"`
	MOQ             int              `json:"moq"`
	UnitPrice       float64          `json:"unitPrice"`
	Allocations     []AllocationItem `json:"allocations"`
	Explanation     string           `json:"explanation"`
}
