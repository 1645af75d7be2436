package models

// OrderPart is a part required by an order together with how many
// suppliers can source it.
type OrderPart struct {
	PartID        string
	PartName      string
	SupplierCount int
}

// OrderContext is an order's status and required parts as recorded in
// the supply-chain graph.
type OrderContext struct {
	OrderID string
	Status  string
	Parts   []OrderPart
}

// AnalysisReport is the analyst role's output: a human-readable summary,
// the metrics it was derived from, and the composed root cause.
type AnalysisReport struct {
	Summary   string         `json:"summary"`
	Metrics   map[string]any `json:"metrics"`
	RootCause string         `json:"rootCause"`
}
