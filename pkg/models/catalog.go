package models

import "time"

// PartType classifies a part in the product structure.
type PartType string

const (
	PartTypeProduct   PartType = "PRODUCT"
	PartTypeAssembly  PartType = "ASSEMBLY"
	PartTypeComponent PartType = "COMPONENT"
)

// QualificationLevel is the certification state of a supplier for a part.
// It gates sourcing eligibility and sets the risk baseline.
type QualificationLevel string

const (
	QualificationFull         QualificationLevel = "Full"
	QualificationConditional  QualificationLevel = "Conditional"
	QualificationPending      QualificationLevel = "Pending"
	QualificationDisqualified QualificationLevel = "Disqualified"
)

// Qualified reports whether the level makes a supplier eligible as a
// sourcing choice (Full or Conditional).
func (q QualificationLevel) Qualified() bool {
	return q == QualificationFull || q == QualificationConditional
}

// TransportMode identifies a transport lane mode.
type TransportMode string

const (
	ModeOcean TransportMode = "Ocean"
	ModeAir   TransportMode = "Air"
	ModeTruck TransportMode = "Truck"
	ModeRail  TransportMode = "Rail"
)

// Part is immutable reference data for a purchasable or producible item.
type Part struct {
	ID   string   `json:"partId"`
	Name string   `json:"name"`
	Type PartType `json:"partType"`
}

// Supplier is a sourcing counterparty.
type Supplier struct {
	ID       string `json:"supplierId"`
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
}

// SupplierPart is the supplier-to-part relationship row, joined with the
// supplier master so decision components see one normalized fact.
type SupplierPart struct {
	SupplierID      string             `json:"supplierId"`
	SupplierName    string             `json:"supplierName"`
	Approved        bool               `json:"approved"`
	LeadTimeDays    int                `json:"leadTimeDays"`
	MOQ             int                `json:"moq"`
	CapacityPerWeek int                `json:"capacityPerWeek"`
	LastPrice       float64            `json:"lastPrice"`
	Qualification   QualificationLevel `json:"qualificationLevel"`
	Priority        int                `json:"priority"`
}

// Quote overrides the catalog price while unexpired.
type Quote struct {
	SupplierID string    `json:"supplierId"`
	Price      float64   `json:"price"`
	ValidTo    time.Time `json:"validTo"`
	Incoterms  string    `json:"incoterms"`
}

// TransportLane is a transport option between a supplier and a factory.
type TransportLane struct {
	Mode        TransportMode `json:"mode"`
	TransitDays int           `json:"timeDays"`
	Cost        float64       `json:"cost"`
	Reliability float64       `json:"reliability"`
}

// Demand is one order line requiring a part by a date.
type Demand struct {
	OrderID    string    `json:"orderId"`
	Qty        int       `json:"qty"`
	NeedByDate time.Time `json:"needByDate"`
	Priority   int       `json:"priority"`
	FactoryID  string    `json:"factoryId"`
}

// InventoryPosition is the aggregated stock position for a part at a
// factory or location prefix.
type InventoryPosition struct {
	OnHand      int `json:"onHand"`
	Reserved    int `json:"reserved"`
	SafetyStock int `json:"safetyStock"`
}

// Available returns on-hand net of reservations.
func (p InventoryPosition) Available() int {
	return p.OnHand - p.Reserved
}

// RiskEvent is an open risk affecting a supplier. Severity is an open
// integer scale (observed 1-10).
type RiskEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Severity int    `json:"severity"`
}

// QualityHold is extra qualification latency for a supplier+part pair
// before the first shipment is trusted.
type QualityHold struct {
	HoldDays int    `json:"holdDays"`
	Reason   string `json:"reason"`
}

// Factory is a production site.
type Factory struct {
	ID   string `json:"factoryId"`
	Name string `json:"name"`
}

// SupplyLine is the top-priority supply relationship feeding an order: the
// part it requires and the supplier currently sourcing it.
type SupplyLine struct {
	PartID        string             `json:"partId"`
	SupplierID    string             `json:"supplierId"`
	LeadTimeDays  int                `json:"leadTimeDays"`
	LastPrice     float64            `json:"lastPrice"`
	Qualification QualificationLevel `json:"qualificationLevel"`
}

// PartSupplierCount is one row of the single-source census: how many
// registered and qualified+approved suppliers a part has.
type PartSupplierCount struct {
	PartID         string `json:"partId"`
	PartName       string `json:"partName"`
	QualifiedCount int    `json:"qualifiedCount"`
	TotalCount     int    `json:"totalCount"`
}
