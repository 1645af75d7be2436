package services

import (
	"context"
	"time"

	"github.com/controltower/decision-engine/pkg/models"
)

// mockERPRepository is a configurable mock for the sourcing service tests.
type mockERPRepository struct {
	suppliers   map[string][]models.SupplierPart
	lanes       map[string]*models.TransportLane // keyed supplierID
	quotes      []models.Quote
	demand      []models.Demand
	inventory   *models.InventoryPosition
	counts      []models.PartSupplierCount
	orderCounts map[string]int
	err         error
}

func (m *mockERPRepository) SuppliersForPart(ctx context.Context, partID string) ([]models.SupplierPart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.suppliers[partID], nil
}

func (m *mockERPRepository) BestLane(ctx context.Context, supplierID, factoryID string) (*models.TransportLane, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lanes[supplierID], nil
}

func (m *mockERPRepository) UnexpiredQuotes(ctx context.Context, partID string) ([]models.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}

func (m *mockERPRepository) DemandWithinHorizon(ctx context.Context, partID string, horizonDays int) ([]models.Demand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.demand, nil
}

func (m *mockERPRepository) InventorySummary(ctx context.Context, partID string) (*models.InventoryPosition, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.inventory, nil
}

func (m *mockERPRepository) SingleSourceParts(ctx context.Context, threshold int) ([]models.PartSupplierCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counts, nil
}

func (m *mockERPRepository) OrderCountForPart(ctx context.Context, partID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.orderCounts[partID], nil
}

// laneKey identifies a supplier-factory pair in mock lane maps.
type laneKey struct {
	supplierID string
	factoryID  string
}

// mockGraphRepository is a configurable mock for the simulation tests.
type mockGraphRepository struct {
	supplierParts   map[string]*models.SupplierPart // keyed supplierID
	lanes           map[laneKey][]models.TransportLane
	inventory       map[string]*models.InventoryPosition // keyed partID
	riskEvents      map[string][]models.RiskEvent
	qualityHolds    map[string]*models.QualityHold // keyed supplierID
	factory         *models.Factory
	orderContext    *models.OrderContext
	currentSupplier string
	supplyLine      *models.SupplyLine
	radius          *models.BlastRadius
	err             error
}

func (m *mockGraphRepository) SupplierPart(ctx context.Context, supplierID, partID string) (*models.SupplierPart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.supplierParts[supplierID], nil
}

func (m *mockGraphRepository) Lanes(ctx context.Context, supplierID, factoryID string) ([]models.TransportLane, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lanes[laneKey{supplierID, factoryID}], nil
}

func (m *mockGraphRepository) Inventory(ctx context.Context, partID, locationPrefix string) (*models.InventoryPosition, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.inventory[partID], nil
}

func (m *mockGraphRepository) RiskEvents(ctx context.Context, supplierID string) ([]models.RiskEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.riskEvents[supplierID], nil
}

func (m *mockGraphRepository) QualityHold(ctx context.Context, supplierID, partID string) (*models.QualityHold, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.qualityHolds[supplierID], nil
}

func (m *mockGraphRepository) OrderFactory(ctx context.Context, orderID string) (*models.Factory, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.factory, nil
}

func (m *mockGraphRepository) OrderContext(ctx context.Context, orderID string) (*models.OrderContext, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orderContext, nil
}

func (m *mockGraphRepository) CurrentSupplier(ctx context.Context, orderID, partID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.currentSupplier, nil
}

func (m *mockGraphRepository) PrimarySupplyLine(ctx context.Context, orderID string) (*models.SupplyLine, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.supplyLine, nil
}

func (m *mockGraphRepository) Neighborhood(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.radius != nil {
		return m.radius, nil
	}
	return &models.BlastRadius{}, nil
}

// mockOrderRepository is a configurable mock for the action executor tests.
type mockOrderRepository struct {
	supplier   *models.Supplier
	supplies   bool
	poCount    int
	shipment   *models.Shipment
	newETA     time.Time
	createdPOs []string
	expedited  []string
	err        error
}

func (m *mockOrderRepository) GetSupplier(ctx context.Context, supplierID string) (*models.Supplier, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.supplier, nil
}

func (m *mockOrderRepository) SupplierSuppliesPart(ctx context.Context, supplierID, partID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.supplies, nil
}

func (m *mockOrderRepository) CountPurchaseOrders(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.poCount, nil
}

func (m *mockOrderRepository) CreatePurchaseOrder(ctx context.Context, poID, partID, supplierID string, qty int) error {
	if m.err != nil {
		return m.err
	}
	m.createdPOs = append(m.createdPOs, poID)
	return nil
}

func (m *mockOrderRepository) ShipmentForPO(ctx context.Context, poID string) (*models.Shipment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.shipment, nil
}

func (m *mockOrderRepository) ExpediteShipment(ctx context.Context, poID string, mode models.TransportMode) (time.Time, error) {
	if m.err != nil {
		return time.Time{}, m.err
	}
	m.expedited = append(m.expedited, poID)
	return m.newETA, nil
}

// mockAuditRepository records audit writes in memory.
type mockAuditRepository struct {
	events   []*models.AuditEvent
	requests []*models.ActionRequest
	err      error
}

func (m *mockAuditRepository) RecordEvent(ctx context.Context, event *models.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockAuditRepository) RecordActionRequest(ctx context.Context, request *models.ActionRequest) error {
	if m.err != nil {
		return m.err
	}
	m.requests = append(m.requests, request)
	return nil
}
