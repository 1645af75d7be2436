package repositories

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/controltower/decision-engine/pkg/models"
)

// GraphRepository answers topology queries against the supply-chain graph:
// SUPPLIES/REQUIRES/PRODUCES/AFFECTS relationships, transport lanes,
// inventory lots, risk events, and quality holds.
type GraphRepository interface {
	// SupplierPart returns SUPPLIES edge attributes between a supplier and
	// a part, or nil when the relationship does not exist.
	SupplierPart(ctx context.Context, supplierID, partID string) (*models.SupplierPart, error)
	// Lanes returns all transport lanes between a supplier and a factory,
	// ordered by transit time.
	Lanes(ctx context.Context, supplierID, factoryID string) ([]models.TransportLane, error)
	// Inventory aggregates lots of a part across locations matching the
	// prefix, or nil when no lots match.
	Inventory(ctx context.Context, partID, locationPrefix string) (*models.InventoryPosition, error)
	// RiskEvents returns open risk events affecting a supplier.
	RiskEvents(ctx context.Context, supplierID string) ([]models.RiskEvent, error)
	// QualityHold returns the hold for a supplier+part pair, or nil.
	QualityHold(ctx context.Context, supplierID, partID string) (*models.QualityHold, error)
	// OrderFactory returns the factory producing the order's product, or
	// nil when the order has no producing factory on record.
	OrderFactory(ctx context.Context, orderID string) (*models.Factory, error)
	// OrderContext returns an order's status and its required parts with
	// per-part supplier counts, or nil when the order does not exist.
	OrderContext(ctx context.Context, orderID string) (*models.OrderContext, error)
	// CurrentSupplier returns the top-priority supplier currently sourcing
	// a part for an order, or "" when none exists.
	CurrentSupplier(ctx context.Context, orderID, partID string) (string, error)
	// PrimarySupplyLine returns the order's top-priority (part, supplier)
	// supply relationship, or nil.
	PrimarySupplyLine(ctx context.Context, orderID string) (*models.SupplyLine, error)
	// Neighborhood collects the one-hop blast radius around exactly one
	// anchor (order, supplier, or part).
	Neighborhood(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error)
}

type graphRepository struct {
	driver neo4j.DriverWithContext
}

func NewGraphRepository(driver neo4j.DriverWithContext) GraphRepository {
	return &graphRepository{driver: driver}
}

var _ GraphRepository = (*graphRepository)(nil)

// readRecords runs a read-mode cypher query and returns all records.
func (r *graphRepository) readRecords(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	return records.([]*neo4j.Record), nil
}

func (r *graphRepository) SupplierPart(ctx context.Context, supplierID, partID string) (*models.SupplierPart, error) {
	records, err := r.readRecords(ctx, `
		MATCH (s:Supplier {id: $sid})-[rel:SUPPLIES]->(p:Part {id: $pid})
		RETURN s.id AS supplierId, s.name AS supplierName,
		       rel.leadTimeDays AS leadTimeDays, rel.moq AS moq,
		       rel.capacity AS capacity, rel.lastPrice AS lastPrice,
		       rel.qualificationLevel AS qualificationLevel`,
		map[string]any{"sid": supplierID, "pid": partID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	sp := &models.SupplierPart{
		SupplierID:      recString(rec, "supplierId"),
		SupplierName:    recString(rec, "supplierName"),
		LeadTimeDays:    recInt(rec, "leadTimeDays"),
		MOQ:             recInt(rec, "moq"),
		CapacityPerWeek: recInt(rec, "capacity"),
		LastPrice:       recFloat(rec, "lastPrice"),
		Qualification:   models.QualificationLevel(recString(rec, "qualificationLevel")),
	}
	return sp, nil
}

func (r *graphRepository) Lanes(ctx context.Context, supplierID, factoryID string) ([]models.TransportLane, error) {
	records, err := r.readRecords(ctx, `
		MATCH (tl:TransportLane)
		WHERE tl.fromNode = $sid AND tl.toNode = $fid
		RETURN tl.mode AS mode, tl.timeDays AS timeDays,
		       tl.cost AS cost, tl.reliability AS reliability
		ORDER BY tl.timeDays`,
		map[string]any{"sid": supplierID, "fid": factoryID})
	if err != nil {
		return nil, err
	}

	var lanes []models.TransportLane
	for _, rec := range records {
		lanes = append(lanes, models.TransportLane{
			Mode:        models.TransportMode(recString(rec, "mode")),
			TransitDays: recInt(rec, "timeDays"),
			Cost:        recFloat(rec, "cost"),
			Reliability: recFloat(rec, "reliability"),
		})
	}
	return lanes, nil
}

func (r *graphRepository) Inventory(ctx context.Context, partID, locationPrefix string) (*models.InventoryPosition, error) {
	records, err := r.readRecords(ctx, `
		MATCH (inv:InventoryLot)-[:STORES]->(p:Part {id: $pid})
		WHERE inv.location STARTS WITH $prefix
		RETURN sum(inv.onHand) AS onHand,
		       sum(inv.reserved) AS reserved,
		       max(inv.safetyStock) AS safetyStock`,
		map[string]any{"pid": partID, "prefix": locationPrefix})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	if v, ok := rec.Get("onHand"); !ok || v == nil {
		return nil, nil
	}
	return &models.InventoryPosition{
		OnHand:      recInt(rec, "onHand"),
		Reserved:    recInt(rec, "reserved"),
		SafetyStock: recInt(rec, "safetyStock"),
	}, nil
}

func (r *graphRepository) RiskEvents(ctx context.Context, supplierID string) ([]models.RiskEvent, error) {
	records, err := r.readRecords(ctx, `
		MATCH (re:RiskEvent)-[:AFFECTS]->(s:Supplier {id: $sid})
		RETURN re.id AS id, re.type AS type, re.severity AS severity`,
		map[string]any{"sid": supplierID})
	if err != nil {
		return nil, err
	}

	var events []models.RiskEvent
	for _, rec := range records {
		events = append(events, models.RiskEvent{
			ID:       recString(rec, "id"),
			Type:     recString(rec, "type"),
			Severity: recInt(rec, "severity"),
		})
	}
	return events, nil
}

func (r *graphRepository) QualityHold(ctx context.Context, supplierID, partID string) (*models.QualityHold, error) {
	records, err := r.readRecords(ctx, `
		MATCH (qh:QualityHold)
		WHERE qh.supplierId = $sid AND qh.partId = $pid
		RETURN qh.holdDays AS holdDays, qh.reason AS reason`,
		map[string]any{"sid": supplierID, "pid": partID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &models.QualityHold{
		HoldDays: recInt(records[0], "holdDays"),
		Reason:   recString(records[0], "reason"),
	}, nil
}

func (r *graphRepository) OrderFactory(ctx context.Context, orderID string) (*models.Factory, error) {
	records, err := r.readRecords(ctx, `
		MATCH (o:Order {id: $oid})-[:PRODUCES]->(pr:Product)<-[:PRODUCES]-(f:Factory)
		RETURN f.id AS factoryId, f.name AS factoryName
		LIMIT 1`,
		map[string]any{"oid": orderID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &models.Factory{
		ID:   recString(records[0], "factoryId"),
		Name: recString(records[0], "factoryName"),
	}, nil
}

func (r *graphRepository) OrderContext(ctx context.Context, orderID string) (*models.OrderContext, error) {
	records, err := r.readRecords(ctx, `
		MATCH (o:Order {id: $oid})
		OPTIONAL MATCH (o)-[:REQUIRES]->(p:Part)
		OPTIONAL MATCH (p)<-[:SUPPLIES]-(s:Supplier)
		RETURN o.status AS status, p.id AS partId, p.name AS partName,
		       count(DISTINCT s) AS supplierCount`,
		map[string]any{"oid": orderID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	oc := &models.OrderContext{
		OrderID: orderID,
		Status:  recString(records[0], "status"),
	}
	for _, rec := range records {
		partID := recString(rec, "partId")
		if partID == "" {
			continue
		}
		oc.Parts = append(oc.Parts, models.OrderPart{
			PartID:        partID,
			PartName:      recString(rec, "partName"),
			SupplierCount: recInt(rec, "supplierCount"),
		})
	}
	return oc, nil
}

func (r *graphRepository) CurrentSupplier(ctx context.Context, orderID, partID string) (string, error) {
	records, err := r.readRecords(ctx, `
		MATCH (o:Order {id: $oid})-[:REQUIRES]->(p:Part {id: $pid})<-[rel:SUPPLIES]-(s:Supplier)
		RETURN s.id AS sid ORDER BY rel.priority LIMIT 1`,
		map[string]any{"oid": orderID, "pid": partID})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	return recString(records[0], "sid"), nil
}

func (r *graphRepository) PrimarySupplyLine(ctx context.Context, orderID string) (*models.SupplyLine, error) {
	records, err := r.readRecords(ctx, `
		MATCH (o:Order {id: $oid})-[:REQUIRES]->(p:Part)<-[rel:SUPPLIES]-(s:Supplier)
		RETURN p.id AS pid, s.id AS sid, rel.leadTimeDays AS lead,
		       rel.lastPrice AS price, rel.qualificationLevel AS qual
		ORDER BY rel.priority LIMIT 1`,
		map[string]any{"oid": orderID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	return &models.SupplyLine{
		PartID:        recString(rec, "pid"),
		SupplierID:    recString(rec, "sid"),
		LeadTimeDays:  recInt(rec, "lead"),
		LastPrice:     recFloat(rec, "price"),
		Qualification: models.QualificationLevel(recString(rec, "qual")),
	}, nil
}

func (r *graphRepository) Neighborhood(ctx context.Context, orderID, supplierID, partID string) (*models.BlastRadius, error) {
	var cypher string
	var params map[string]any

	switch {
	case orderID != "":
		cypher = `
			MATCH (o:Order {id: $id})-[:REQUIRES]->(p:Part)
			OPTIONAL MATCH (p)<-[:SUPPLIES]-(s:Supplier)
			OPTIONAL MATCH (p)<-[:REQUIRES]-(other:Order) WHERE other.id <> $id
			OPTIONAL MATCH (o)-[:PRODUCES]->(pr:Product)<-[:PRODUCES]-(f:Factory)
			RETURN collect(DISTINCT other {.id, .name}) AS orders,
			       collect(DISTINCT p {.id, .name})     AS parts,
			       collect(DISTINCT f {.id, .name})     AS factories,
			       collect(DISTINCT [o.id, 'REQUIRES', p.id]) +
			       collect(DISTINCT [s.id, 'SUPPLIES', p.id]) AS edges`
		params = map[string]any{"id": orderID}
	case supplierID != "":
		cypher = `
			MATCH (s:Supplier {id: $id})-[:SUPPLIES]->(p:Part)<-[:REQUIRES]-(o:Order)
			OPTIONAL MATCH (o)-[:PRODUCES]->(pr:Product)<-[:PRODUCES]-(f:Factory)
			RETURN collect(DISTINCT o {.id, .name}) AS orders,
			       collect(DISTINCT p {.id, .name}) AS parts,
			       collect(DISTINCT f {.id, .name}) AS factories,
			       collect(DISTINCT [s.id, 'SUPPLIES', p.id]) +
			       collect(DISTINCT [o.id, 'REQUIRES', p.id]) AS edges`
		params = map[string]any{"id": supplierID}
	case partID != "":
		cypher = `
			MATCH (p:Part {id: $id})<-[:REQUIRES]-(o:Order)
			OPTIONAL MATCH (p)<-[:SUPPLIES]-(s:Supplier)
			OPTIONAL MATCH (o)-[:PRODUCES]->(pr:Product)<-[:PRODUCES]-(f:Factory)
			RETURN collect(DISTINCT o {.id, .name}) AS orders,
			       collect(DISTINCT p {.id, .name}) AS parts,
			       collect(DISTINCT f {.id, .name}) AS factories,
			       collect(DISTINCT [o.id, 'REQUIRES', p.id]) +
			       collect(DISTINCT [s.id, 'SUPPLIES', p.id]) AS edges`
		params = map[string]any{"id": partID}
	default:
		return &models.BlastRadius{}, nil
	}

	records, err := r.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}

	radius := &models.BlastRadius{}
	if len(records) == 0 {
		return radius, nil
	}

	rec := records[0]
	radius.ImpactedOrders = collectItems(rec, "orders", "Order")
	radius.ImpactedParts = collectItems(rec, "parts", "Part")
	radius.ImpactedFactories = collectItems(rec, "factories", "Factory")
	radius.Paths = collectEdges(rec, "edges")
	return radius, nil
}

// collectItems converts a collected list of node maps into items, dropping
// nulls produced by OPTIONAL MATCH.
func collectItems(rec *neo4j.Record, key, itemType string) []models.BlastRadiusItem {
	var items []models.BlastRadiusItem
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return items
	}
	list, ok := raw.([]any)
	if !ok {
		return items
	}
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			name = id
		}
		items = append(items, models.BlastRadiusItem{ID: id, Name: name, Type: itemType})
	}
	return items
}

// collectEdges converts collected [from, relation, to] triples into edges,
// dropping triples with null endpoints.
func collectEdges(rec *neo4j.Record, key string) []models.BlastRadiusEdge {
	var edges []models.BlastRadiusEdge
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return edges
	}
	list, ok := raw.([]any)
	if !ok {
		return edges
	}
	for _, el := range list {
		triple, ok := el.([]any)
		if !ok || len(triple) != 3 || triple[0] == nil || triple[2] == nil {
			continue
		}
		edges = append(edges, models.BlastRadiusEdge{
			From:     fmt.Sprint(triple[0]),
			Relation: fmt.Sprint(triple[1]),
			To:       fmt.Sprint(triple[2]),
		})
	}
	return edges
}

// Neo4j returns numerics as int64/float64 depending on how they were
// written; these helpers normalize record values.

func recString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recInt(rec *neo4j.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func recFloat(rec *neo4j.Record, key string) float64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
