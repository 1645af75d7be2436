package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/controltower/decision-engine/pkg/database"
	"github.com/controltower/decision-engine/pkg/models"
)

// ERPRepository answers relational-facts queries for the decision
// components. All methods are read-only.
type ERPRepository interface {
	// SuppliersForPart returns every supplier-part row for a part joined
	// with the supplier master, ordered by (priority, last price).
	SuppliersForPart(ctx context.Context, partID string) ([]models.SupplierPart, error)
	// BestLane returns the lowest-transit lane between a supplier and a
	// factory, or nil when none is on record.
	BestLane(ctx context.Context, supplierID, factoryID string) (*models.TransportLane, error)
	// UnexpiredQuotes returns quotes for a part still valid today, sorted
	// by price ascending.
	UnexpiredQuotes(ctx context.Context, partID string) ([]models.Quote, error)
	// DemandWithinHorizon returns demand lines for a part with a need-by
	// date inside the horizon, ordered by (priority, need-by).
	DemandWithinHorizon(ctx context.Context, partID string, horizonDays int) ([]models.Demand, error)
	// InventorySummary sums on-hand/reserved (and max safety stock) across
	// all lots of a part, or nil when no lots exist.
	InventorySummary(ctx context.Context, partID string) (*models.InventoryPosition, error)
	// SingleSourceParts returns parts whose qualified+approved supplier
	// count is at or below the threshold, ordered by (count, part id).
	SingleSourceParts(ctx context.Context, threshold int) ([]models.PartSupplierCount, error)
	// OrderCountForPart counts distinct orders with demand for a part.
	OrderCountForPart(ctx context.Context, partID string) (int, error)
}

type erpRepository struct {
	db *database.DB
}

func NewERPRepository(db *database.DB) ERPRepository {
	return &erpRepository{db: db}
}

var _ ERPRepository = (*erpRepository)(nil)

func (r *erpRepository) SuppliersForPart(ctx context.Context, partID string) ([]models.SupplierPart, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sp.supplier_id, s.name, s.approved,
		       sp.lead_time_days, sp.moq, sp.capacity_per_week,
		       sp.last_price, sp.qualification_level, sp.priority
		FROM supplier_parts sp
		JOIN suppliers s ON s.supplier_id = sp.supplier_id
		WHERE sp.part_id = $1
		ORDER BY sp.priority, sp.last_price`, partID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers for part %s: %w", partID, err)
	}
	defer rows.Close()

	var suppliers []models.SupplierPart
	for rows.Next() {
		var sp models.SupplierPart
		if err := rows.Scan(
			&sp.SupplierID, &sp.SupplierName, &sp.Approved,
			&sp.LeadTimeDays, &sp.MOQ, &sp.CapacityPerWeek,
			&sp.LastPrice, &sp.Qualification, &sp.Priority,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier part: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier parts: %w", err)
	}
	return suppliers, nil
}

func (r *erpRepository) BestLane(ctx context.Context, supplierID, factoryID string) (*models.TransportLane, error) {
	row := r.db.QueryRow(ctx, `
		SELECT mode, time_days, cost, reliability
		FROM transport_lanes
		WHERE supplier_id = $1 AND factory_id = $2
		ORDER BY time_days
		LIMIT 1`, supplierID, factoryID)

	var lane models.TransportLane
	err := row.Scan(&lane.Mode, &lane.TransitDays, &lane.Cost, &lane.Reliability)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lane %s->%s: %w", supplierID, factoryID, err)
	}
	return &lane, nil
}

func (r *erpRepository) UnexpiredQuotes(ctx context.Context, partID string) ([]models.Quote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT supplier_id, price, valid_to, incoterms
		FROM quotes
		WHERE part_id = $1 AND valid_to >= CURRENT_DATE
		ORDER BY price`, partID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes for part %s: %w", partID, err)
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.SupplierID, &q.Price, &q.ValidTo, &q.Incoterms); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}
	return quotes, nil
}

func (r *erpRepository) DemandWithinHorizon(ctx context.Context, partID string, horizonDays int) ([]models.Demand, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, qty, need_by_date, priority, factory_id
		FROM demand
		WHERE part_id = $1
		  AND need_by_date <= CURRENT_DATE + ($2 || ' days')::INTERVAL
		ORDER BY priority, need_by_date`, partID, fmt.Sprint(horizonDays))
	if err != nil {
		return nil, fmt.Errorf("failed to query demand for part %s: %w", partID, err)
	}
	defer rows.Close()

	var demands []models.Demand
	for rows.Next() {
		var d models.Demand
		if err := rows.Scan(&d.OrderID, &d.Qty, &d.NeedByDate, &d.Priority, &d.FactoryID); err != nil {
			return nil, fmt.Errorf("failed to scan demand: %w", err)
		}
		demands = append(demands, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating demand: %w", err)
	}
	return demands, nil
}

func (r *erpRepository) InventorySummary(ctx context.Context, partID string) (*models.InventoryPosition, error) {
	row := r.db.QueryRow(ctx, `
		SELECT SUM(on_hand), SUM(reserved), COALESCE(MAX(safety_stock), 0)
		FROM inventory_lots
		WHERE part_id = $1`, partID)

	var onHand, reserved *int
	var safety int
	if err := row.Scan(&onHand, &reserved, &safety); err != nil {
		return nil, fmt.Errorf("failed to sum inventory for part %s: %w", partID, err)
	}
	if onHand == nil {
		return nil, nil
	}
	pos := &models.InventoryPosition{OnHand: *onHand, SafetyStock: safety}
	if reserved != nil {
		pos.Reserved = *reserved
	}
	return pos, nil
}

func (r *erpRepository) SingleSourceParts(ctx context.Context, threshold int) ([]models.PartSupplierCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.part_id, p.name,
		       COUNT(DISTINCT CASE WHEN s.approved AND sp.qualification_level IN ('Full','Conditional')
		             THEN sp.supplier_id END) AS qualified_count,
		       COUNT(DISTINCT sp.supplier_id) AS total_count
		FROM parts p
		JOIN supplier_parts sp ON sp.part_id = p.part_id
		JOIN suppliers s ON s.supplier_id = sp.supplier_id
		GROUP BY p.part_id, p.name
		HAVING COUNT(DISTINCT CASE WHEN s.approved AND sp.qualification_level IN ('Full','Conditional')
		             THEN sp.supplier_id END) <= $1
		ORDER BY qualified_count, p.part_id`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query single-source parts: %w", err)
	}
	defer rows.Close()

	var parts []models.PartSupplierCount
	for rows.Next() {
		var pc models.PartSupplierCount
		if err := rows.Scan(&pc.PartID, &pc.PartName, &pc.QualifiedCount, &pc.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan part supplier count: %w", err)
		}
		parts = append(parts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating single-source parts: %w", err)
	}
	return parts, nil
}

func (r *erpRepository) OrderCountForPart(ctx context.Context, partID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT order_id) FROM demand WHERE part_id = $1`, partID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders for part %s: %w", partID, err)
	}
	return count, nil
}
