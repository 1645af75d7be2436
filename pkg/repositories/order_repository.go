package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/controltower/decision-engine/pkg/database"
	"github.com/controltower/decision-engine/pkg/models"
)

// OrderRepository covers the ERP write path used by the action executor:
// purchase orders and shipments. The decision core never touches it.
type OrderRepository interface {
	// GetSupplier returns the supplier master row, or nil when unknown.
	GetSupplier(ctx context.Context, supplierID string) (*models.Supplier, error)
	// SupplierSuppliesPart reports whether a supplier-part row exists.
	SupplierSuppliesPart(ctx context.Context, supplierID, partID string) (bool, error)
	// CountPurchaseOrders returns the total purchase-order count, used to
	// number agent-created POs.
	CountPurchaseOrders(ctx context.Context) (int, error)
	// CreatePurchaseOrder inserts an open PO with a default 14-day ETA.
	CreatePurchaseOrder(ctx context.Context, poID, partID, supplierID string, qty int) error
	// ShipmentForPO returns the shipment of a PO, or nil when none exists.
	ShipmentForPO(ctx context.Context, poID string) (*models.Shipment, error)
	// ExpediteShipment switches the shipment of a PO to the given mode with
	// a 3-day ETA and returns the new ETA.
	ExpediteShipment(ctx context.Context, poID string, mode models.TransportMode) (time.Time, error)
}

type orderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) OrderRepository {
	return &orderRepository{db: db}
}

var _ OrderRepository = (*orderRepository)(nil)

func (r *orderRepository) GetSupplier(ctx context.Context, supplierID string) (*models.Supplier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT supplier_id, name, approved FROM suppliers WHERE supplier_id = $1`, supplierID)

	var s models.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Approved); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier %s: %w", supplierID, err)
	}
	return &s, nil
}

func (r *orderRepository) SupplierSuppliesPart(ctx context.Context, supplierID, partID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM supplier_parts WHERE supplier_id = $1 AND part_id = $2)`,
		supplierID, partID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check supplier part: %w", err)
	}
	return exists, nil
}

func (r *orderRepository) CountPurchaseOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CreatePurchaseOrder(ctx context.Context, poID, partID, supplierID string, qty int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchase_orders (po_id, part_id, supplier_id, qty, status, eta, updated_at)
		VALUES ($1, $2, $3, $4, 'Open', CURRENT_DATE + INTERVAL '14 days', now())`,
		poID, partID, supplierID, qty)
	if err != nil {
		return fmt.Errorf("failed to create purchase order %s: %w", poID, err)
	}
	return nil
}

func (r *orderRepository) ShipmentForPO(ctx context.Context, poID string) (*models.Shipment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT shipment_id, po_id, mode, status, eta FROM shipments WHERE po_id = $1`, poID)

	var sh models.Shipment
	if err := row.Scan(&sh.ShipmentID, &sh.POID, &sh.Mode, &sh.Status, &sh.ETA); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shipment for PO %s: %w", poID, err)
	}
	return &sh, nil
}

func (r *orderRepository) ExpediteShipment(ctx context.Context, poID string, mode models.TransportMode) (time.Time, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE shipments
		SET mode = $2,
		    eta = CURRENT_DATE + INTERVAL '3 days',
		    updated_at = now()
		WHERE po_id = $1
		RETURNING eta`, poID, mode)

	var eta time.Time
	if err := row.Scan(&eta); err != nil {
		return time.Time{}, fmt.Errorf("failed to expedite shipment for PO %s: %w", poID, err)
	}
	return eta, nil
}
