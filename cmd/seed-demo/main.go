// seed-demo loads a demo scenario file into the ERP database and the
// supply-chain graph so the engine has something to decide about.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"gopkg.in/yaml.v3"

	"github.com/controltower/decision-engine/pkg/config"
	"github.com/controltower/decision-engine/pkg/database"
)

// SeedData is the on-disk scenario format. Dates are day offsets from the
// load time so the scenario stays fresh no matter when it is seeded.
type SeedData struct {
	Suppliers []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Approved bool   `yaml:"approved"`
	} `yaml:"suppliers"`
	Parts []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"parts"`
	Factories []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"factories"`
	SupplierParts []struct {
		SupplierID    string  `yaml:"supplier"`
		PartID        string  `yaml:"part"`
		Priority      int     `yaml:"priority"`
		LeadTimeDays  int     `yaml:"leadTimeDays"`
		MOQ           int     `yaml:"moq"`
		Capacity      int     `yaml:"capacityPerWeek"`
		LastPrice     float64 `yaml:"lastPrice"`
		Qualification string  `yaml:"qualification"`
	} `yaml:"supplierParts"`
	Quotes []struct {
		ID         string  `yaml:"id"`
		PartID     string  `yaml:"part"`
		SupplierID string  `yaml:"supplier"`
		Price      float64 `yaml:"price"`
		ValidDays  int     `yaml:"validDays"`
		Incoterms  string  `yaml:"incoterms"`
	} `yaml:"quotes"`
	Lanes []struct {
		ID          string  `yaml:"id"`
		SupplierID  string  `yaml:"supplier"`
		FactoryID   string  `yaml:"factory"`
		Mode        string  `yaml:"mode"`
		TimeDays    int     `yaml:"timeDays"`
		Cost        float64 `yaml:"cost"`
		Reliability float64 `yaml:"reliability"`
	} `yaml:"lanes"`
	Demand []struct {
		OrderID   string `yaml:"order"`
		PartID    string `yaml:"part"`
		Qty       int    `yaml:"qty"`
		NeedByIn  int    `yaml:"needByInDays"`
		Priority  int    `yaml:"priority"`
		FactoryID string `yaml:"factory"`
	} `yaml:"demand"`
	Inventory []struct {
		LotID       string `yaml:"lot"`
		PartID      string `yaml:"part"`
		OnHand      int    `yaml:"onHand"`
		Reserved    int    `yaml:"reserved"`
		SafetyStock int    `yaml:"safetyStock"`
		Location    string `yaml:"location"`
	} `yaml:"inventory"`
	Orders []struct {
		ID        string   `yaml:"id"`
		ProductID string   `yaml:"product"`
		FactoryID string   `yaml:"factory"`
		Status    string   `yaml:"status"`
		Requires  []string `yaml:"requires"`
	} `yaml:"orders"`
	RiskEvents []struct {
		ID         string `yaml:"id"`
		SupplierID string `yaml:"supplier"`
		Type       string `yaml:"type"`
		Severity   int    `yaml:"severity"`
	} `yaml:"riskEvents"`
	QualityHolds []struct {
		SupplierID string `yaml:"supplier"`
		PartID     string `yaml:"part"`
		HoldDays   int    `yaml:"holdDays"`
	} `yaml:"qualityHolds"`
}

func main() {
	scenarioPath := flag.String("scenario", "cmd/seed-demo/scenarios.yaml", "scenario file to load")
	flag.Parse()

	raw, err := os.ReadFile(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to read scenario file: %v", err)
	}
	var seed SeedData
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("Failed to parse scenario file: %v", err)
	}

	cfg, err := config.Load("seed")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{URL: cfg.ERP.ConnectionString()})
	if err != nil {
		log.Fatalf("Failed to connect to ERP database: %v", err)
	}
	defer db.Close()

	driver, err := database.NewNeo4jDriver(ctx, &cfg.Graph)
	if err != nil {
		log.Fatalf("Failed to connect to graph database: %v", err)
	}
	defer func() { _ = driver.Close(ctx) }()

	if err := seedERP(ctx, db, &seed); err != nil {
		log.Fatalf("Failed to seed ERP: %v", err)
	}
	if err := seedGraph(ctx, driver, &seed); err != nil {
		log.Fatalf("Failed to seed graph: %v", err)
	}

	log.Printf("Seeded %d suppliers, %d parts, %d demand lines from %s",
		len(seed.Suppliers), len(seed.Parts), len(seed.Demand), *scenarioPath)
}

func seedERP(ctx context.Context, db *database.DB, seed *SeedData) error {
	now := time.Now()

	for _, s := range seed.Suppliers {
		if _, err := db.Exec(ctx, `
			INSERT INTO suppliers (supplier_id, name, approved) VALUES ($1, $2, $3)
			ON CONFLICT (supplier_id) DO UPDATE SET name = $2, approved = $3`,
			s.ID, s.Name, s.Approved); err != nil {
			return err
		}
	}
	for _, p := range seed.Parts {
		if _, err := db.Exec(ctx, `
			INSERT INTO parts (part_id, name, part_type) VALUES ($1, $2, $3)
			ON CONFLICT (part_id) DO UPDATE SET name = $2, part_type = $3`,
			p.ID, p.Name, p.Type); err != nil {
			return err
		}
	}
	for _, sp := range seed.SupplierParts {
		if _, err := db.Exec(ctx, `
			INSERT INTO supplier_parts
			    (supplier_id, part_id, priority, lead_time_days, moq,
			     capacity_per_week, last_price, qualification_level)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (supplier_id, part_id) DO UPDATE SET
			    priority = $3, lead_time_days = $4, moq = $5,
			    capacity_per_week = $6, last_price = $7, qualification_level = $8`,
			sp.SupplierID, sp.PartID, sp.Priority, sp.LeadTimeDays, sp.MOQ,
			sp.Capacity, sp.LastPrice, sp.Qualification); err != nil {
			return err
		}
	}
	for _, q := range seed.Quotes {
		if _, err := db.Exec(ctx, `
			INSERT INTO quotes (quote_id, part_id, supplier_id, price, valid_to, incoterms)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (quote_id) DO UPDATE SET price = $4, valid_to = $5`,
			q.ID, q.PartID, q.SupplierID, q.Price,
			now.AddDate(0, 0, q.ValidDays), q.Incoterms); err != nil {
			return err
		}
	}
	for _, ln := range seed.Lanes {
		if _, err := db.Exec(ctx, `
			INSERT INTO transport_lanes (lane_id, supplier_id, factory_id, mode, time_days, cost, reliability)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (lane_id) DO UPDATE SET
			    mode = $4, time_days = $5, cost = $6, reliability = $7`,
			ln.ID, ln.SupplierID, ln.FactoryID, ln.Mode, ln.TimeDays, ln.Cost, ln.Reliability); err != nil {
			return err
		}
	}
	for _, d := range seed.Demand {
		if _, err := db.Exec(ctx, `
			INSERT INTO demand (order_id, part_id, qty, need_by_date, priority, factory_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (order_id, part_id) DO UPDATE SET
			    qty = $3, need_by_date = $4, priority = $5`,
			d.OrderID, d.PartID, d.Qty, now.AddDate(0, 0, d.NeedByIn), d.Priority, d.FactoryID); err != nil {
			return err
		}
	}
	for _, lot := range seed.Inventory {
		if _, err := db.Exec(ctx, `
			INSERT INTO inventory_lots (lot_id, part_id, on_hand, reserved, safety_stock, location, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (lot_id) DO UPDATE SET
			    on_hand = $3, reserved = $4, safety_stock = $5, updated_at = now()`,
			lot.LotID, lot.PartID, lot.OnHand, lot.Reserved, lot.SafetyStock, lot.Location); err != nil {
			return err
		}
	}
	return nil
}

func seedGraph(ctx context.Context, driver neo4j.DriverWithContext, seed *SeedData) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		run := func(cypher string, params map[string]any) error {
			_, err := tx.Run(ctx, cypher, params)
			return err
		}

		for _, s := range seed.Suppliers {
			if err := run(`MERGE (s:Supplier {id: $id}) SET s.name = $name`,
				map[string]any{"id": s.ID, "name": s.Name}); err != nil {
				return nil, err
			}
		}
		for _, p := range seed.Parts {
			if err := run(`MERGE (p:Part {id: $id}) SET p.name = $name`,
				map[string]any{"id": p.ID, "name": p.Name}); err != nil {
				return nil, err
			}
		}
		for _, f := range seed.Factories {
			if err := run(`MERGE (f:Factory {id: $id}) SET f.name = $name`,
				map[string]any{"id": f.ID, "name": f.Name}); err != nil {
				return nil, err
			}
		}
		for _, sp := range seed.SupplierParts {
			if err := run(`
				MATCH (s:Supplier {id: $sid}), (p:Part {id: $pid})
				MERGE (s)-[rel:SUPPLIES]->(p)
				SET rel.leadTimeDays = $lead, rel.moq = $moq, rel.capacity = $cap,
				    rel.lastPrice = $price, rel.qualificationLevel = $qual,
				    rel.priority = $priority`,
				map[string]any{
					"sid": sp.SupplierID, "pid": sp.PartID,
					"lead": sp.LeadTimeDays, "moq": sp.MOQ, "cap": sp.Capacity,
					"price": sp.LastPrice, "qual": sp.Qualification,
					"priority": sp.Priority,
				}); err != nil {
				return nil, err
			}
		}
		for _, ln := range seed.Lanes {
			if err := run(`
				MATCH (s:Supplier {id: $sid}), (f:Factory {id: $fid})
				MERGE (s)-[:SHIPS_VIA]->(l:TransportLane {id: $id})-[:ARRIVES_AT]->(f)
				SET l.mode = $mode, l.timeDays = $days, l.cost = $cost,
				    l.reliability = $rel, l.fromNode = $sid, l.toNode = $fid`,
				map[string]any{
					"id": ln.ID, "sid": ln.SupplierID, "fid": ln.FactoryID,
					"mode": ln.Mode, "days": ln.TimeDays, "cost": ln.Cost,
					"rel": ln.Reliability,
				}); err != nil {
				return nil, err
			}
		}
		for _, lot := range seed.Inventory {
			if err := run(`
				MATCH (p:Part {id: $pid})
				MERGE (lot:InventoryLot {id: $id})
				SET lot.onHand = $onHand, lot.reserved = $reserved,
				    lot.safetyStock = $safety, lot.location = $location
				MERGE (lot)-[:STORES]->(p)`,
				map[string]any{
					"id": lot.LotID, "pid": lot.PartID,
					"onHand": lot.OnHand, "reserved": lot.Reserved,
					"safety": lot.SafetyStock, "location": lot.Location,
				}); err != nil {
				return nil, err
			}
		}
		for _, o := range seed.Orders {
			status := o.Status
			if status == "" {
				status = "Open"
			}
			if err := run(`
				MERGE (o:Order {id: $id})
				SET o.status = $status
				MERGE (prod:Product {id: $product})
				MERGE (o)-[:PRODUCES]->(prod)
				WITH o, prod
				MATCH (f:Factory {id: $factory})
				MERGE (f)-[:PRODUCES]->(prod)`,
				map[string]any{"id": o.ID, "status": status, "product": o.ProductID, "factory": o.FactoryID}); err != nil {
				return nil, err
			}
			for _, pid := range o.Requires {
				if err := run(`
					MATCH (o:Order {id: $oid}), (p:Part {id: $pid})
					MERGE (o)-[:REQUIRES]->(p)`,
					map[string]any{"oid": o.ID, "pid": pid}); err != nil {
					return nil, err
				}
			}
		}
		for _, ev := range seed.RiskEvents {
			if err := run(`
				MATCH (s:Supplier {id: $sid})
				MERGE (r:RiskEvent {id: $id})
				SET r.type = $type, r.severity = $severity, r.status = 'Open'
				MERGE (r)-[:AFFECTS]->(s)`,
				map[string]any{
					"id": ev.ID, "sid": ev.SupplierID,
					"type": ev.Type, "severity": ev.Severity,
				}); err != nil {
				return nil, err
			}
		}
		for _, qh := range seed.QualityHolds {
			if err := run(`
				MERGE (hold:QualityHold {supplierId: $sid, partId: $pid})
				SET hold.holdDays = $days, hold.reason = 'Incoming QC'`,
				map[string]any{"sid": qh.SupplierID, "pid": qh.PartID, "days": qh.HoldDays}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}
