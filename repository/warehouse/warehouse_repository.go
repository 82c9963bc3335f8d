package warehouse

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
)

type WarehouseRepository interface {
	GetWarehouse(ctx context.Context, warehouseID uint64) (*model.Warehouse, error)
	GetWarehouseTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64) (*model.Warehouse, error)
	// AdjustUtilizationTx moves the cached utilization counter by delta.
	// Must run in the same transaction as the batch mutation that caused
	// it; it is never called on its own.
	AdjustUtilizationTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64, delta int64) error
	// RecomputeUtilizationTx rewrites the counter from the authoritative
	// sum over active batches and returns the fresh value.
	RecomputeUtilizationTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64) (int64, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewWarehouseRepository(conn *sqlx.DB) WarehouseRepository {
	return &SQL{conn: conn}
}

func (r *SQL) GetWarehouse(ctx context.Context, warehouseID uint64) (*model.Warehouse, error) {
	var w model.Warehouse
	q := "SELECT id, name, capacity, current_utilization FROM warehouse WHERE id = ?"
	if err := r.conn.GetContext(ctx, &w, q, warehouseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *SQL) GetWarehouseTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64) (*model.Warehouse, error) {
	var w model.Warehouse
	q := "SELECT id, name, capacity, current_utilization FROM warehouse WHERE id = ? FOR UPDATE"
	if err := tx.GetContext(ctx, &w, q, warehouseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *SQL) AdjustUtilizationTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64, delta int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE warehouse SET current_utilization = current_utilization + ? WHERE id = ?", delta, warehouseID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQL) RecomputeUtilizationTx(ctx context.Context, tx *sqlx.Tx, warehouseID uint64) (int64, error) {
	var total sql.NullInt64
	q := "SELECT COALESCE(SUM(quantity_remaining),0) AS total FROM batch WHERE warehouse_id = ? AND status = ?"
	if err := tx.GetContext(ctx, &total, q, warehouseID, constant.BatchStatusActive); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE warehouse SET current_utilization = ? WHERE id = ?", total.Int64, warehouseID); err != nil {
		return 0, err
	}
	return total.Int64, nil
}
