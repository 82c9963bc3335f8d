package batch

import (
	"database/sql"

	"context"

	"github.com/jmoiron/sqlx"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
)

// BatchRepository is the persistence contract for batch rows. Ordering and
// atomic writes only; allocation policy lives in the application layer.
type BatchRepository interface {
	// ListActiveBatchesTx returns the active batches for one product in one
	// warehouse, oldest received first with batch number as tie-break, with
	// the rows locked for the duration of the transaction.
	ListActiveBatchesTx(ctx context.Context, tx *sqlx.Tx, productID, warehouseID uint64) ([]model.Batch, error)
	GetBatchTx(ctx context.Context, tx *sqlx.Tx, batchID uint64) (*model.Batch, error)
	InsertBatchTx(ctx context.Context, tx *sqlx.Tx, item *model.InsertBatchItem) (uint64, error)
	UpdateBatchQuantityTx(ctx context.Context, tx *sqlx.Tx, batchID uint64, newQuantity int64, newStatus constant.BatchStatus) error
	// ListBatches is the read-only listing used by reporting endpoints; no
	// row locks taken.
	ListBatches(ctx context.Context, productID, warehouseID uint64) ([]model.Batch, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewBatchRepository(conn *sqlx.DB) BatchRepository {
	return &SQL{conn: conn}
}

const batchColumns = "id, product_id, warehouse_id, batch_number, quantity_remaining, original_quantity, unit_cost, received_date, expiry_date, status"

func (r *SQL) ListActiveBatchesTx(ctx context.Context, tx *sqlx.Tx, productID, warehouseID uint64) ([]model.Batch, error) {
	// Lock the candidate rows so concurrent allocations for the same
	// (product, warehouse) pair serialize instead of overselling.
	q := "SELECT " + batchColumns + " FROM batch WHERE product_id = ? AND warehouse_id = ? AND status = ? ORDER BY received_date ASC, batch_number ASC FOR UPDATE"
	rows, err := tx.QueryxContext(ctx, q, productID, warehouseID, constant.BatchStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]model.Batch, 0)
	for rows.Next() {
		var b model.Batch
		if err := rows.StructScan(&b); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *SQL) GetBatchTx(ctx context.Context, tx *sqlx.Tx, batchID uint64) (*model.Batch, error) {
	var b model.Batch
	q := "SELECT " + batchColumns + " FROM batch WHERE id = ? FOR UPDATE"
	if err := tx.GetContext(ctx, &b, q, batchID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *SQL) InsertBatchTx(ctx context.Context, tx *sqlx.Tx, item *model.InsertBatchItem) (uint64, error) {
	q := "INSERT INTO batch (product_id, warehouse_id, batch_number, quantity_remaining, original_quantity, unit_cost, received_date, expiry_date, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	res, err := tx.ExecContext(ctx, q,
		item.ProductID, item.WarehouseID, item.BatchNumber,
		item.QuantityRemaining, item.OriginalQuantity, item.UnitCost,
		item.ReceivedDate, item.ExpiryDate, item.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) UpdateBatchQuantityTx(ctx context.Context, tx *sqlx.Tx, batchID uint64, newQuantity int64, newStatus constant.BatchStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE batch SET quantity_remaining = ?, status = ? WHERE id = ?", newQuantity, newStatus, batchID)
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

func (r *SQL) ListBatches(ctx context.Context, productID, warehouseID uint64) ([]model.Batch, error) {
	q := "SELECT " + batchColumns + " FROM batch WHERE product_id = ? AND warehouse_id = ? ORDER BY received_date ASC, batch_number ASC"
	rows, err := r.conn.QueryxContext(ctx, q, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]model.Batch, 0)
	for rows.Next() {
		var b model.Batch
		if err := rows.StructScan(&b); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
