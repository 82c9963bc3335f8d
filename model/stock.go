package model

import (
	"time"

	"github.com/posku/inventory-engine/constant"
	"github.com/shopspring/decimal"
)

type AdjustStockRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=increase decrease expired damaged"`
	ProductID   uint64 `json:"product_id" validate:"required"`
	WarehouseID uint64 `json:"warehouse_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required"`
	// UnitCost is required for increase, ignored otherwise.
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	// ExpiryDate overrides the default shelf-life expiry on increase.
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	// Strategy selects the allocation order for deductions. Empty means
	// the configured default.
	Strategy string `json:"strategy,omitempty" validate:"omitempty,oneof=fifo_receipt fifo_expiry"`
	// AllowPartial accepts a partial deduction instead of all-or-nothing.
	AllowPartial bool `json:"allow_partial,omitempty"`
}

type TransferStockRequest struct {
	FromWarehouseID uint64 `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   uint64 `json:"to_warehouse_id" validate:"required"`
	ProductID       uint64 `json:"product_id" validate:"required"`
	Quantity        int64  `json:"quantity" validate:"required,gt=0"`
	Reason          string `json:"reason" validate:"required"`
}

// StockMutationResult is returned by every mutating stock operation. The
// per-batch deduction breakdown feeds cost-of-goods-sold downstream and must
// never be dropped.
type StockMutationResult struct {
	Kind       string           `json:"kind"`
	Deductions []BatchDeduction `json:"deductions,omitempty"`
	// CreatedBatches holds the batch created by an increase, or the
	// mirrored destination batches of a transfer.
	CreatedBatches []Batch         `json:"created_batches,omitempty"`
	Shortfall      int64           `json:"shortfall"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	// CapacityExceeded warns that a warehouse is now above its configured
	// capacity. Advisory only, never an error.
	CapacityExceeded []uint64 `json:"capacity_exceeded,omitempty"`
}

type BatchFreshness struct {
	Batch     Batch  `json:"batch"`
	Freshness string `json:"freshness"`
}

type StockSummary struct {
	ProductID      uint64 `json:"product_id"`
	WarehouseID    uint64 `json:"warehouse_id"`
	TotalAvailable int64  `json:"total_available"`
	BatchCount     int    `json:"batch_count"`
	ExpiringSoon   int    `json:"expiring_soon"`
}

type ExpireBatchRequest struct {
	BatchID uint64 `json:"batch_id" validate:"required"`
}

// InsertBatchItem is the write shape for creating a batch row.
type InsertBatchItem struct {
	ProductID         uint64
	WarehouseID       uint64
	BatchNumber       string
	QuantityRemaining int64
	OriginalQuantity  int64
	UnitCost          decimal.Decimal
	ReceivedDate      time.Time
	ExpiryDate        *time.Time
	Status            constant.BatchStatus
}
