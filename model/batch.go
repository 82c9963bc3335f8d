package model

import (
	"time"

	"github.com/posku/inventory-engine/constant"
	"github.com/shopspring/decimal"
)

type Batch struct {
	ID                uint64               `db:"id" json:"id"`
	ProductID         uint64               `db:"product_id" json:"product_id"`
	WarehouseID       uint64               `db:"warehouse_id" json:"warehouse_id"`
	BatchNumber       string               `db:"batch_number" json:"batch_number"`
	QuantityRemaining int64                `db:"quantity_remaining" json:"quantity_remaining"`
	OriginalQuantity  int64                `db:"original_quantity" json:"original_quantity"`
	UnitCost          decimal.Decimal      `db:"unit_cost" json:"unit_cost"`
	ReceivedDate      time.Time            `db:"received_date" json:"received_date"`
	ExpiryDate        *time.Time           `db:"expiry_date" json:"expiry_date,omitempty"`
	Status            constant.BatchStatus `db:"status" json:"status"`
}

// AllocationRequest asks for quantity units of a product to be deducted from
// one warehouse's batches.
type AllocationRequest struct {
	ProductID   uint64
	WarehouseID uint64
	Quantity    int64
	Strategy    constant.AllocationStrategy
	// AllowPartial accepts whatever stock is available instead of the
	// default all-or-nothing policy.
	AllowPartial bool
	// IncludeExpired also consumes batches already past their expiry date.
	// Used by the expired/damaged marking paths.
	IncludeExpired bool
	// Terminal is the status applied to batches whose remaining quantity
	// reaches zero. Defaults to depleted when unset.
	Terminal constant.BatchStatus
	// AsOf anchors expiry classification. Defaults to time.Now().
	AsOf time.Time
}

// BatchDeduction records how much was taken from one batch and at what unit
// cost. Upstream accounting derives COGS from these tuples, so they are
// carried on every mutation result.
type BatchDeduction struct {
	BatchID           uint64          `json:"batch_id"`
	BatchNumber       string          `json:"batch_number"`
	QuantityDeducted  int64           `json:"quantity_deducted"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	ReceivedDate      time.Time       `json:"received_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
}

type AllocationResult struct {
	Deductions []BatchDeduction `json:"deductions"`
	// Shortfall is the unfulfilled quantity. Non-zero only when partial
	// allocation was requested, or on the insufficient-stock error path.
	Shortfall int64           `json:"shortfall"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// TotalDeducted sums the per-batch deductions.
func (r *AllocationResult) TotalDeducted() int64 {
	var total int64
	for _, d := range r.Deductions {
		total += d.QuantityDeducted
	}
	return total
}
