package model

type Warehouse struct {
	ID       uint64 `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int64  `db:"capacity" json:"capacity"`
	// CurrentUtilization caches the sum of quantity_remaining over active
	// batches in this warehouse. Adjusted in the same transaction as every
	// batch mutation and repairable via recompute.
	CurrentUtilization int64 `db:"current_utilization" json:"current_utilization"`
}

type WarehouseUtilization struct {
	WarehouseID        uint64 `json:"warehouse_id"`
	Capacity           int64  `json:"capacity"`
	CurrentUtilization int64  `json:"current_utilization"`
	CapacityExceeded   bool   `json:"capacity_exceeded"`
}
