package warehouse

import (
	"context"

	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
	txrepo "github.com/posku/inventory-engine/repository/tx"
	warehouserepo "github.com/posku/inventory-engine/repository/warehouse"
	"github.com/posku/inventory-engine/utils/errors"
	"github.com/posku/inventory-engine/utils/logger"
	"go.uber.org/zap"
)

// WarehouseApp exposes the utilization counter. The counter itself is only
// ever moved inside stock mutation transactions; this app reads it and
// repairs it.
type WarehouseApp interface {
	GetUtilization(ctx context.Context, warehouseID uint64) (*model.WarehouseUtilization, error)
	// RecomputeUtilization rewrites the cached counter from the sum of
	// quantity remaining over active batches.
	RecomputeUtilization(ctx context.Context, warehouseID uint64) (*model.WarehouseUtilization, error)
}

type warehouseAppImpl struct {
	txRepo        txrepo.TxRepository
	warehouseRepo warehouserepo.WarehouseRepository
}

func NewWarehouseApp(txRepo txrepo.TxRepository, warehouseRepo warehouserepo.WarehouseRepository) WarehouseApp {
	return &warehouseAppImpl{
		txRepo:        txRepo,
		warehouseRepo: warehouseRepo,
	}
}

func (s *warehouseAppImpl) GetUtilization(ctx context.Context, warehouseID uint64) (*model.WarehouseUtilization, error) {
	warehouse, err := s.warehouseRepo.GetWarehouse(ctx, warehouseID)
	if err != nil {
		logger.Error("[GetUtilization] get warehouse failed", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if warehouse == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	return utilizationOf(warehouse), nil
}

func (s *warehouseAppImpl) RecomputeUtilization(ctx context.Context, warehouseID uint64) (*model.WarehouseUtilization, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[RecomputeUtilization] begin tx failed", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	warehouse, err := s.warehouseRepo.GetWarehouseTx(ctx, tx, warehouseID)
	if err != nil {
		logger.Error("[RecomputeUtilization] get warehouse failed", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if warehouse == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	total, err := s.warehouseRepo.RecomputeUtilizationTx(ctx, tx, warehouseID)
	if err != nil {
		logger.Error("[RecomputeUtilization] recompute failed", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[RecomputeUtilization] commit tx failed", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	if total != warehouse.CurrentUtilization {
		logger.Warn("[RecomputeUtilization] utilization drift repaired",
			zap.Uint64("warehouse_id", warehouseID),
			zap.Int64("cached", warehouse.CurrentUtilization),
			zap.Int64("actual", total),
		)
	}

	warehouse.CurrentUtilization = total
	return utilizationOf(warehouse), nil
}

func utilizationOf(w *model.Warehouse) *model.WarehouseUtilization {
	return &model.WarehouseUtilization{
		WarehouseID:        w.ID,
		Capacity:           w.Capacity,
		CurrentUtilization: w.CurrentUtilization,
		CapacityExceeded:   w.Capacity > 0 && w.CurrentUtilization > w.Capacity,
	}
}
