package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/posku/inventory-engine/application/allocator"
	"github.com/posku/inventory-engine/application/expiry"
	"github.com/posku/inventory-engine/cmd/config"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
	batchrepo "github.com/posku/inventory-engine/repository/batch"
	redisrepo "github.com/posku/inventory-engine/repository/redis"
	txrepo "github.com/posku/inventory-engine/repository/tx"
	warehouserepo "github.com/posku/inventory-engine/repository/warehouse"
	"github.com/posku/inventory-engine/thirdparty/rabbitmq"
	"github.com/posku/inventory-engine/utils/errors"
	"github.com/posku/inventory-engine/utils/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const summaryCacheTTL = 30 * time.Second

// StockApp orchestrates every batch mutation: increases create batches,
// deductions consume them oldest-first through the allocator, transfers do
// both sides in one transaction. Each operation is a single atomic unit; on
// failure nothing is persisted. When a deduction fails with insufficient
// stock the returned result still carries the computed shortfall.
type StockApp interface {
	AdjustStock(ctx context.Context, req *model.AdjustStockRequest) (*model.StockMutationResult, error)
	TransferStock(ctx context.Context, req *model.TransferStockRequest) (*model.StockMutationResult, error)
	// MarkBatchExpired is the expiry sweep target: an active batch becomes
	// expired and leaves the utilization counter. Idempotent on terminal
	// batches.
	MarkBatchExpired(ctx context.Context, batchID uint64) error
	StockSummary(ctx context.Context, productID, warehouseID uint64) (*model.StockSummary, error)
	ListBatchFreshness(ctx context.Context, productID, warehouseID uint64) ([]model.BatchFreshness, error)
}

type stockAppImpl struct {
	config        *config.Config
	txRepo        txrepo.TxRepository
	batchRepo     batchrepo.BatchRepository
	warehouseRepo warehouserepo.WarehouseRepository
	allocator     allocator.Allocator
	classifier    *expiry.Classifier
	cacheRepo     redisrepo.Repository
	publisher     *rabbitmq.Publisher
}

func NewStockApp(
	config *config.Config,
	txRepo txrepo.TxRepository,
	batchRepo batchrepo.BatchRepository,
	warehouseRepo warehouserepo.WarehouseRepository,
	alloc allocator.Allocator,
	classifier *expiry.Classifier,
	cacheRepo redisrepo.Repository,
	publisher *rabbitmq.Publisher,
) StockApp {
	return &stockAppImpl{
		config:        config,
		txRepo:        txRepo,
		batchRepo:     batchRepo,
		warehouseRepo: warehouseRepo,
		allocator:     alloc,
		classifier:    classifier,
		cacheRepo:     cacheRepo,
		publisher:     publisher,
	}
}

func (s *stockAppImpl) AdjustStock(ctx context.Context, req *model.AdjustStockRequest) (*model.StockMutationResult, error) {
	kind, ok := constant.ParseMutationKind(req.Kind)
	if !ok {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidQuantity)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	if kind == constant.MutationIncrease {
		return s.increaseStock(ctx, req)
	}
	return s.deductStock(ctx, kind, req)
}

func (s *stockAppImpl) increaseStock(ctx context.Context, req *model.AdjustStockRequest) (*model.StockMutationResult, error) {
	if req.UnitCost == nil || req.UnitCost.IsNegative() {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.Stock.StoreTimeout)
	defer cancel()

	tx, err := s.txRepo.BeginTx(storeCtx)
	if err != nil {
		logger.Error("[AdjustStock] begin tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	warehouse, err := s.warehouseRepo.GetWarehouseTx(storeCtx, tx, req.WarehouseID)
	if err != nil {
		logger.Error("[AdjustStock] get warehouse failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	if warehouse == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	now := time.Now()
	expiryDate := req.ExpiryDate
	if expiryDate == nil {
		e := now.AddDate(0, 0, s.config.Stock.DefaultShelfLifeDays)
		expiryDate = &e
	}

	item := &model.InsertBatchItem{
		ProductID:         req.ProductID,
		WarehouseID:       req.WarehouseID,
		BatchNumber:       newBatchNumber(),
		QuantityRemaining: req.Quantity,
		OriginalQuantity:  req.Quantity,
		UnitCost:          *req.UnitCost,
		ReceivedDate:      now,
		ExpiryDate:        expiryDate,
		Status:            constant.BatchStatusActive,
	}
	batchID, err := s.batchRepo.InsertBatchTx(storeCtx, tx, item)
	if err != nil {
		logger.Error("[AdjustStock] insert batch failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	if err := s.warehouseRepo.AdjustUtilizationTx(storeCtx, tx, req.WarehouseID, req.Quantity); err != nil {
		logger.Error("[AdjustStock] adjust utilization failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[AdjustStock] commit tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed = true

	created := model.Batch{
		ID:                batchID,
		ProductID:         item.ProductID,
		WarehouseID:       item.WarehouseID,
		BatchNumber:       item.BatchNumber,
		QuantityRemaining: item.QuantityRemaining,
		OriginalQuantity:  item.OriginalQuantity,
		UnitCost:          item.UnitCost,
		ReceivedDate:      item.ReceivedDate,
		ExpiryDate:        item.ExpiryDate,
		Status:            item.Status,
	}
	result := &model.StockMutationResult{
		Kind:           req.Kind,
		CreatedBatches: []model.Batch{created},
		TotalCost:      item.UnitCost.Mul(decimal.NewFromInt(req.Quantity)),
	}
	if warehouse.Capacity > 0 && warehouse.CurrentUtilization+req.Quantity > warehouse.Capacity {
		result.CapacityExceeded = []uint64{warehouse.ID}
		logger.Warn("[AdjustStock] warehouse over capacity",
			zap.Uint64("warehouse_id", warehouse.ID),
			zap.Int64("capacity", warehouse.Capacity),
			zap.Int64("utilization", warehouse.CurrentUtilization+req.Quantity),
		)
	}

	s.invalidateSummary(ctx, req.ProductID, req.WarehouseID)
	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:        req.Kind,
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		TotalCost:   result.TotalCost.StringFixed(2),
		Reason:      req.Reason,
		OccurredAt:  now,
	})
	s.scheduleExpiry(created)

	return result, nil
}

func (s *stockAppImpl) deductStock(ctx context.Context, kind constant.MutationKind, req *model.AdjustStockRequest) (*model.StockMutationResult, error) {
	strategy, ok := constant.ParseAllocationStrategy(req.Strategy)
	if !ok {
		strategy = s.config.Stock.DefaultStrategy
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.Stock.StoreTimeout)
	defer cancel()

	tx, err := s.txRepo.BeginTx(storeCtx)
	if err != nil {
		logger.Error("[AdjustStock] begin tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	warehouse, err := s.warehouseRepo.GetWarehouseTx(storeCtx, tx, req.WarehouseID)
	if err != nil {
		logger.Error("[AdjustStock] get warehouse failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	if warehouse == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	allocRes, err := s.allocator.AllocateTx(storeCtx, tx, &model.AllocationRequest{
		ProductID:    req.ProductID,
		WarehouseID:  req.WarehouseID,
		Quantity:     req.Quantity,
		Strategy:     strategy,
		AllowPartial: req.AllowPartial,
		// Expired/damaged write-offs may consume stock already past its
		// expiry date; sales may not.
		IncludeExpired: kind == constant.MutationExpired || kind == constant.MutationDamaged,
		Terminal:       kind.TerminalStatus(),
	})
	if err != nil {
		if ce, ok := asBusinessError(err); ok {
			if ce.Type() == constant.ErrInsufficientStock && allocRes != nil {
				logger.Info("[AdjustStock] insufficient stock",
					zap.Uint64("product_id", req.ProductID),
					zap.Uint64("warehouse_id", req.WarehouseID),
					zap.Int64("requested", req.Quantity),
					zap.Int64("shortfall", allocRes.Shortfall),
				)
				// surface the computed shortfall alongside the error
				return &model.StockMutationResult{Kind: req.Kind, Shortfall: allocRes.Shortfall}, ce
			}
			return nil, ce
		}
		logger.Error("[AdjustStock] allocate failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	deducted := allocRes.TotalDeducted()
	if deducted == 0 {
		// partial allocation that found nothing; no rows changed, so there
		// is nothing to commit and no movement to announce
		logger.Info("[AdjustStock] nothing available for partial deduction",
			zap.Uint64("product_id", req.ProductID),
			zap.Uint64("warehouse_id", req.WarehouseID),
			zap.Int64("requested", req.Quantity),
		)
		return &model.StockMutationResult{
			Kind:      req.Kind,
			Shortfall: allocRes.Shortfall,
		}, nil
	}

	if err := s.warehouseRepo.AdjustUtilizationTx(storeCtx, tx, req.WarehouseID, -deducted); err != nil {
		logger.Error("[AdjustStock] adjust utilization failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[AdjustStock] commit tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed = true

	result := &model.StockMutationResult{
		Kind:       req.Kind,
		Deductions: allocRes.Deductions,
		Shortfall:  allocRes.Shortfall,
		TotalCost:  allocRes.TotalCost,
	}

	s.invalidateSummary(ctx, req.ProductID, req.WarehouseID)
	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:            req.Kind,
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		Quantity:        deducted,
		TotalCost:       result.TotalCost.StringFixed(2),
		Reason:          req.Reason,
		OccurredAt:      time.Now(),
		DeductedBatches: batchIDs(allocRes.Deductions),
	})

	return result, nil
}

func (s *stockAppImpl) TransferStock(ctx context.Context, req *model.TransferStockRequest) (*model.StockMutationResult, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, errors.SetCustomError(constant.ErrInvalidTransfer)
	}
	if req.Quantity <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidQuantity)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.Stock.StoreTimeout)
	defer cancel()

	tx, err := s.txRepo.BeginTx(storeCtx)
	if err != nil {
		logger.Error("[TransferStock] begin tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	// Lock both warehouse rows in id order so concurrent opposite-direction
	// transfers cannot deadlock.
	first, second := req.FromWarehouseID, req.ToWarehouseID
	if second < first {
		first, second = second, first
	}
	locked := make(map[uint64]*model.Warehouse, 2)
	for _, id := range []uint64{first, second} {
		w, err := s.warehouseRepo.GetWarehouseTx(storeCtx, tx, id)
		if err != nil {
			logger.Error("[TransferStock] get warehouse failed", zap.String("error", err.Error()))
			return nil, classifyInfra(err)
		}
		if w == nil {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		locked[id] = w
	}

	allocRes, err := s.allocator.AllocateTx(storeCtx, tx, &model.AllocationRequest{
		ProductID:   req.ProductID,
		WarehouseID: req.FromWarehouseID,
		Quantity:    req.Quantity,
		Strategy:    s.config.Stock.DefaultStrategy,
	})
	if err != nil {
		if ce, ok := asBusinessError(err); ok {
			if ce.Type() == constant.ErrInsufficientStock && allocRes != nil {
				logger.Info("[TransferStock] insufficient stock",
					zap.Uint64("product_id", req.ProductID),
					zap.Uint64("from_warehouse_id", req.FromWarehouseID),
					zap.Int64("requested", req.Quantity),
					zap.Int64("shortfall", allocRes.Shortfall),
				)
				return &model.StockMutationResult{Kind: "transfer", Shortfall: allocRes.Shortfall}, ce
			}
			return nil, ce
		}
		logger.Error("[TransferStock] allocate failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	// Each deducted source batch is mirrored as a fresh batch in the
	// destination with the cost basis and dates preserved; the source batch
	// stays behind, depleted, so per-warehouse cost history remains intact.
	created := make([]model.Batch, 0, len(allocRes.Deductions))
	for _, d := range allocRes.Deductions {
		item := &model.InsertBatchItem{
			ProductID:         req.ProductID,
			WarehouseID:       req.ToWarehouseID,
			BatchNumber:       newBatchNumber(),
			QuantityRemaining: d.QuantityDeducted,
			OriginalQuantity:  d.QuantityDeducted,
			UnitCost:          d.UnitCost,
			ReceivedDate:      d.ReceivedDate,
			ExpiryDate:        d.ExpiryDate,
			Status:            constant.BatchStatusActive,
		}
		id, err := s.batchRepo.InsertBatchTx(storeCtx, tx, item)
		if err != nil {
			logger.Error("[TransferStock] insert mirrored batch failed", zap.String("error", err.Error()))
			return nil, classifyInfra(err)
		}
		created = append(created, model.Batch{
			ID:                id,
			ProductID:         item.ProductID,
			WarehouseID:       item.WarehouseID,
			BatchNumber:       item.BatchNumber,
			QuantityRemaining: item.QuantityRemaining,
			OriginalQuantity:  item.OriginalQuantity,
			UnitCost:          item.UnitCost,
			ReceivedDate:      item.ReceivedDate,
			ExpiryDate:        item.ExpiryDate,
			Status:            item.Status,
		})
	}

	total := allocRes.TotalDeducted()
	if err := s.warehouseRepo.AdjustUtilizationTx(storeCtx, tx, req.FromWarehouseID, -total); err != nil {
		logger.Error("[TransferStock] adjust source utilization failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	if err := s.warehouseRepo.AdjustUtilizationTx(storeCtx, tx, req.ToWarehouseID, total); err != nil {
		logger.Error("[TransferStock] adjust destination utilization failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[TransferStock] commit tx failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}
	committed = true

	result := &model.StockMutationResult{
		Kind:           "transfer",
		Deductions:     allocRes.Deductions,
		CreatedBatches: created,
		TotalCost:      allocRes.TotalCost,
	}
	dest := locked[req.ToWarehouseID]
	if dest.Capacity > 0 && dest.CurrentUtilization+total > dest.Capacity {
		result.CapacityExceeded = []uint64{dest.ID}
		logger.Warn("[TransferStock] destination over capacity",
			zap.Uint64("warehouse_id", dest.ID),
			zap.Int64("capacity", dest.Capacity),
			zap.Int64("utilization", dest.CurrentUtilization+total),
		)
	}

	s.invalidateSummary(ctx, req.ProductID, req.FromWarehouseID)
	s.invalidateSummary(ctx, req.ProductID, req.ToWarehouseID)
	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:            "transfer",
		ProductID:       req.ProductID,
		WarehouseID:     req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        total,
		TotalCost:       result.TotalCost.StringFixed(2),
		Reason:          req.Reason,
		OccurredAt:      time.Now(),
		DeductedBatches: batchIDs(allocRes.Deductions),
	})
	for _, b := range created {
		s.scheduleExpiry(b)
	}

	return result, nil
}

func (s *stockAppImpl) MarkBatchExpired(ctx context.Context, batchID uint64) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.Stock.StoreTimeout)
	defer cancel()

	tx, err := s.txRepo.BeginTx(storeCtx)
	if err != nil {
		logger.Error("[MarkBatchExpired] begin tx failed", zap.String("error", err.Error()))
		return classifyInfra(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	batch, err := s.batchRepo.GetBatchTx(storeCtx, tx, batchID)
	if err != nil {
		logger.Error("[MarkBatchExpired] get batch failed", zap.String("error", err.Error()))
		return classifyInfra(err)
	}
	if batch == nil {
		return errors.SetCustomError(constant.ErrBatchNotFound)
	}
	if batch.Status != constant.BatchStatusActive {
		// already terminal; the sweep may deliver more than once
		return nil
	}

	if err := s.batchRepo.UpdateBatchQuantityTx(storeCtx, tx, batch.ID, batch.QuantityRemaining, constant.BatchStatusExpired); err != nil {
		logger.Error("[MarkBatchExpired] update batch failed", zap.String("error", err.Error()))
		return classifyInfra(err)
	}
	if batch.QuantityRemaining > 0 {
		if err := s.warehouseRepo.AdjustUtilizationTx(storeCtx, tx, batch.WarehouseID, -batch.QuantityRemaining); err != nil {
			logger.Error("[MarkBatchExpired] adjust utilization failed", zap.String("error", err.Error()))
			return classifyInfra(err)
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[MarkBatchExpired] commit tx failed", zap.String("error", err.Error()))
		return classifyInfra(err)
	}
	committed = true

	s.invalidateSummary(ctx, batch.ProductID, batch.WarehouseID)
	s.publishMovement(rabbitmq.StockMovementMessage{
		Kind:            "expired",
		ProductID:       batch.ProductID,
		WarehouseID:     batch.WarehouseID,
		Quantity:        batch.QuantityRemaining,
		TotalCost:       batch.UnitCost.Mul(decimal.NewFromInt(batch.QuantityRemaining)).StringFixed(2),
		Reason:          "expiry sweep",
		OccurredAt:      time.Now(),
		DeductedBatches: []uint64{batch.ID},
	})

	return nil
}

func (s *stockAppImpl) StockSummary(ctx context.Context, productID, warehouseID uint64) (*model.StockSummary, error) {
	if s.cacheRepo != nil {
		cached, err := s.cacheRepo.GetStockSummary(ctx, productID, warehouseID)
		if err != nil {
			logger.Warn("[StockSummary] cache read failed", zap.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	batches, err := s.batchRepo.ListBatches(ctx, productID, warehouseID)
	if err != nil {
		logger.Error("[StockSummary] list batches failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	now := time.Now()
	summary := &model.StockSummary{ProductID: productID, WarehouseID: warehouseID}
	for i := range batches {
		b := &batches[i]
		if b.Status != constant.BatchStatusActive {
			continue
		}
		summary.TotalAvailable += b.QuantityRemaining
		summary.BatchCount++
		if s.classifier.Classify(b, now) == constant.FreshnessExpiringSoon {
			summary.ExpiringSoon++
		}
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetStockSummary(ctx, summary, summaryCacheTTL); err != nil {
			logger.Warn("[StockSummary] cache write failed", zap.String("error", err.Error()))
		}
	}

	return summary, nil
}

func (s *stockAppImpl) ListBatchFreshness(ctx context.Context, productID, warehouseID uint64) ([]model.BatchFreshness, error) {
	batches, err := s.batchRepo.ListBatches(ctx, productID, warehouseID)
	if err != nil {
		logger.Error("[ListBatchFreshness] list batches failed", zap.String("error", err.Error()))
		return nil, classifyInfra(err)
	}

	now := time.Now()
	out := make([]model.BatchFreshness, 0, len(batches))
	for i := range batches {
		out = append(out, model.BatchFreshness{
			Batch:     batches[i],
			Freshness: s.classifier.Classify(&batches[i], now).String(),
		})
	}
	return out, nil
}

// newBatchNumber generates a globally unique batch number; it doubles as the
// deterministic FIFO tie-break for batches received at the same instant.
func newBatchNumber() string {
	return "BN-" + uuid.NewString()
}

func batchIDs(deductions []model.BatchDeduction) []uint64 {
	ids := make([]uint64, 0, len(deductions))
	for _, d := range deductions {
		ids = append(ids, d.BatchID)
	}
	return ids
}

func (s *stockAppImpl) invalidateSummary(ctx context.Context, productID, warehouseID uint64) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.InvalidateStockSummary(ctx, productID, warehouseID); err != nil {
		logger.Warn("[stock] cache invalidation failed", zap.String("error", err.Error()))
	}
}

func (s *stockAppImpl) publishMovement(msg rabbitmq.StockMovementMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishStockMovement(msg); err != nil {
		logger.Error("[stock] publish stock movement failed", zap.String("error", err.Error()))
	}
}

func (s *stockAppImpl) scheduleExpiry(b model.Batch) {
	if s.publisher == nil || b.ExpiryDate == nil {
		return
	}
	err := s.publisher.PublishBatchExpiry(rabbitmq.BatchExpiryMessage{
		BatchID:     b.ID,
		ProductID:   b.ProductID,
		WarehouseID: b.WarehouseID,
		ExpiresAt:   *b.ExpiryDate,
	})
	if err != nil {
		logger.Error("[stock] publish batch expiry failed", zap.String("error", err.Error()))
	}
}
