package allocator

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/posku/inventory-engine/application/expiry"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
	batchrepo "github.com/posku/inventory-engine/repository/batch"
	"github.com/posku/inventory-engine/utils/errors"
	"github.com/shopspring/decimal"
)

// Allocator decides which batches satisfy a requested deduction and applies
// the quantity/status updates inside the caller's transaction.
type Allocator interface {
	AllocateTx(ctx context.Context, tx *sqlx.Tx, req *model.AllocationRequest) (*model.AllocationResult, error)
}

type fifoAllocator struct {
	batchRepo  batchrepo.BatchRepository
	classifier *expiry.Classifier
}

func NewFIFOAllocator(batchRepo batchrepo.BatchRepository, classifier *expiry.Classifier) Allocator {
	return &fifoAllocator{batchRepo: batchRepo, classifier: classifier}
}

// AllocateTx consumes batches until the requested quantity is satisfied.
//
// Candidates arrive from the catalog already ordered oldest-received first
// with batch number as tie-break; the fifo_expiry strategy re-sorts them by
// soonest expiry, batches without an expiry date last. Under the default
// all-or-nothing policy an insufficient total leaves every row untouched and
// the returned result carries the shortfall alongside ErrInsufficientStock.
// Batches drained to zero are marked with the request's terminal status.
func (a *fifoAllocator) AllocateTx(ctx context.Context, tx *sqlx.Tx, req *model.AllocationRequest) (*model.AllocationResult, error) {
	if req.Quantity <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidQuantity)
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	terminal := req.Terminal
	if terminal == 0 {
		terminal = constant.BatchStatusDepleted
	}

	batches, err := a.batchRepo.ListActiveBatchesTx(ctx, tx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Batch, 0, len(batches))
	for _, b := range batches {
		if !req.IncludeExpired && a.classifier.Classify(&b, asOf) == constant.FreshnessExpired {
			continue
		}
		candidates = append(candidates, b)
	}

	if req.Strategy == constant.StrategyFIFOExpiry {
		sortByExpiry(candidates)
	}

	var available int64
	for _, b := range candidates {
		available += b.QuantityRemaining
	}
	if available < req.Quantity && !req.AllowPartial {
		result := &model.AllocationResult{
			Deductions: []model.BatchDeduction{},
			Shortfall:  req.Quantity - available,
		}
		return result, errors.SetCustomError(constant.ErrInsufficientStock)
	}

	result := &model.AllocationResult{Deductions: make([]model.BatchDeduction, 0, len(candidates))}
	needed := req.Quantity
	for _, b := range candidates {
		if needed <= 0 {
			break
		}
		take := b.QuantityRemaining
		if take > needed {
			take = needed
		}
		newQty := b.QuantityRemaining - take
		newStatus := b.Status
		if newQty == 0 {
			newStatus = terminal
		}
		if err := a.batchRepo.UpdateBatchQuantityTx(ctx, tx, b.ID, newQty, newStatus); err != nil {
			return nil, err
		}
		result.Deductions = append(result.Deductions, model.BatchDeduction{
			BatchID:           b.ID,
			BatchNumber:       b.BatchNumber,
			QuantityDeducted:  take,
			UnitCost:          b.UnitCost,
			QuantityRemaining: newQty,
			ReceivedDate:      b.ReceivedDate,
			ExpiryDate:        b.ExpiryDate,
		})
		result.TotalCost = result.TotalCost.Add(b.UnitCost.Mul(decimal.NewFromInt(take)))
		needed -= take
	}
	result.Shortfall = needed

	return result, nil
}

// sortByExpiry orders batches soonest-to-expire first. Batches without an
// expiry date sort last; received date then batch number break ties so the
// order stays deterministic.
func sortByExpiry(batches []model.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		bi, bj := batches[i], batches[j]
		switch {
		case bi.ExpiryDate == nil && bj.ExpiryDate == nil:
			// fall through to receipt order
		case bi.ExpiryDate == nil:
			return false
		case bj.ExpiryDate == nil:
			return true
		case !bi.ExpiryDate.Equal(*bj.ExpiryDate):
			return bi.ExpiryDate.Before(*bj.ExpiryDate)
		}
		if !bi.ReceivedDate.Equal(bj.ReceivedDate) {
			return bi.ReceivedDate.Before(bj.ReceivedDate)
		}
		return bi.BatchNumber < bj.BatchNumber
	})
}
