package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/posku/inventory-engine/application/expiry"
	"github.com/posku/inventory-engine/application/stock"
	"github.com/posku/inventory-engine/cmd/config"
	"github.com/posku/inventory-engine/constant"
	allocatormocks "github.com/posku/inventory-engine/mocks/application/allocator"
	batchmocks "github.com/posku/inventory-engine/mocks/repository/batch"
	txmocks "github.com/posku/inventory-engine/mocks/repository/tx"
	warehousemocks "github.com/posku/inventory-engine/mocks/repository/warehouse"
	"github.com/posku/inventory-engine/model"
	cerr "github.com/posku/inventory-engine/utils/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type fields struct {
	txRepo        *txmocks.TxRepository
	batchRepo     *batchmocks.BatchRepository
	warehouseRepo *warehousemocks.WarehouseRepository
	allocator     *allocatormocks.Allocator
	tx            *sqlx.Tx
}

func newFields(t *testing.T) fields {
	return fields{
		txRepo:        txmocks.NewTxRepository(t),
		batchRepo:     batchmocks.NewBatchRepository(t),
		warehouseRepo: warehousemocks.NewWarehouseRepository(t),
		allocator:     allocatormocks.NewAllocator(t),
		tx:            &sqlx.Tx{},
	}
}

func newStockApp(f fields) stock.StockApp {
	cfg := &config.Config{
		Stock: config.StockConfig{
			DefaultShelfLifeDays: 365,
			ExpiringSoonDays:     30,
			DefaultStrategy:      constant.StrategyFIFOReceipt,
			StoreTimeout:         time.Second,
		},
	}
	return stock.NewStockApp(cfg, f.txRepo, f.batchRepo, f.warehouseRepo, f.allocator, expiry.NewClassifier(30), nil, nil)
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func assertErrCode(t *testing.T, err error, code constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[code] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[code])
	}
}

func TestStockApp_AdjustStock(t *testing.T) {
	unitCost := decimal.NewFromInt(5)

	tests := []struct {
		name     string
		req      *model.AdjustStockRequest
		mockCall func(f fields)
		check    func(t *testing.T, got *model.StockMutationResult)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: increase creates a batch and bumps utilization",
			req: &model.AdjustStockRequest{
				Kind:        "increase",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    40,
				Reason:      "purchase order 88",
				UnitCost:    decPtr(unitCost),
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1, Capacity: 1000, CurrentUtilization: 100}, nil).Once()
				f.batchRepo.On("InsertBatchTx", mock.Anything, f.tx, mock.MatchedBy(func(item *model.InsertBatchItem) bool {
					return item.ProductID == 1 &&
						item.WarehouseID == 1 &&
						item.QuantityRemaining == 40 &&
						item.OriginalQuantity == 40 &&
						item.UnitCost.Equal(unitCost) &&
						item.Status == constant.BatchStatusActive &&
						item.ExpiryDate != nil
				})).Return(uint64(501), nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(40)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if len(got.CreatedBatches) != 1 || got.CreatedBatches[0].ID != 501 {
					t.Fatalf("created batches = %+v, want one batch with id 501", got.CreatedBatches)
				}
				if !got.TotalCost.Equal(decimal.NewFromInt(200)) {
					t.Fatalf("total cost = %s, want 200", got.TotalCost)
				}
				if len(got.CapacityExceeded) != 0 {
					t.Fatalf("capacity exceeded = %v, want none", got.CapacityExceeded)
				}
			},
		},
		{
			name: "success: increase past capacity is advisory only",
			req: &model.AdjustStockRequest{
				Kind:        "increase",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    40,
				Reason:      "purchase order 89",
				UnitCost:    decPtr(unitCost),
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1, Capacity: 100, CurrentUtilization: 80}, nil).Once()
				f.batchRepo.On("InsertBatchTx", mock.Anything, f.tx, mock.Anything).Return(uint64(502), nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(40)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if len(got.CapacityExceeded) != 1 || got.CapacityExceeded[0] != 1 {
					t.Fatalf("capacity exceeded = %v, want [1]", got.CapacityExceeded)
				}
			},
		},
		{
			name: "error: increase without unit cost",
			req: &model.AdjustStockRequest{
				Kind:        "increase",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    40,
				Reason:      "purchase order 90",
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: unknown mutation kind",
			req: &model.AdjustStockRequest{
				Kind:        "shrinkage",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    10,
				Reason:      "count",
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: zero quantity",
			req: &model.AdjustStockRequest{
				Kind:        "decrease",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    0,
				Reason:      "sale",
			},
			wantErr: true,
			errCode: constant.ErrInvalidQuantity,
		},
		{
			name: "error: blank reason",
			req: &model.AdjustStockRequest{
				Kind:        "decrease",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    10,
				Reason:      "   ",
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: warehouse not found",
			req: &model.AdjustStockRequest{
				Kind:        "decrease",
				ProductID:   1,
				WarehouseID: 9,
				Quantity:    10,
				Reason:      "sale",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(9)).Return(nil, nil).Once()
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "success: decrease drains batches oldest first",
			req: &model.AdjustStockRequest{
				Kind:        "decrease",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    120,
				Reason:      "sale order 7",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1, Capacity: 1000, CurrentUtilization: 150}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.MatchedBy(func(req *model.AllocationRequest) bool {
					return req.Quantity == 120 &&
						req.Strategy == constant.StrategyFIFOReceipt &&
						!req.IncludeExpired &&
						req.Terminal == constant.BatchStatusDepleted
				})).Return(&model.AllocationResult{
					Deductions: []model.BatchDeduction{
						{BatchID: 101, QuantityDeducted: 100, QuantityRemaining: 0},
						{BatchID: 102, QuantityDeducted: 20, QuantityRemaining: 30},
					},
					TotalCost: decimal.NewFromInt(1240),
				}, nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(-120)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if len(got.Deductions) != 2 {
					t.Fatalf("deductions = %d, want 2", len(got.Deductions))
				}
				if !got.TotalCost.Equal(decimal.NewFromInt(1240)) {
					t.Fatalf("total cost = %s, want 1240", got.TotalCost)
				}
			},
		},
		{
			name: "success: damaged write-off may consume expired stock",
			req: &model.AdjustStockRequest{
				Kind:        "damaged",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    10,
				Reason:      "forklift incident",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.MatchedBy(func(req *model.AllocationRequest) bool {
					return req.IncludeExpired && req.Terminal == constant.BatchStatusDamaged
				})).Return(&model.AllocationResult{
					Deductions: []model.BatchDeduction{{BatchID: 103, QuantityDeducted: 10}},
					TotalCost:  decimal.NewFromInt(50),
				}, nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(-10)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if got.Kind != "damaged" {
					t.Fatalf("kind = %s, want damaged", got.Kind)
				}
			},
		},
		{
			name: "success: empty partial deduction commits nothing",
			req: &model.AdjustStockRequest{
				Kind:         "decrease",
				ProductID:    1,
				WarehouseID:  1,
				Quantity:     50,
				Reason:       "sale order 9",
				AllowPartial: true,
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.Anything).
					Return(&model.AllocationResult{Deductions: []model.BatchDeduction{}, Shortfall: 50}, nil).Once()
				// no commit and no utilization delta when nothing was taken
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if got.Shortfall != 50 {
					t.Fatalf("shortfall = %d, want 50", got.Shortfall)
				}
				if len(got.Deductions) != 0 {
					t.Fatalf("deductions = %+v, want none", got.Deductions)
				}
			},
		},
		{
			name: "error: insufficient stock surfaces the shortfall",
			req: &model.AdjustStockRequest{
				Kind:        "decrease",
				ProductID:   1,
				WarehouseID: 1,
				Quantity:    200,
				Reason:      "sale order 8",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.Anything).
					Return(&model.AllocationResult{Shortfall: 50}, cerr.SetCustomError(constant.ErrInsufficientStock)).Once()
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if got == nil || got.Shortfall != 50 {
					t.Fatalf("result = %+v, want shortfall 50", got)
				}
			},
			wantErr: true,
			errCode: constant.ErrInsufficientStock,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			got, err := newStockApp(f).AdjustStock(context.Background(), tt.req)

			if (err != nil) != tt.wantErr {
				t.Fatalf("AdjustStock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errCode != 0 {
				assertErrCode(t, err, tt.errCode)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestStockApp_TransferStock(t *testing.T) {
	receivedDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expiryDate := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	unitCost := decimal.NewFromInt(10)

	tests := []struct {
		name     string
		req      *model.TransferStockRequest
		mockCall func(f fields)
		check    func(t *testing.T, got *model.StockMutationResult)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: deductions are mirrored into the destination",
			req: &model.TransferStockRequest{
				FromWarehouseID: 1,
				ToWarehouseID:   2,
				ProductID:       1,
				Quantity:        30,
				Reason:          "rebalance",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1, Capacity: 1000, CurrentUtilization: 100}, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(2)).
					Return(&model.Warehouse{ID: 2, Capacity: 1000, CurrentUtilization: 40}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.MatchedBy(func(req *model.AllocationRequest) bool {
					return req.WarehouseID == 1 && req.Quantity == 30
				})).Return(&model.AllocationResult{
					Deductions: []model.BatchDeduction{{
						BatchID:           101,
						BatchNumber:       "BN-A",
						QuantityDeducted:  30,
						UnitCost:          unitCost,
						QuantityRemaining: 70,
						ReceivedDate:      receivedDate,
						ExpiryDate:        &expiryDate,
					}},
					TotalCost: decimal.NewFromInt(300),
				}, nil).Once()
				f.batchRepo.On("InsertBatchTx", mock.Anything, f.tx, mock.MatchedBy(func(item *model.InsertBatchItem) bool {
					return item.WarehouseID == 2 &&
						item.QuantityRemaining == 30 &&
						item.UnitCost.Equal(unitCost) &&
						item.ReceivedDate.Equal(receivedDate) &&
						item.ExpiryDate != nil && item.ExpiryDate.Equal(expiryDate)
				})).Return(uint64(900), nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(-30)).Return(nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(2), int64(30)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if len(got.CreatedBatches) != 1 {
					t.Fatalf("created batches = %d, want 1", len(got.CreatedBatches))
				}
				mirrored := got.CreatedBatches[0]
				if mirrored.ID != 900 || mirrored.WarehouseID != 2 {
					t.Fatalf("mirrored batch = %+v, want id 900 in warehouse 2", mirrored)
				}
				if !mirrored.UnitCost.Equal(unitCost) || !mirrored.ReceivedDate.Equal(receivedDate) {
					t.Fatalf("mirrored batch lost its cost basis or dates: %+v", mirrored)
				}
				if !got.TotalCost.Equal(decimal.NewFromInt(300)) {
					t.Fatalf("total cost = %s, want 300", got.TotalCost)
				}
				if len(got.CapacityExceeded) != 0 {
					t.Fatalf("capacity exceeded = %v, want none", got.CapacityExceeded)
				}
			},
		},
		{
			name: "success: destination over capacity is advisory",
			req: &model.TransferStockRequest{
				FromWarehouseID: 2,
				ToWarehouseID:   1,
				ProductID:       1,
				Quantity:        30,
				Reason:          "rebalance",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				// locked in ascending id order regardless of direction
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1, Capacity: 50, CurrentUtilization: 40}, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(2)).
					Return(&model.Warehouse{ID: 2, Capacity: 1000, CurrentUtilization: 200}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.Anything).
					Return(&model.AllocationResult{
						Deductions: []model.BatchDeduction{{BatchID: 102, QuantityDeducted: 30, UnitCost: unitCost, ReceivedDate: receivedDate}},
						TotalCost:  decimal.NewFromInt(300),
					}, nil).Once()
				f.batchRepo.On("InsertBatchTx", mock.Anything, f.tx, mock.Anything).Return(uint64(901), nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(2), int64(-30)).Return(nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(1), int64(30)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if len(got.CapacityExceeded) != 1 || got.CapacityExceeded[0] != 1 {
					t.Fatalf("capacity exceeded = %v, want [1]", got.CapacityExceeded)
				}
			},
		},
		{
			name: "error: source and destination are the same",
			req: &model.TransferStockRequest{
				FromWarehouseID: 1,
				ToWarehouseID:   1,
				ProductID:       1,
				Quantity:        30,
				Reason:          "rebalance",
			},
			wantErr: true,
			errCode: constant.ErrInvalidTransfer,
		},
		{
			name: "error: zero quantity",
			req: &model.TransferStockRequest{
				FromWarehouseID: 1,
				ToWarehouseID:   2,
				ProductID:       1,
				Quantity:        0,
				Reason:          "rebalance",
			},
			wantErr: true,
			errCode: constant.ErrInvalidQuantity,
		},
		{
			name: "error: insufficient stock at the source",
			req: &model.TransferStockRequest{
				FromWarehouseID: 1,
				ToWarehouseID:   2,
				ProductID:       1,
				Quantity:        500,
				Reason:          "rebalance",
			},
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(1)).
					Return(&model.Warehouse{ID: 1}, nil).Once()
				f.warehouseRepo.On("GetWarehouseTx", mock.Anything, f.tx, uint64(2)).
					Return(&model.Warehouse{ID: 2}, nil).Once()
				f.allocator.On("AllocateTx", mock.Anything, f.tx, mock.Anything).
					Return(&model.AllocationResult{Shortfall: 350}, cerr.SetCustomError(constant.ErrInsufficientStock)).Once()
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
			check: func(t *testing.T, got *model.StockMutationResult) {
				if got == nil || got.Shortfall != 350 {
					t.Fatalf("result = %+v, want shortfall 350", got)
				}
			},
			wantErr: true,
			errCode: constant.ErrInsufficientStock,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			got, err := newStockApp(f).TransferStock(context.Background(), tt.req)

			if (err != nil) != tt.wantErr {
				t.Fatalf("TransferStock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errCode != 0 {
				assertErrCode(t, err, tt.errCode)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestStockApp_MarkBatchExpired(t *testing.T) {
	tests := []struct {
		name     string
		batchID  uint64
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:    "success: active batch is expired and leaves utilization",
			batchID: 301,
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.batchRepo.On("GetBatchTx", mock.Anything, f.tx, uint64(301)).
					Return(&model.Batch{ID: 301, ProductID: 1, WarehouseID: 3, QuantityRemaining: 25, Status: constant.BatchStatusActive}, nil).Once()
				f.batchRepo.On("UpdateBatchQuantityTx", mock.Anything, f.tx, uint64(301), int64(25), constant.BatchStatusExpired).Return(nil).Once()
				f.warehouseRepo.On("AdjustUtilizationTx", mock.Anything, f.tx, uint64(3), int64(-25)).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
		},
		{
			name:    "success: already terminal is a no-op",
			batchID: 302,
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.batchRepo.On("GetBatchTx", mock.Anything, f.tx, uint64(302)).
					Return(&model.Batch{ID: 302, Status: constant.BatchStatusDepleted}, nil).Once()
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
		},
		{
			name:    "success: drained batch skips the utilization adjustment",
			batchID: 303,
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.batchRepo.On("GetBatchTx", mock.Anything, f.tx, uint64(303)).
					Return(&model.Batch{ID: 303, WarehouseID: 3, QuantityRemaining: 0, Status: constant.BatchStatusActive}, nil).Once()
				f.batchRepo.On("UpdateBatchQuantityTx", mock.Anything, f.tx, uint64(303), int64(0), constant.BatchStatusExpired).Return(nil).Once()
				f.txRepo.On("CommitTx", f.tx).Return(nil).Once()
			},
		},
		{
			name:    "error: batch not found",
			batchID: 999,
			mockCall: func(f fields) {
				f.txRepo.On("BeginTx", mock.Anything).Return(f.tx, nil).Once()
				f.batchRepo.On("GetBatchTx", mock.Anything, f.tx, uint64(999)).Return(nil, nil).Once()
				f.txRepo.On("RollbackTx", f.tx).Return(nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrBatchNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			err := newStockApp(f).MarkBatchExpired(context.Background(), tt.batchID)

			if (err != nil) != tt.wantErr {
				t.Fatalf("MarkBatchExpired() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errCode != 0 {
				assertErrCode(t, err, tt.errCode)
			}
		})
	}
}

func TestStockApp_StockSummary(t *testing.T) {
	f := newFields(t)
	soon := time.Now().AddDate(0, 0, 10)
	far := time.Now().AddDate(0, 6, 0)

	f.batchRepo.On("ListBatches", mock.Anything, uint64(1), uint64(1)).Return([]model.Batch{
		{ID: 1, QuantityRemaining: 100, Status: constant.BatchStatusActive, ExpiryDate: &far},
		{ID: 2, QuantityRemaining: 30, Status: constant.BatchStatusActive, ExpiryDate: &soon},
		{ID: 3, QuantityRemaining: 50, Status: constant.BatchStatusExpired, ExpiryDate: &soon},
	}, nil).Once()

	got, err := newStockApp(f).StockSummary(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("StockSummary() error = %v", err)
	}
	if got.TotalAvailable != 130 {
		t.Fatalf("total available = %d, want 130", got.TotalAvailable)
	}
	if got.BatchCount != 2 {
		t.Fatalf("batch count = %d, want 2", got.BatchCount)
	}
	if got.ExpiringSoon != 1 {
		t.Fatalf("expiring soon = %d, want 1", got.ExpiringSoon)
	}
}

func TestStockApp_ListBatchFreshness(t *testing.T) {
	f := newFields(t)
	past := time.Now().AddDate(0, 0, -1)

	f.batchRepo.On("ListBatches", mock.Anything, uint64(1), uint64(2)).Return([]model.Batch{
		{ID: 1, QuantityRemaining: 10, Status: constant.BatchStatusActive, ExpiryDate: &past},
		{ID: 2, QuantityRemaining: 20, Status: constant.BatchStatusActive},
	}, nil).Once()

	got, err := newStockApp(f).ListBatchFreshness(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListBatchFreshness() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Freshness != constant.FreshnessExpired.String() {
		t.Fatalf("freshness[0] = %s, want %s", got[0].Freshness, constant.FreshnessExpired)
	}
	if got[1].Freshness != constant.FreshnessHealthy.String() {
		t.Fatalf("freshness[1] = %s, want %s", got[1].Freshness, constant.FreshnessHealthy)
	}
}
