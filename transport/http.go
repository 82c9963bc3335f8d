package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	stockapp "github.com/posku/inventory-engine/application/stock"
	warehouseapp "github.com/posku/inventory-engine/application/warehouse"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/model"
	"github.com/posku/inventory-engine/utils/errors"
	validatorx "github.com/posku/inventory-engine/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	StockApp     stockapp.StockApp
	WarehouseApp warehouseapp.WarehouseApp
}

func NewTransport(StockApp stockapp.StockApp, WarehouseApp warehouseapp.WarehouseApp, internalAPIKey string) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		StockApp:     StockApp,
		WarehouseApp: WarehouseApp,
	}

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Stock routes
	mux.HandleFunc("/stock/adjust", rh.AdjustStock).Methods(http.MethodPost)
	mux.HandleFunc("/stock/transfer", rh.TransferStock).Methods(http.MethodPost)
	mux.HandleFunc("/stock/summary", rh.StockSummary).Methods(http.MethodGet)
	mux.HandleFunc("/stock/batches", rh.ListBatches).Methods(http.MethodGet)
	mux.HandleFunc("/warehouse/{id}/utilization", rh.GetUtilization).Methods(http.MethodGet)

	// Internal routes, called by the expiry sweep consumer and ops tooling
	internal := mux.PathPrefix("/internal").Subrouter()
	internal.Use(InternalMiddleware(internalAPIKey))
	internal.HandleFunc("/batch/expire", rh.ExpireBatch).Methods(http.MethodPost)
	internal.HandleFunc("/warehouse/{id}/recompute", rh.RecomputeUtilization).Methods(http.MethodPost)

	// middleware
	mux.Use(LoggingMiddleware())

	return mux
}

// AdjustStock handler
// @Summary Adjust stock
// @Description Increase, decrease, or write off stock for a product in a warehouse
// @Tags Stock
// @Accept json
// @Produce json
// @Param request body model.AdjustStockRequest true "Adjust Stock Request"
// @Success 200 {object} model.StockMutationResult
// @Failure 400 {object} errors.CustomError
// @Failure 409 {object} errors.CustomError
// @Router /stock/adjust [post]
func (s *RestHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.StockApp.AdjustStock(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// TransferStock handler
// @Summary Transfer stock
// @Description Move stock between warehouses, depleting source batches and mirroring them at the destination
// @Tags Stock
// @Accept json
// @Produce json
// @Param request body model.TransferStockRequest true "Transfer Stock Request"
// @Success 200 {object} model.StockMutationResult
// @Failure 400 {object} errors.CustomError
// @Failure 409 {object} errors.CustomError
// @Router /stock/transfer [post]
func (s *RestHandler) TransferStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.TransferStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.StockApp.TransferStock(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// StockSummary handler
// @Summary Stock summary
// @Description Available stock for a product in a warehouse with expiring-soon counts
// @Tags Stock
// @Produce json
// @Param product_id query int true "Product ID"
// @Param warehouse_id query int true "Warehouse ID"
// @Success 200 {object} model.StockSummary
// @Failure 400 {object} errors.CustomError
// @Router /stock/summary [get]
func (s *RestHandler) StockSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, warehouseID, ok := productWarehouseParams(r)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.StockApp.StockSummary(ctx, productID, warehouseID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ListBatches handler
// @Summary List batches
// @Description All batches for a product in a warehouse with freshness classification
// @Tags Stock
// @Produce json
// @Param product_id query int true "Product ID"
// @Param warehouse_id query int true "Warehouse ID"
// @Success 200 {array} model.BatchFreshness
// @Failure 400 {object} errors.CustomError
// @Router /stock/batches [get]
func (s *RestHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, warehouseID, ok := productWarehouseParams(r)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.StockApp.ListBatchFreshness(ctx, productID, warehouseID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetUtilization handler
// @Summary Warehouse utilization
// @Description Cached used-capacity counter and capacity advisory for one warehouse
// @Tags Warehouse
// @Produce json
// @Param id path int true "Warehouse ID"
// @Success 200 {object} model.WarehouseUtilization
// @Failure 400 {object} errors.CustomError
// @Router /warehouse/{id}/utilization [get]
func (s *RestHandler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	warehouseID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.WarehouseApp.GetUtilization(ctx, warehouseID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ExpireBatch handler
// @Summary Expire a batch
// @Description Marks an active batch expired; driven by the delayed expiry queue
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body model.ExpireBatchRequest true "Expire Batch Request"
// @Success 200 {object} apiResponse
// @Failure 400 {object} errors.CustomError
// @Router /internal/batch/expire [post]
func (s *RestHandler) ExpireBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ExpireBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.StockApp.MarkBatchExpired(ctx, req.BatchID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// RecomputeUtilization handler
// @Summary Recompute warehouse utilization
// @Description Repairs the cached utilization counter from the authoritative batch sum
// @Tags Internal
// @Produce json
// @Param id path int true "Warehouse ID"
// @Success 200 {object} model.WarehouseUtilization
// @Failure 400 {object} errors.CustomError
// @Router /internal/warehouse/{id}/recompute [post]
func (s *RestHandler) RecomputeUtilization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	warehouseID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.WarehouseApp.RecomputeUtilization(ctx, warehouseID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

func productWarehouseParams(r *http.Request) (uint64, uint64, bool) {
	productID, err := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 64)
	if err != nil || productID == 0 {
		return 0, 0, false
	}
	warehouseID, err := strconv.ParseUint(r.URL.Query().Get("warehouse_id"), 10, 64)
	if err != nil || warehouseID == 0 {
		return 0, 0, false
	}
	return productID, warehouseID, true
}
