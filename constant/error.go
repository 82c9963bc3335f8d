package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrInvalidQuantity
	ErrInsufficientStock
	ErrInvalidTransfer
	ErrBatchNotFound
	ErrRetryableInfra
	ErrConcurrencyConflict
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:             "success",
	ErrInternal:            "error internal",
	ErrNotFound:            "data not found",
	ErrInvalidRequest:      "invalid request",
	ErrInvalidQuantity:     "quantity must be positive",
	ErrInsufficientStock:   "insufficient stock",
	ErrInvalidTransfer:     "source and destination warehouse must differ",
	ErrBatchNotFound:       "batch not found",
	ErrRetryableInfra:      "store unavailable, retry later",
	ErrConcurrencyConflict: "concurrent stock update, retry later",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:             http.StatusOK,
	ErrInternal:            http.StatusInternalServerError,
	ErrNotFound:            http.StatusBadRequest,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrInvalidQuantity:     http.StatusBadRequest,
	ErrInsufficientStock:   http.StatusConflict,
	ErrInvalidTransfer:     http.StatusBadRequest,
	ErrBatchNotFound:       http.StatusBadRequest,
	ErrRetryableInfra:      http.StatusServiceUnavailable,
	ErrConcurrencyConflict: http.StatusConflict,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:             "0000",
	ErrInternal:            "0001",
	ErrNotFound:            "0002",
	ErrInvalidRequest:      "0003",
	ErrInvalidQuantity:     "0004",
	ErrInsufficientStock:   "0005",
	ErrInvalidTransfer:     "0006",
	ErrBatchNotFound:       "0007",
	ErrRetryableInfra:      "0008",
	ErrConcurrencyConflict: "0009",
}
