package stock

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"

	"github.com/go-sql-driver/mysql"
	"github.com/posku/inventory-engine/constant"
	"github.com/posku/inventory-engine/utils/errors"
)

// mysql server error numbers for lock wait timeout and deadlock
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// classifyInfra maps a raw store error onto the retry contract: deadlocks and
// lock timeouts become concurrency conflicts, connectivity and deadline
// failures become retryable infra errors, everything else stays internal.
// Business outcomes never pass through here, so a caller seeing a retryable
// code can safely retry with backoff.
func classifyInfra(err error) error {
	var mysqlErr *mysql.MySQLError
	if stderrors.As(err, &mysqlErr) {
		if mysqlErr.Number == mysqlErrLockWaitTimeout || mysqlErr.Number == mysqlErrDeadlock {
			return errors.SetCustomError(constant.ErrConcurrencyConflict)
		}
		return errors.SetCustomError(constant.ErrInternal)
	}
	if stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, driver.ErrBadConn) ||
		stderrors.Is(err, sql.ErrConnDone) ||
		stderrors.Is(err, mysql.ErrInvalidConn) {
		return errors.SetCustomError(constant.ErrRetryableInfra)
	}
	return errors.SetCustomError(constant.ErrInternal)
}

// asBusinessError passes through errors already carrying an engine error
// code, so validation and stock outcomes are never re-wrapped as internal.
func asBusinessError(err error) (errors.CustomError, bool) {
	var ce errors.CustomError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return errors.CustomError{}, false
}
