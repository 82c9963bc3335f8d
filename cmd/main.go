package main

import (
	"context"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	allocatorapp "github.com/posku/inventory-engine/application/allocator"
	"github.com/posku/inventory-engine/application/expiry"
	stockapp "github.com/posku/inventory-engine/application/stock"
	warehouseapp "github.com/posku/inventory-engine/application/warehouse"
	"github.com/posku/inventory-engine/cmd/config"
	redisclient "github.com/posku/inventory-engine/cmd/redis"
	batchRepo "github.com/posku/inventory-engine/repository/batch"
	redisRepo "github.com/posku/inventory-engine/repository/redis"
	txRepo "github.com/posku/inventory-engine/repository/tx"
	warehouseRepo "github.com/posku/inventory-engine/repository/warehouse"
	"github.com/posku/inventory-engine/thirdparty/rabbitmq"
	"github.com/posku/inventory-engine/transport"
	"github.com/posku/inventory-engine/utils/logger"
	"go.uber.org/zap"
)

// @title INVENTORY ENGINE API
// @version 1.0
// @description Batch lifecycle and FIFO allocation engine
// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		// fallback to standard log if zap init fails
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Initialize Redis client; the cache layer degrades to no-ops without it
	if err := redisclient.New(cfg); err != nil {
		logger.Warn("err connect redis, summary cache disabled", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// RabbitMQ publisher for stock movements and delayed expiry sweeps
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Warn("err connect rabbitmq, events disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	BatchRepo := batchRepo.NewBatchRepository(db)
	WarehouseRepo := warehouseRepo.NewWarehouseRepository(db)
	RedisRepo := redisRepo.NewRepository()

	// Initialize application layers
	classifier := expiry.NewClassifier(cfg.Stock.ExpiringSoonDays)
	Allocator := allocatorapp.NewFIFOAllocator(BatchRepo, classifier)
	WarehouseApp := warehouseapp.NewWarehouseApp(TxRepo, WarehouseRepo)
	StockApp := stockapp.NewStockApp(cfg, TxRepo, BatchRepo, WarehouseRepo, Allocator, classifier, RedisRepo, publisher)

	httpTransport := transport.NewTransport(StockApp, WarehouseApp, cfg.Internal.APIKey)

	// Expiry sweep consumer drains the delayed queue and calls back into
	// the internal API
	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.Internal.APIURL, cfg.Internal.APIKey)
	if err != nil {
		logger.Warn("err connect rabbitmq consumer, expiry sweep disabled", zap.Error(err))
	} else {
		defer consumer.Close()
		if err := consumer.Start(context.Background()); err != nil {
			logger.Warn("err start expiry sweep consumer", zap.Error(err))
		}
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
