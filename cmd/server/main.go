package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clayshop/storefront/internal/adapter/catalog"
	"github.com/clayshop/storefront/internal/adapter/handler"
	"github.com/clayshop/storefront/internal/adapter/payment"
	"github.com/clayshop/storefront/internal/adapter/storage"
	"github.com/clayshop/storefront/internal/core/domain"
	"github.com/clayshop/storefront/internal/core/service"
	"github.com/clayshop/storefront/internal/port"
	"github.com/clayshop/storefront/pkg/config"
	"github.com/clayshop/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL holds the checkout journal
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal("connect mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("ping mysql", zap.Error(err))
	}
	log.Info("connected to mysql")

	// Redis holds the durable cart slots
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	log.Info("connected to redis")

	// Adapters
	kv := storage.NewRedisAdapter(rdb)
	checkouts := storage.NewMySQLAdapter(db)
	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogToken)
	gateway := payment.NewStripeGateway(cfg.StripeURL, cfg.StripeKey)

	// Services
	carts := service.NewCartService(kv, log)
	checkout := service.NewCheckoutService(catalogClient, gateway, carts, log, cfg.QueueSize)

	// Journal worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			journalLoop(id, checkout.Journal(), checkouts, log)
		}(i)
	}
	log.Info("started journal workers", zap.Int("count", cfg.WorkerCount))

	// HTTP server
	h := handler.NewHTTPHandler(carts, checkout, log)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/create-payment-intent", h.CreatePaymentIntent)
	mux.HandleFunc("GET /api/payment-status", h.PaymentStatus)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("HTTP server stopped")

	// Close journal and wait for workers to drain it
	checkout.Close()
	wg.Wait()
	log.Info("journal workers stopped")

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}

// journalLoop drains checkout records into MySQL. Records still awaiting
// payment are inserts; everything else is a status transition reported by
// the gateway. Failures only log; the journal is reconciliation
// bookkeeping, not part of the charge path.
func journalLoop(id int, queue <-chan domain.CheckoutRecord, checkouts port.CheckoutRepository, log *zap.Logger) {
	for rec := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		var err error
		if rec.Status == domain.PaymentStatusAwaiting {
			err = checkouts.CreateCheckout(ctx, rec)
		} else {
			_, err = checkouts.MarkStatus(ctx, rec.IntentID, rec.Status)
		}
		if err != nil {
			log.Error("journal checkout",
				zap.Int("worker", id),
				zap.String("intent", rec.IntentID),
				zap.Error(err))
		}

		cancel()
	}
}
