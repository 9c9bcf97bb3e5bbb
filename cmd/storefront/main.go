package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authapp "github.com/danipaBernales/modern-ecommerce/internal/auth/app"
	authhttp "github.com/danipaBernales/modern-ecommerce/internal/auth/httpapi"
	authsqlite "github.com/danipaBernales/modern-ecommerce/internal/auth/infra/sqlite"
	cartapp "github.com/danipaBernales/modern-ecommerce/internal/cart/app"
	carthttp "github.com/danipaBernales/modern-ecommerce/internal/cart/httpapi"
	"github.com/danipaBernales/modern-ecommerce/internal/cart/infra/sqlitekv"
	catalogapp "github.com/danipaBernales/modern-ecommerce/internal/catalog/app"
	"github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
	cataloghttp "github.com/danipaBernales/modern-ecommerce/internal/catalog/httpapi"
	catalogsqlite "github.com/danipaBernales/modern-ecommerce/internal/catalog/infra/sqlite"
	"github.com/danipaBernales/modern-ecommerce/pkg/config"
	"github.com/danipaBernales/modern-ecommerce/pkg/logger"
	"github.com/danipaBernales/modern-ecommerce/pkg/shutdown"
	"github.com/danipaBernales/modern-ecommerce/pkg/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	// Catalog
	productRepo := catalogsqlite.NewProductRepo(db)
	if cfg.AppEnv == "dev" {
		if err := seedCatalog(ctx, db, productRepo); err != nil {
			log.Warn("catalog seed failed", slog.Any("err", err))
		}
	}
	engine := catalogapp.NewEngine(productRepo, log)

	// Cart
	cartStore := cartapp.NewStore(ctx, sqlitekv.New(db, "default"), log)

	// Identity
	authRepo := authsqlite.New(db)
	authSvc := authapp.NewService(authRepo, authRepo, []byte(cfg.AuthSecret),
		cfg.ProfileWaitAttempts, time.Duration(cfg.ProfileWaitDelayMS)*time.Millisecond, log)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	cataloghttp.NewHandler(engine).Register(router)
	carthttp.NewHandler(cartStore).Register(router)
	authhttp.NewHandler(authSvc, cartStore).Register(router)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := server.Shutdown(stopCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

// seedCatalog fills an empty dev catalog with sample products so the
// filter controls have something to show.
func seedCatalog(ctx context.Context, db *sql.DB, repo *catalogsqlite.ProductRepo) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM products").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	samples := []domain.Product{
		{Name: "Mechanical Keyboard", Description: "Hot-swappable switches, PBT keycaps", Price: decimal.NewFromInt(120), Stock: 12, Category: "Electronics"},
		{Name: "27\" Monitor", Description: "1440p IPS panel", Price: decimal.NewFromInt(300), Stock: 5, Category: "Electronics"},
		{Name: "USB-C Hub", Description: "7-in-1", Price: decimal.NewFromInt(25), Stock: 40, Category: "Electronics"},
		{Name: "Desk Lamp", Description: "Warm dimmable LED", Price: decimal.NewFromInt(45), Stock: 18, Category: "Home & Office"},
		{Name: "Ceramic Mug", Description: "350ml, stoneware", Price: decimal.NewFromFloat(12.5), Stock: 60, Category: "Home & Office"},
		{Name: "Laptop Sleeve", Description: "14 inch, felt", Price: decimal.NewFromInt(19), Stock: 30, Category: "Accessories"},
		{Name: "Canvas Tote", Description: "Heavy duty", Price: decimal.NewFromInt(15), Stock: 0, Category: "Accessories"},
	}
	for i, p := range samples {
		p.ID = uuid.NewString()
		p.ImageURL = fmt.Sprintf("https://img.example/p/%s.jpg", p.ID)
		p.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		if err := repo.Insert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
