package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rustic-lights-backend/internal/auth"
	"rustic-lights-backend/internal/client"
	"rustic-lights-backend/internal/config"
	"rustic-lights-backend/internal/logger"
	"rustic-lights-backend/internal/repository"
	"rustic-lights-backend/internal/server"
	"rustic-lights-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyDefaults()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)
	darajaClient := client.NewDarajaClient(&cfg.Mpesa)

	tokenMaker := auth.NewMaker(cfg.JWT)
	blacklist := auth.NewBlacklist()

	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewPaymentSessionRepository(db)

	userService := service.NewUserService(userRepo, addressRepo, tokenMaker, blacklist)
	productService := service.NewProductService(categoryRepo, productRepo, favouriteRepo)
	cartService := service.NewCartService(db, userRepo, productRepo, cartRepo)
	orderService := service.NewOrderService(db, cartRepo, orderRepo, addressRepo)
	paymentService := service.NewPaymentService(db, log, darajaClient, orderRepo, sessionRepo)

	srv := server.NewServer(
		log,
		tokenMaker,
		blacklist,
		userService,
		productService,
		cartService,
		orderService,
		paymentService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
