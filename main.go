package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"eco-swift-backend/config"
	"eco-swift-backend/db"
	"eco-swift-backend/graph"
	"eco-swift-backend/pubsub"
	"eco-swift-backend/routes"
	"eco-swift-backend/services"
	"eco-swift-backend/store"
	"eco-swift-backend/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.LogLevel, cfg.Server.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := db.Connect(ctx, cfg.Mongo.URI)
	cancel()
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongodb disconnect failed", zap.Error(err))
		}
	}()
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	database := client.Database(cfg.Mongo.Database)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureIndexes(indexCtx, database)
	indexCancel()
	if err != nil {
		logger.Fatal("index creation failed", zap.Error(err))
	}

	users := store.NewUserStore(database)
	categories := store.NewCategoryStore(database)
	products := store.NewProductStore(database)
	orders := store.NewOrderStore(database)
	reviews := store.NewReviewStore(database)

	relay := pubsub.NewRelay(logger)
	defer relay.Close()

	email := utils.NewEmailService(cfg.Email.APIKey, cfg.Email.Sender)
	jwtSecret := []byte(cfg.JWT.Secret)
	jwtExpiration := time.Duration(cfg.JWT.ExpirationHours) * time.Hour

	resolver := &graph.Resolver{
		Users:      services.NewUserService(users, jwtSecret, jwtExpiration),
		Products:   services.NewProductService(products, categories, users, relay, logger),
		Categories: services.NewCategoryService(categories, products, users),
		Orders:     services.NewOrderService(orders, products, users, relay, email, logger),
		Reviews:    services.NewReviewService(reviews, orders, products),

		UserStore:     users,
		ProductStore:  products,
		CategoryStore: categories,
		OrderStore:    orders,
		ReviewStore:   reviews,

		Relay:  relay,
		Logger: logger,
	}

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		logger.Fatal("schema build failed", zap.Error(err))
	}

	router := mux.NewRouter()
	routes.Register(router, schema, graph.NewWSHandler(schema, jwtSecret, logger), jwtSecret, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("graphql", "/graphql"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
