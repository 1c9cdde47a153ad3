package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ecowall/config"
	"ecowall/database"
	"ecowall/handlers"
	"ecowall/routes"
	"ecowall/storage"
	"ecowall/store"
)

func main() {
	logrus.Info("🚀 Starting EcoWall backend...")

	// Optional for local development; real environments set env directly.
	if err := godotenv.Load(); err == nil {
		logrus.Info("Loaded environment from .env")
	}

	cfg := config.Load()

	logrus.Info("🔌 Connecting to MongoDB...")
	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
			dbErr = err
			logrus.WithError(err).Errorf("MongoDB connection attempt %d failed", i)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		logrus.WithError(dbErr).Fatal("❌ Failed to connect to MongoDB")
	}
	defer func() {
		if err := database.Disconnect(); err != nil {
			logrus.WithError(err).Error("MongoDB disconnect failed")
		}
	}()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	posts := handlers.NewPostHandler(store.NewPostStore(database.Posts), storage.NewUploader(cfg.UploadDir))
	chat := handlers.NewChatHandler(cfg.ChatAPIURL, cfg.ChatAPIKey)
	router := routes.SetupRouter(cfg, posts, chat)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("❌ Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Forced shutdown")
	}

	logrus.Info("👋 Server stopped gracefully")
}
