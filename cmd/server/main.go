package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldforce/config"
	"fieldforce/internal/database"
	"fieldforce/internal/queue"
	"fieldforce/internal/router"
	"fieldforce/pkg/cloudinary"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if cfg.Server.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}
	database.SeedAdmin(db)

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			logrus.WithError(err).Fatal("cloudinary")
		}
	} else {
		logrus.Info("cloudinary: disabled, uploads unavailable")
	}

	var publisher queue.AlertPublisher = queue.NopPublisher{}
	if cfg.Queue.URL != "" {
		rabbit, err := queue.NewRabbitPublisher(cfg.Queue.URL, cfg.Queue.Exchange)
		if err != nil {
			logrus.WithError(err).Fatal("rabbitmq")
		}
		publisher = rabbit
		logrus.WithField("exchange", cfg.Queue.Exchange).Info("rabbitmq: geofence alerts enabled")
	} else {
		logrus.Info("rabbitmq: disabled, set RABBITMQ_URL to enable alert fan-out")
	}
	defer publisher.Close()

	engine, taskSvc := router.Setup(cfg, db, cloud, publisher)

	refresherCtx, stopRefresher := context.WithCancel(context.Background())
	defer stopRefresher()
	go taskSvc.RunRefresher(refresherCtx, cfg.Tracking.StatusRefreshPeriod)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")
	stopRefresher()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown")
	}
	logrus.Info("server stopped")
}
