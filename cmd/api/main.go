package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"jobdemand-go/internal/api"
	"jobdemand-go/internal/config"
	"jobdemand-go/internal/dataset"
	"jobdemand-go/internal/logger"
	"jobdemand-go/internal/pipeline"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "jobdemand-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		log.WithError(err).Fatal("failed to load category map")
	}

	dataPath := cfg.DatasetPath
	if dataset.IsRemote(dataPath) {
		dir, err := os.MkdirTemp("", "jobdemand-")
		if err != nil {
			log.WithError(err).Fatal("failed to create download dir")
		}
		defer os.RemoveAll(dir)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DownloadTimeout)
		dataPath, err = dataset.Fetch(ctx, dataPath, dir, cfg.DownloadTimeout, log.Entry)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("failed to download dataset")
		}
	}

	log.WithField("dataset_path", dataPath).Info("loading dataset")
	records, err := dataset.Load(dataPath, log.Entry)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}
	log.WithField("records", len(records)).WithField("categories", resolver.Len()).Info("dataset loaded")

	opts := pipeline.Options{
		Resolver:  resolver,
		Policy:    cfg.Policy,
		TopK:      cfg.TopK,
		TitleTopK: cfg.TitleTopK,
		Log:       log.Entry,
	}
	// fail at startup rather than on the first request
	if _, err := pipeline.Run(records, opts); err != nil {
		log.WithError(err).Fatal("pipeline check failed")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(records, opts, log).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
