package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"tipjar/internal/directory"
	"tipjar/internal/directory/dynamo"
	"tipjar/internal/directory/spreadsheet"
	"tipjar/internal/photo"
	"tipjar/internal/photo/drive"
	photos3 "tipjar/internal/photo/s3"
	"tipjar/internal/platform/config"
	"tipjar/internal/platform/httpserver"
	"tipjar/internal/platform/logger"
	"tipjar/internal/platform/metrics"
	platformredis "tipjar/internal/platform/redis"
	"tipjar/internal/ratelimit"
	httptransport "tipjar/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the directory service.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	m := metrics.New()
	sheet := spreadsheet.New(cfg.SpreadsheetPath)

	var source directory.Source
	opts := []directory.Option{directory.WithMetrics(m)}

	switch cfg.Source {
	case config.SourceDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		store := dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
		storage := photos3.New(awss3.NewFromConfig(awsCfg), cfg.PhotoBucket)
		resolver := drive.New(cfg.DriveAPIBaseURL, cfg.DriveAPIKey)
		pipeline := photo.NewPipeline(storage, resolver, cfg.PhotoBucketURL, log, m)

		source = store
		opts = append(opts,
			directory.WithStore(store),
			directory.WithPhotoPipeline(pipeline),
			directory.WithImporter(sheet),
		)
	default:
		// Spreadsheet mode is read-only: no store, no photo pipeline.
		source = sheet
	}

	svc := directory.NewService(source, log, cfg.AdminToken, cfg.PhotoBucketURL, opts...)
	handler := httptransport.NewHandler(svc, log)

	var buckets ratelimit.BucketStore = ratelimit.NewInMemoryBucketStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		buckets = ratelimit.NewRedisBucketStore(redisClient.Client)
	}
	limiter := ratelimit.Middleware(buckets, cfg.SubmitLimit, cfg.SubmitWindow, log)

	router := httptransport.NewRouter(handler, log, limiter)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting tipjar", "addr", cfg.Addr, "source", cfg.Source)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
