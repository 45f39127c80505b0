package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"mediaPipeline/worker/cache"
	"mediaPipeline/worker/config"
	"mediaPipeline/worker/kafka"
	"mediaPipeline/worker/pipeline"
	"mediaPipeline/worker/repository"
	"mediaPipeline/worker/runner"
	"mediaPipeline/worker/service"
	"mediaPipeline/worker/storage"
	"mediaPipeline/worker/transcode"
	"mediaPipeline/worker/transcribe"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	workerID := uuid.New().String()

	logger.Info("Worker service starting", zap.String("worker_id", workerID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store, closeStore, err := storage.ConnectSFTP(cfg.SFTPAddr, cfg.SFTPUser, cfg.SFTPPassword, cfg.StorageRoot, logger)
	if err != nil {
		logger.Fatal("Failed to connect to storage", zap.Error(err))
	}
	defer closeStore()

	var statusCache *cache.StatusCache
	redisClient, err := cache.ConnectCache(cfg.RedisAddr)
	if err != nil {
		logger.Warn("Redis unavailable, status mirror disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		statusCache = cache.NewStatusCache(redisClient)
	}

	var producer kafka.Producer
	producer, err = kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	if err != nil {
		logger.Warn("Kafka unavailable, job events disabled", zap.Error(err))
		producer = nil
	} else {
		defer producer.Close()
	}

	queue := repository.NewPostgresQueue(db)
	mediaRepo := repository.NewPostgresMediaRepo(db)

	toolRunner := runner.ExecRunner{}
	transcoder := transcode.NewTranscoder(cfg.FFmpegBin, cfg.FFprobeBin, toolRunner, logger)
	transcriber := transcribe.NewTranscriber(cfg.WhisperBin, cfg.WhisperModel, cfg.WhisperLanguage, toolRunner, logger)

	pipe := pipeline.New(queue, mediaRepo, store, transcoder, transcriber, pipeline.Options{
		WorkDir:           cfg.WorkDir,
		HLSBitrateKbps:    cfg.HLSBitrateKbps,
		HLSSegmentSeconds: cfg.HLSSegmentSeconds,
		CoverWidth:        cfg.CoverWidth,
	}, logger)

	monitor := service.NewMonitor(queue, cfg.ReclaimInterval, cfg.StaleTimeout, logger)
	go monitor.Run(ctx)

	var mirror service.StatusMirror
	if statusCache != nil {
		mirror = statusCache
	}

	worker := service.NewWorker(workerID, queue, pipe, mirror, producer, cfg.PollInterval, logger)
	worker.Run(ctx)

	logger.Info("Worker service stopped", zap.String("worker_id", workerID))
}
