// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nexthire-workers/internal/ats/catalog"
	"nexthire-workers/internal/ats/extract"
	"nexthire-workers/internal/ats/pipeline"
	"nexthire-workers/internal/ats/record"
	"nexthire-workers/internal/common/aws"
	"nexthire-workers/internal/common/config"
	"nexthire-workers/internal/common/database"
	"nexthire-workers/internal/common/logger"
	"nexthire-workers/internal/common/observability"
	"nexthire-workers/pkg/registry"

	sca "nexthire-workers/internal/workers/application/score-application"
	sub "nexthire-workers/internal/workers/application/submit-application"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	var esClient *database.ElasticsearchClient
	if cfg.ATS.IndexOutcomes {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	var redis *database.RedisClient
	if cfg.ATS.VocabularyCache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	s3Client, err := aws.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		zapLog.Fatal("s3 client initialization failed", zap.Error(err))
	}
	zapLog.Info("Resume store initialized", zap.String("bucket", cfg.Storage.Bucket))

	var snsClient *aws.SNSClient
	if cfg.ATS.AlertOnCrash && cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client initialization failed", zap.Error(err))
		}
		zapLog.Info("SNS crash alerting enabled", zap.String("topicArn", cfg.Integrations.AWS.SNS.TopicARN))
	}

	zapLog.Info("All external service clients initialized")

	// Scoring pipeline assembly.
	skillCatalog := catalog.Default()
	if cfg.ATS.CatalogPath != "" {
		skillCatalog, err = catalog.LoadFile(cfg.ATS.CatalogPath)
		if err != nil {
			zapLog.Fatal("skill catalog load failed", zap.Error(err), zap.String("path", cfg.ATS.CatalogPath))
		}
	}
	zapLog.Info("Skill catalog loaded", zap.Int("entries", skillCatalog.Len()))

	var resolver pipeline.Resolver = catalog.NewResolver(skillCatalog)
	if redis != nil {
		resolver = catalog.NewCachedResolver(
			catalog.NewResolver(skillCatalog),
			redis.Client,
			time.Duration(cfg.ATS.VocabularyCache.TTL)*time.Millisecond,
			log,
		)
	}

	extractor := extract.New(time.Duration(cfg.ATS.ExtractionTimeout) * time.Millisecond)

	var indexer *record.OutcomeIndexer
	if esClient != nil {
		indexer = record.NewOutcomeIndexer(esClient, cfg.ATS.OutcomeIndex, log)
	}
	var alerter *record.CrashAlerter
	if snsClient != nil {
		alerter = record.NewCrashAlerter(snsClient, cfg.Integrations.AWS.SNS.TopicARN, log)
	}
	recorder := record.NewRecorder(
		record.NewPostgresRecorder(pg.DB, cfg.ATS.StatusMaxLen, log),
		indexer,
		alerter,
	)

	scorer := pipeline.New(resolver, extractor, recorder, log).WithObserver(obs)

	// Task registry sanity check before workers open.
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Warn("task registry unavailable, input schemas will not be enforced",
			zap.Error(err), zap.String("path", cfg.Registry.Path))
		reg = &registry.ActivityRegistry{}
	}
	for _, taskType := range []string{sca.TaskType, sub.TaskType} {
		if _, ok := reg.FindByTaskType(taskType); !ok {
			zapLog.Warn("task type missing from registry", zap.String("taskType", taskType))
		}
	}

	if cfg.Workers[sca.TaskType].Enabled {
		handler := sca.NewHandler(
			&sca.Config{
				Timeout: time.Duration(cfg.Workers[sca.TaskType].Timeout) * time.Millisecond,
			},
			s3Client, scorer, log,
		)
		if activity, ok := reg.FindByTaskType(sca.TaskType); ok {
			handler = handler.WithActivity(activity)
		}
		startWorker(zeebeClient, sca.TaskType, cfg.Workers[sca.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sub.TaskType].Enabled {
		handler := sub.NewHandler(
			&sub.Config{
				Timeout:      time.Duration(cfg.Workers[sub.TaskType].Timeout) * time.Millisecond,
				ResumePrefix: cfg.Storage.ResumePrefix,
			},
			pg.DB, s3Client, scorer, log,
		)
		if activity, ok := reg.FindByTaskType(sub.TaskType); ok {
			handler = handler.WithActivity(activity)
		}
		startWorker(zeebeClient, sub.TaskType, cfg.Workers[sub.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
