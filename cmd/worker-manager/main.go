// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"diagnostic-workers/internal/api"
	"diagnostic-workers/internal/common/aws"
	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/config"
	"diagnostic-workers/internal/common/database"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/common/rdstation"
	"diagnostic-workers/internal/leads"
	"diagnostic-workers/internal/scoring"

	ila "diagnostic-workers/internal/workers/analytics/index-lead-analytics"
	sds "diagnostic-workers/internal/workers/communication/send-diagnostic-summary"
	rcc "diagnostic-workers/internal/workers/crm/register-crm-conversion"
	cms "diagnostic-workers/internal/workers/diagnostic/calculate-maturity-score"
	clr "diagnostic-workers/internal/workers/diagnostic/create-lead-record"
	rdr "diagnostic-workers/internal/workers/diagnostic/render-diagnostic-report"
	vds "diagnostic-workers/internal/workers/diagnostic/validate-diagnostic-submission"
)

const serviceName = "diagnostic-workers"

// retryWithBackoff attempts to execute a function with exponential backoff
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(serviceName, log)

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
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

	if err := database.Migrate(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional) ---
	var indexer ila.Indexer
	if cfg.Database.Elasticsearch.Enabled() {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		indexer = esClient
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Warn("Elasticsearch not configured, lead analytics will be skipped")
	}

	// --- Init External Service Clients ---
	awsClients, err := aws.NewClients(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("aws clients failed", zap.Error(err))
	}

	dict := scoring.DefaultDictionary()
	if path := cfg.Scoring.DictionaryPath; path != "" {
		dict, err = scoring.LoadDictionary(path)
		if err != nil {
			zapLog.Fatal("narrative dictionary load failed", zap.String("path", path), zap.Error(err))
		}
	}
	engine := scoring.NewEngine(dict)
	zapLog.Info("Scoring engine ready", zap.Int("paragraphs", dict.Len()))

	rd := cfg.Integrations.RDStation
	crm := rdstation.NewClient(
		rd.BaseURL,
		rd.ConversionIdentifier,
		rdstation.NewDBTokenSource(pg.DB, redis.Client, time.Duration(rd.TokenCacheTTL)*time.Second),
		config.GetDuration(rd.Timeout),
	)

	zapLog.Info("All external service clients initialized")

	// --- Register workers ---
	var workers []*camunda.Worker
	start := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(zeebe.Zeebe(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
			Name:          serviceName,
		}, handler, log))
	}
	timeout := func(taskType string, fallback time.Duration) time.Duration {
		if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
			return config.GetDuration(ms)
		}
		return fallback
	}

	{
		c := vds.LoadConfig()
		c.Timeout = timeout(vds.TaskType, c.Timeout)
		start(vds.TaskType, vds.NewHandler(c, obs, log))
	}

	{
		c := cms.LoadConfig()
		c.Timeout = timeout(cms.TaskType, c.Timeout)
		start(cms.TaskType, cms.NewHandler(c, engine, obs, log))
	}

	{
		c := clr.LoadConfig()
		c.Timeout = timeout(clr.TaskType, c.Timeout)
		start(clr.TaskType, clr.NewHandler(c, pg.DB, obs, log))
	}

	{
		c := rcc.LoadConfig()
		c.Timeout = timeout(rcc.TaskType, c.Timeout)
		start(rcc.TaskType, rcc.NewHandler(c, crm, obs, log))
	}

	{
		c := sds.ConfigFrom(cfg)
		c.Timeout = timeout(sds.TaskType, c.Timeout)
		start(sds.TaskType, sds.NewHandler(c, awsClients.SES, awsClients.SNS, redis.Client, obs, log))
	}

	{
		c := ila.LoadConfig()
		c.IndexName = cfg.Analytics.IndexName
		c.Timeout = timeout(ila.TaskType, c.Timeout)
		start(ila.TaskType, ila.NewHandler(c, indexer, obs, log))
	}

	// The report handler also serves the HTTP report route, so it is built
	// even when its worker is disabled.
	rc := rdr.LoadConfig()
	rc.CacheTTL = time.Duration(cfg.Report.CacheTTL) * time.Second
	rc.Timeout = timeout(rdr.TaskType, rc.Timeout)
	reports := rdr.NewHandler(rc, pg.DB, redis.Client, engine, obs, log)
	start(rdr.TaskType, reports)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- HTTP intake, probes & metrics ---
	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewServer(api.Options{
			ProcessID: cfg.Camunda.ProcessID,
			Starter:   zeebe,
			Leads:     leads.NewRepository(pg.DB),
			Reports:   reports,
			DB:        pg.DB,
			Broker:    zeebe,
			Engine:    engine,
			Logger:    log,
		}).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
