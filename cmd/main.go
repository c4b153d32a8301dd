package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mongovault/internal/auth"
	"mongovault/internal/config"
	"mongovault/internal/database"
	"mongovault/internal/httphandlers"
	"mongovault/internal/misc"
	"mongovault/internal/notify"
	"mongovault/internal/service"
	"mongovault/internal/source"
	"mongovault/internal/storage"
	"mongovault/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.New()

	if err := logger.InitLogger(os.Getenv("MODE"), cfg.LogFile); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return
	}
	defer logger.Sync()

	srv, teardown, err := setup(cfg)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		logger.Info("serving http(s)", zap.String("addr", cfg.ListenAddr))
		if cfg.HasTLSConfig() {
			if err := srv.ListenAndServeTLS(cfg.ServerSSLCertFile, cfg.ServerSSLKeyFile); err != nil {
				log.Fatal("server closed: ", err)
			}
		} else {
			if err := srv.ListenAndServe(); err != nil {
				log.Fatal("server closed: ", err)
			}
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	<-done
	log.Println("Shutting down...")

	if teardown != nil {
		if err := teardown(); err != nil {
			logger.Error("teardown failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %s\n", err)
	}
}

func setup(cfg config.Config) (*http.Server, func() error, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	connectionRepo := database.NewConnectionRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	runLogRepo := database.NewRunLogRepository(db)

	encryptor, err := misc.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	verifier, authorizer := auth.NewAccessKeyAuth(cfg)

	storageFactory, err := storage.NewFactory(ctx, cfg)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	var notifier notify.Notifier = notify.NewNoop()
	if cfg.TelegramBotToken != "" {
		notifier, err = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			cancel()
			return nil, nil, err
		}
	}

	connectionService := service.NewConnectionService(connectionRepo, encryptor, authorizer)
	scheduleService := service.NewScheduleService(scheduleRepo, connectionRepo, authorizer)
	runLogService := service.NewRunLogService(runLogRepo, scheduleRepo, storageFactory)
	executor := service.NewExecutorService(scheduleRepo, runLogRepo, connectionService,
		source.NewMongoFactory(), storageFactory, notifier, time.Now)
	scanner := service.NewScannerService(scheduleRepo, runLogRepo, executor)

	var scheduler gocron.Scheduler
	if cfg.InternalScheduler {
		scheduler, err = runInternalScheduler(ctx, scanner)
		if err != nil {
			cancel()
			return nil, nil, err
		}
	}

	apiHandler := httphandlers.NewApiHandler(connectionService, scheduleService, runLogService, scanner)
	routes := httphandlers.Routes(apiHandler, verifier, cfg.CronSecret)

	return &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: routes,
		}, func() error {
			if scheduler != nil {
				if err := scheduler.Shutdown(); err != nil {
					logger.Error("scheduler shutdown failed", zap.Error(err))
				}
			}
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				err = sqlDB.Close()
				logger.Info("DB Closed", zap.Error(err))
			}
			cancel()
			return nil
		}, nil
}

// runInternalScheduler fires the due-schedule scan once a minute for
// deployments that have no external cron caller.
func runInternalScheduler(ctx context.Context, scanner service.ScannerService) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLimitConcurrentJobs(1, gocron.LimitModeWait))
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob("* * * * *", false),
		gocron.NewTask(func() {
			if _, err := scanner.RunDue(ctx, time.Now()); err != nil {
				logger.Error("scheduled scan failed", zap.Error(err))
			}
		}))
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	logger.Info("internal scheduler started")
	return scheduler, nil
}
