package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"study-tracker/internal/api"
	"study-tracker/internal/bot"
	"study-tracker/internal/config"
	"study-tracker/internal/repository"
	"study-tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, if configured, the Telegram bot",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := repository.NewDB(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer repository.Close(db)
		logger.Info("schema is up to date", zap.String("database", cfg.DatabaseURL))
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	weeklyRepo := repository.NewWeeklyPlanRepository(db)
	logRepo := repository.NewLogRepository(db)
	planRepo := repository.NewPlanRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	loc := cfg.Location
	weeklySvc := service.NewWeeklyPlanService(db, weeklyRepo, logRepo, categoryRepo, loc)
	services := api.Services{
		Auth:       service.NewAuthService(db, userRepo, categoryRepo, service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)),
		Categories: service.NewCategoryService(categoryRepo),
		Weekly:     weeklySvc,
		Logs:       service.NewLogService(db, logRepo, planRepo, categoryRepo, loc),
		Plans:      service.NewPlanService(db, planRepo, logRepo, categoryRepo, loc),
		Presets:    service.NewPresetService(repository.NewPresetRepository(db)),
		Analytics:  service.NewAnalyticsService(analyticsRepo, logRepo, planRepo, loc),
	}

	if cfg.Env != config.EnvDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(services, loc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.BotEnabled() {
		reminderSvc := service.NewReminderService(weeklySvc, analyticsRepo)
		telegramBot, err := bot.New(cfg.TelegramToken, userRepo, weeklySvc, reminderSvc, logger.Named("bot"))
		if err != nil {
			stop()
			_ = group.Wait()
			return err
		}

		scheduler := service.NewSchedulerService(loc, logger.Named("scheduler"))
		entry, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := telegramBot.SendDailyReports(jobCtx); err != nil {
				logger.Error("daily reminder", zap.Error(err))
			}
		})
		if err != nil {
			stop()
			_ = group.Wait()
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("daily reminder scheduled", zap.Time("next", scheduler.Next(entry)))

		group.Go(func() error {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Info("telegram bot disabled")
	}

	err = group.Wait()
	logger.Info("shutdown complete")
	return err
}
