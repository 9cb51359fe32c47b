package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MasloRich/Beauty-bot/internal/app"
	"github.com/MasloRich/Beauty-bot/internal/availability"
	"github.com/MasloRich/Beauty-bot/internal/booking"
	"github.com/MasloRich/Beauty-bot/internal/config"
	"github.com/MasloRich/Beauty-bot/internal/controller"
	"github.com/MasloRich/Beauty-bot/internal/controller/callbacks/callbacktypes"
	"github.com/MasloRich/Beauty-bot/internal/controller/state"
	"github.com/MasloRich/Beauty-bot/internal/lock"
	"github.com/MasloRich/Beauty-bot/internal/metrics"
	"github.com/MasloRich/Beauty-bot/internal/notification"
	"github.com/MasloRich/Beauty-bot/internal/repository"
	"github.com/MasloRich/Beauty-bot/internal/repository/base"
	"github.com/MasloRich/Beauty-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	logger.Info("Starting beauty bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", loc.String()),
		zap.Int("admins", len(cfg.AdminIDs)))

	pool, err := app.ConnectPostgres(ctx, cfg.GetDBDSN(), cfg.Timezone)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrationsEnabled {
		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		_ = migrator.Close()
		if err != nil {
			return err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = app.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info("Redis connected, drafts and locks are shared")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Репозитории
	db := base.NewRepository(pool, cfg.ReadRetries)
	masterRepo := repository.NewMasterRepository(db)
	clientRepo := repository.NewClientRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db, loc)
	appointmentRepo := repository.NewAppointmentRepository(db)

	resolver := availability.NewResolver(scheduleRepo, appointmentRepo, availability.Options{
		Step:        cfg.SlotStep,
		MinNotice:   cfg.MinBookingNotice,
		HorizonDays: cfg.BookingHorizonDays,
		Location:    loc,
	})

	var (
		locker  lock.Locker
		drafts  booking.DraftStore
		sweeper app.DraftSweeper
	)
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL)
		drafts = state.NewRedisStore(rdb, cfg.DraftIdleTimeout)
	} else {
		manager := state.NewManager(cfg.DraftIdleTimeout)
		locker = lock.NewLocalLocker()
		drafts = manager
		sweeper = manager
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	dispatcher := notification.NewDispatcher(controller.NewNotifier(b, loc), appointmentRepo, m, logger, 0)

	// Сервисы
	appointmentService := service.NewAppointmentService(
		masterRepo, clientRepo, serviceRepo, appointmentRepo,
		locker, dispatcher, m, logger, loc, cfg.MinBookingNotice,
	)
	catalogService := service.NewCatalogService(masterRepo, serviceRepo, scheduleRepo, logger, loc)
	roleService := service.NewRoleService(cfg.AdminIDs, masterRepo)

	flow := booking.NewFlow(catalogService, resolver, appointmentService, drafts, m, logger, cfg.DraftIdleTimeout)

	botController := controller.NewBotController(b, &callbacktypes.Handler{
		Flow:         flow,
		Appointments: appointmentService,
		Catalog:      catalogService,
		Roles:        roleService,
		Studio:       cfg.Studio(),
		Location:     loc,
		Logger:       logger,
	})
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	pingers := map[string]app.Pinger{"postgres": pool}
	if rdb != nil {
		pingers["redis"] = app.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	httpServer := app.NewHTTPServer(cfg.HTTPAddr, cfg.Environment, reg, pingers, logger)

	scheduler := app.NewScheduler(sweeper, appointmentRepo, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return botController.Start(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return dispatcher.Run(gctx) })

	return g.Wait()
}
