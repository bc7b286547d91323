package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	createBookingHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_booking"
	getModelBookingsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_model_bookings"
	getModelSettingsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/get_model_settings"
	listModelSettingsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/list_model_settings"
	listModelsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/list_models"
	resolveModelSlugHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/resolve_model_slug"
	updateBookingStatusHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/update_booking_status"
	updateModelSettingsHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/update_model_settings"
	wizardHandler "github.com/m04kA/SMC-BookingWizard/internal/api/handlers/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWizard/internal/config"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/cache"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/migrations"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/redisclient"
	"github.com/m04kA/SMC-BookingWizard/internal/infra/sessions"
	bookingRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/backendapi"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/embedded"
	bookingsService "github.com/m04kA/SMC-BookingWizard/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-BookingWizard/internal/service/catalog"
	settingsService "github.com/m04kA/SMC-BookingWizard/internal/service/settings"
	wizardService "github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	createBookingUC "github.com/m04kA/SMC-BookingWizard/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BookingWizard/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingWizard/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/metrics"
	"github.com/m04kA/SMC-BookingWizard/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BookingWizard...")
	log.Info("Configuration loaded from config.toml (backend=%s, redis=%t, metrics=%t)",
		cfg.Backend.Mode, cfg.Redis.Enabled, cfg.Metrics.Enabled)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики (если включены).
	// Интерфейсы получают nil только явно: типизированный nil *Metrics сломал бы проверки на nil.
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
		wizardRecorder   wizardService.MetricsRecorder
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		wizardRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Redis: хранилище сессий и кэш каталога
	var (
		sessionStore wizardService.SessionStore
		catalogCache catalogService.Cache
	)
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(ctx, redisclient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		sessionStore = sessions.NewRedisStore(redisClient.Client(), cfg.Redis.SessionPrefix, nil)
		catalogCache = cache.NewRedisCache(redisClient.Client())
		log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		memoryStore := sessions.NewMemoryStore(nil)
		go memoryStore.Run(ctx, time.Duration(cfg.Wizard.CleanupInterval)*time.Second)
		sessionStore = memoryStore
		log.Info("Redis disabled: wizard sessions are kept in memory")
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Провайдеры мастера: встроенная система бронирования или внешний бэкенд
	var (
		catalogProvider    wizardService.CatalogProvider
		schedulingProvider wizardService.SchedulingProvider
		healthCheck        = func(context.Context) error { return nil }
	)

	switch cfg.Backend.Mode {
	case config.BackendEmbedded:
		// Подключаемся к базе данных
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}

		if metricsCollector != nil {
			if err := metricsCollector.RegisterDBStats(db, cfg.Database.DBName); err != nil {
				log.Warn("Failed to register DB stats collector: %v", err)
			}
		}

		wrappedDB := dbmetrics.Wrap(db, dbRecorder)
		healthCheck = wrappedDB.PingContext

		// Репозитории и менеджер транзакций
		bookingRepository := bookingRepo.NewRepository(wrappedDB)
		catalogRepository := catalogRepo.NewRepository(wrappedDB)
		settingsRepository := settingsRepo.NewRepository(wrappedDB)
		txMgr := txmanager.NewTransactionManager(wrappedDB)

		// Сервисы
		catalogSvc := catalogService.NewService(
			catalogRepository,
			catalogCache,
			time.Duration(cfg.Redis.CatalogCacheTTL)*time.Second,
			log,
		)
		bookingSvc := bookingsService.NewService(bookingRepository, catalogRepository, txMgr, log)
		settingsSvc := settingsService.NewService(settingsRepository, catalogRepository, txMgr, log)

		// Use cases
		createBookingUseCase := createBookingUC.NewUseCase(
			catalogRepository,
			settingsRepository,
			bookingRepository,
			txMgr,
			log,
		)
		getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
			catalogRepository,
			settingsRepository,
			bookingRepository,
			log,
		)

		catalogProvider = embedded.NewCatalog(catalogSvc)
		schedulingProvider = embedded.NewScheduling(getAvailableSlotsUseCase, createBookingUseCase)

		// ============================================================
		// PUBLIC BACKEND ROUTES (без аутентификации)
		// ============================================================

		api.HandleFunc("/catalog/models",
			listModelsHandler.NewHandler(catalogSvc, log).Handle).Methods(http.MethodGet)
		api.HandleFunc("/catalog/models/by-slug/{slug}",
			resolveModelSlugHandler.NewHandler(catalogSvc, log).Handle).Methods(http.MethodGet)
		api.HandleFunc("/models/{modelId}/available-slots",
			getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log).Handle).Methods(http.MethodGet)
		api.HandleFunc("/models/{modelId}/settings",
			getModelSettingsHandler.NewHandler(settingsSvc, log).Handle).Methods(http.MethodGet)
		api.HandleFunc("/bookings",
			createBookingHandler.NewHandler(createBookingUseCase, log).Handle).Methods(http.MethodPost)

		// ============================================================
		// PROTECTED ROUTES (требуют X-User-ID header владельца модели)
		// ============================================================

		protected := api.PathPrefix("").Subrouter()
		protected.Use(middleware.Auth)

		protected.HandleFunc("/bookings/{bookingId}",
			getBookingHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodGet)
		protected.HandleFunc("/bookings/{bookingId}/status",
			updateBookingStatusHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodPatch)
		protected.HandleFunc("/models/{modelId}/bookings",
			getModelBookingsHandler.NewHandler(bookingSvc, log).Handle).Methods(http.MethodGet)
		protected.HandleFunc("/models/{modelId}/settings",
			updateModelSettingsHandler.NewHandler(settingsSvc, log).Handle).Methods(http.MethodPut)
		protected.HandleFunc("/models/{modelId}/settings/all",
			listModelSettingsHandler.NewHandler(settingsSvc, log).Handle).Methods(http.MethodGet)

	case config.BackendRemote:
		client := backendapi.NewClient(cfg.Backend.URL, time.Duration(cfg.Backend.Timeout)*time.Second, log)
		catalogProvider = client
		schedulingProvider = client
		log.Info("Remote booking backend: %s (timeout=%ds)", cfg.Backend.URL, cfg.Backend.Timeout)
	}

	// ============================================================
	// WIZARD ROUTES (публичные, с ограничением частоты по IP)
	// ============================================================

	wizardSvc := wizardService.NewService(
		catalogProvider,
		schedulingProvider,
		sessionStore,
		wizardRecorder,
		log,
		nil,
		time.Duration(cfg.Wizard.SessionTTL)*time.Second,
		time.Duration(cfg.Wizard.SubmitTimeout)*time.Second,
	)
	wizard := wizardHandler.NewHandler(wizardSvc, log)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.Wizard.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid trusted proxies: %v", err)
	}
	limiter := middleware.NewRateLimiter(cfg.Wizard.RateLimitRPS, cfg.Wizard.RateLimitBurst, 10*time.Minute, trustedProxies, log)
	go runLimiterCleanup(ctx, limiter, time.Minute)

	wizardRoutes := api.PathPrefix("/wizard").Subrouter()
	wizardRoutes.Use(limiter.Middleware)

	wizardRoutes.HandleFunc("/sessions", wizard.Start).Methods(http.MethodPost)
	wizardRoutes.HandleFunc("/sessions/{sessionId}", wizard.Get).Methods(http.MethodGet)
	wizardRoutes.HandleFunc("/sessions/{sessionId}/events", wizard.ApplyEvent).Methods(http.MethodPost)
	wizardRoutes.HandleFunc("/sessions/{sessionId}/catalog/reload", wizard.ReloadCatalog).Methods(http.MethodPost)
	wizardRoutes.HandleFunc("/sessions/{sessionId}/slots", wizard.LoadSlots).Methods(http.MethodGet)
	wizardRoutes.HandleFunc("/sessions/{sessionId}/submit", wizard.Submit).Methods(http.MethodPost)
	wizardRoutes.HandleFunc("/sessions/{sessionId}/retry", wizard.Retry).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := healthCheck(req.Context()); err != nil {
			log.Error("GET /health - Database unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(cfg.CORS.AllowedOrigins)(r), // preflight OPTIONS не доходит до маршрутов mux
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи (очистка сессий и лимитеров)
	stop()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runLimiterCleanup периодически удаляет лимитеры неактивных клиентов
func runLimiterCleanup(ctx context.Context, limiter *middleware.RateLimiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Cleanup(now)
		}
	}
}
