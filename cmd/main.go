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

	confirmDraftHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/confirm_draft"
	createDraftHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/create_draft"
	discardDraftHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/discard_draft"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_available_slots"
	getDraftHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_draft"
	retryPriceHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/retry_price"
	updateDraftHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/update_draft"
	validateCandidateHandler "github.com/m04kA/SMC-SlotEngine/internal/api/handlers/validate_candidate"
	"github.com/m04kA/SMC-SlotEngine/internal/api/middleware"
	"github.com/m04kA/SMC-SlotEngine/internal/config"
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/booking"
	eventsRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/events"
	resourceRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/resource"
	pricingClient "github.com/m04kA/SMC-SlotEngine/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-SlotEngine/internal/rules"
	draftsService "github.com/m04kA/SMC-SlotEngine/internal/service/drafts"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_available_slots"
	validateCandidateUC "github.com/m04kA/SMC-SlotEngine/internal/usecase/validate_candidate"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
	"github.com/m04kA/SMC-SlotEngine/pkg/metrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SlotEngine/pkg/txmanager"
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

	log.Info("Starting SMC-SlotEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента pricing-сервиса
	pricing := pricingClient.NewClient(
		cfg.PricingService.URL,
		time.Duration(cfg.PricingService.Timeout)*time.Second,
		log,
	)
	log.Info("Pricing client initialized (url=%s timeout=%ds)",
		cfg.PricingService.URL, cfg.PricingService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		resourceRepository *resourceRepo.Repository
		eventRepository    *eventsRepo.Repository
		bookingRepository  *bookingRepo.Repository
		txMgr              draftsService.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		eventRepository = eventsRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		resourceRepository = resourceRepo.NewRepository(db)
		eventRepository = eventsRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Собираем пайплайн правил. Ограничение горизонта бронирования
	// не входит в базовый набор и подключается через реестр расширений.
	pipeline := rules.NewPipeline()
	pipeline.Register("future_limit", futureLimitRule)
	log.Info("Rule pipeline assembled: %v", pipeline.RuleNames())

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		resourceRepository,
		eventRepository,
		pipeline,
		log,
	)
	validateCandidateUseCase := validateCandidateUC.NewUseCase(
		resourceRepository,
		eventRepository,
		pipeline,
		log,
	)

	// Инициализируем сервис черновиков
	draftOpts := []draftsService.Option{
		draftsService.WithDebounce(time.Duration(cfg.Drafts.DebounceMS) * time.Millisecond),
	}
	if cfg.Drafts.TTLMinutes > 0 {
		draftOpts = append(draftOpts, draftsService.WithTTL(time.Duration(cfg.Drafts.TTLMinutes)*time.Minute))
	}
	if cfg.Metrics.Enabled {
		draftOpts = append(draftOpts, draftsService.WithMetrics(metricsCollector))
	}

	draftSvc := draftsService.NewService(
		pricing,
		resourceRepository,
		eventRepository,
		bookingRepository,
		pipeline,
		txMgr,
		log,
		draftOpts...,
	)
	defer draftSvc.Close()

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateCandidate := validateCandidateHandler.NewHandler(validateCandidateUseCase, log)
	createDraft := createDraftHandler.NewHandler(draftSvc, validateCandidateUseCase, log)
	updateDraft := updateDraftHandler.NewHandler(draftSvc, validateCandidateUseCase, log)
	getDraft := getDraftHandler.NewHandler(draftSvc, log)
	discardDraft := discardDraftHandler.NewHandler(draftSvc, log)
	confirmDraft := confirmDraftHandler.NewHandler(draftSvc, log)
	retryPrice := retryPriceHandler.NewHandler(draftSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Перечисление бронируемых слотов услуги на день
	api.HandleFunc("/resources/{resourceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Интерактивная валидация выделенного интервала
	api.HandleFunc("/resources/{resourceId}/candidates/validate",
		validateCandidate.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Черновики бронирований ---
	// Создание черновика из принятого интервала
	protected.HandleFunc("/drafts", createDraft.Handle).Methods(http.MethodPost)

	// Получение черновика
	protected.HandleFunc("/drafts/{draftId}", getDraft.Handle).Methods(http.MethodGet)

	// Частичное обновление черновика (интервал, услуга, опции, купон)
	protected.HandleFunc("/drafts/{draftId}", updateDraft.Handle).Methods(http.MethodPatch)

	// Сброс черновика
	protected.HandleFunc("/drafts/{draftId}", discardDraft.Handle).Methods(http.MethodDelete)

	// Повторный запрос цены после retryable-ошибки
	protected.HandleFunc("/drafts/{draftId}/price/retry", retryPrice.Handle).Methods(http.MethodPost)

	// Подтверждение черновика с актуальной ценой
	protected.HandleFunc("/drafts/{draftId}/confirm", confirmDraft.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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

// futureLimitRule отклоняет интервалы дальше горизонта бронирования ресурса.
// Нулевой горизонт означает отсутствие ограничения.
func futureLimitRule(prev domain.ValidationResult, in *rules.Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if in.Resource.FutureLimitDays <= 0 {
		return prev
	}
	limit := in.Now.AddDate(0, 0, in.Resource.FutureLimitDays)
	if in.Candidate.Start.After(limit) {
		return domain.Rejectf("бронирование более чем за %d дней недоступно", in.Resource.FutureLimitDays)
	}
	return prev
}
