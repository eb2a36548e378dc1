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
	"github.com/redis/go-redis/v9"

	availabilityStreamHandler "github.com/velmar/excursion-service/internal/api/handlers/availability_stream"
	cancelBookingHandler "github.com/velmar/excursion-service/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/velmar/excursion-service/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/velmar/excursion-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/velmar/excursion-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/velmar/excursion-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/velmar/excursion-service/internal/api/handlers/get_client_bookings"
	getExcursionsHandler "github.com/velmar/excursion-service/internal/api/handlers/get_excursions"
	getOperatorBookingsHandler "github.com/velmar/excursion-service/internal/api/handlers/get_operator_bookings"
	"github.com/velmar/excursion-service/internal/api/middleware"
	"github.com/velmar/excursion-service/internal/config"
	"github.com/velmar/excursion-service/internal/domain"
	bookingRepo "github.com/velmar/excursion-service/internal/infra/storage/booking"
	excursionRepo "github.com/velmar/excursion-service/internal/infra/storage/excursion"
	profileRepo "github.com/velmar/excursion-service/internal/infra/storage/profile"
	slotRepo "github.com/velmar/excursion-service/internal/infra/storage/slot"
	"github.com/velmar/excursion-service/internal/integrations/mailer"
	"github.com/velmar/excursion-service/internal/realtime"
	bookingsService "github.com/velmar/excursion-service/internal/service/bookings"
	createBookingUC "github.com/velmar/excursion-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/velmar/excursion-service/internal/usecase/get_available_slots"
	"github.com/velmar/excursion-service/internal/workers/reminder"
	"github.com/velmar/excursion-service/pkg/dbmetrics"
	"github.com/velmar/excursion-service/pkg/logger"
	"github.com/velmar/excursion-service/pkg/metrics"
	"github.com/velmar/excursion-service/pkg/simpletxmanager"
	"github.com/velmar/excursion-service/pkg/txmanager"
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

	log.Info("Starting excursion-service...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Redis для фанаута realtime-событий между инстансами (опционально)
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()
		log.Info("Connected to redis at %s", cfg.Redis.Addr)
	} else {
		log.Info("Redis disabled, realtime events stay in-process")
	}

	// Клиент email-рассылки
	mailerClient := mailer.NewClient(
		cfg.Mailer.BaseURL,
		cfg.Mailer.APIKey,
		cfg.Mailer.SenderEmail,
		cfg.Mailer.SenderName,
		time.Duration(cfg.Mailer.Timeout)*time.Second,
		log,
	)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository   *bookingRepo.Repository
		slotRepository      *slotRepo.Repository
		excursionRepository *excursionRepo.Repository
		profileRepository   *profileRepo.Repository
		txMgr               TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		excursionRepository = excursionRepo.NewRepository(wrappedDB)
		profileRepository = profileRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		excursionRepository = excursionRepo.NewRepository(db)
		profileRepository = profileRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Realtime: broadcaster рассылает обновления доступности,
	// детектор конфликтов слушает изменения бронирований
	var realtimeMetrics realtime.Metrics
	if cfg.Metrics.Enabled {
		realtimeMetrics = metricsCollector
	}

	broadcaster := realtime.NewBroadcaster(rdb, realtimeMetrics, log)
	detector := realtime.NewConflictDetector(slotRepository, bookingRepository, realtimeMetrics, log)
	broadcaster.RegisterBookingHandler(detector.HandleBookingChange)

	broadcasterCtx, stopBroadcaster := context.WithCancel(context.Background())
	defer stopBroadcaster()
	if err := broadcaster.Start(broadcasterCtx); err != nil {
		log.Fatal("Failed to start realtime broadcaster: %v", err)
	}
	log.Info("Realtime broadcaster started")

	// Use cases и сервисы
	var createBookingMetrics createBookingUC.Metrics
	var bookingsMetrics bookingsService.Metrics
	var streamMetrics availabilityStreamHandler.Metrics
	if cfg.Metrics.Enabled {
		createBookingMetrics = metricsCollector
		bookingsMetrics = metricsCollector
		streamMetrics = metricsCollector
	}

	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		excursionRepository,
		bookingRepository,
		profileRepository,
		txMgr,
		broadcaster,
		mailerClient,
		domain.DefaultCommissionPolicy(),
		createBookingMetrics,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		excursionRepository,
		bookingRepository,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		broadcaster,
		mailerClient,
		bookingsMetrics,
		log,
	)

	// Фоновый воркер напоминаний
	var reminderWorker *reminder.Worker
	if cfg.Reminder.Enabled {
		reminderWorker = reminder.NewWorker(
			bookingRepository,
			slotRepository,
			mailerClient,
			time.Duration(cfg.Reminder.IntervalMinutes)*time.Minute,
			log,
		)
		go reminderWorker.Start(context.Background())
	}

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getExcursions := getExcursionsHandler.NewHandler(excursionRepository, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getOperatorBookings := getOperatorBookingsHandler.NewHandler(bookingSvc, log)
	availabilityStream := availabilityStreamHandler.NewHandler(broadcaster, detector, streamMetrics, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог активных экскурсий
	api.HandleFunc("/excursions", getExcursions.Handle).Methods(http.MethodGet)

	// Слоты экскурсии с живой доступностью
	api.HandleFunc("/excursions/{excursionId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Websocket-поток обновлений доступности и конфликтов
	api.HandleFunc("/excursions/{excursionId}/availability/ws", availabilityStream.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение бронирования
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{email}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Бронирования туроператора
	protected.HandleFunc("/operators/{operatorId}/bookings", getOperatorBookings.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if reminderWorker != nil {
		reminderWorker.Stop()
		log.Info("Reminder worker stopped")
	}

	// Закрываем broadcaster: подписчики получают закрытие каналов,
	// websocket-обработчики завершаются сами
	broadcaster.Close()
	log.Info("Realtime broadcaster stopped")

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
